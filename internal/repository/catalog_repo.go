package repository

import (
	"context"

	"hppkit/internal/dto"
	"hppkit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository covers plain CRUD for products and services.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	CreateService(ctx context.Context, s *model.Service) error
	FindProduct(ctx context.Context, userID, id uuid.UUID) (*model.Product, error)
	FindService(ctx context.Context, userID, id uuid.UUID) (*model.Service, error)
	ListProducts(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) ([]model.Product, int64, error)
	ListServices(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) ([]model.Service, int64, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	UpdateService(ctx context.Context, s *model.Service) error
	SetActive(ctx context.Context, kind model.EntityKind, userID, id uuid.UUID, active bool) (int64, error)
	CodeTaken(ctx context.Context, kind model.EntityKind, userID uuid.UUID, code string, exceptID uuid.UUID) (bool, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogRepo) CreateService(ctx context.Context, s *model.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogRepo) FindProduct(ctx context.Context, userID, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepo) FindService(ctx context.Context, userID, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// filtered applies the shared list filter to a products/services query.
func filtered(q *gorm.DB, userID uuid.UUID, filter dto.EntityFilter) *gorm.DB {
	q = q.Where("user_id = ?", userID)

	// Active filter: "false" = inactive, "all" = everything, anything else = active (default)
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
	default:
		q = q.Where("active = true")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	return q
}

func (r *catalogRepo) ListProducts(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) ([]model.Product, int64, error) {
	var list []model.Product
	var total int64

	q := filtered(r.db.WithContext(ctx).Model(&model.Product{}), userID, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *catalogRepo) ListServices(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) ([]model.Service, int64, error) {
	var list []model.Service
	var total int64

	q := filtered(r.db.WithContext(ctx).Model(&model.Service{}), userID, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// UpdateProduct saves descriptive fields only; hpp and selling_price belong
// to the pricing core.
func (r *catalogRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Model(p).
		Select("code", "name", "unit", "description").
		Updates(p).Error
}

func (r *catalogRepo) UpdateService(ctx context.Context, s *model.Service) error {
	return r.db.WithContext(ctx).Model(s).
		Select("code", "name", "duration_minutes", "description").
		Updates(s).Error
}

func (r *catalogRepo) SetActive(ctx context.Context, kind model.EntityKind, userID, id uuid.UUID, active bool) (int64, error) {
	res := r.db.WithContext(ctx).Table(kind.EntityTable()).
		Where("id = ? AND user_id = ?", id, userID).
		Update("active", active)
	return res.RowsAffected, res.Error
}

func (r *catalogRepo) CodeTaken(ctx context.Context, kind model.EntityKind, userID uuid.UUID, code string, exceptID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(kind.EntityTable()).
		Where("user_id = ? AND lower(code) = lower(?) AND id <> ?", userID, code, exceptID).
		Count(&n).Error
	return n > 0, err
}
