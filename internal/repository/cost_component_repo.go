package repository

import (
	"context"

	"hppkit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostComponentRepository defines CRUD operations for CostComponent.
type CostComponentRepository interface {
	Create(ctx context.Context, c *model.CostComponent) error
	List(ctx context.Context, userID uuid.UUID) ([]model.CostComponent, error)
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.CostComponent, error)
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.CostComponent, error)
	Update(ctx context.Context, c *model.CostComponent) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountUsage counts product and service cost lines referencing the component.
	CountUsage(ctx context.Context, id uuid.UUID) (int64, error)
}

type costComponentRepo struct{ db *gorm.DB }

func NewCostComponentRepository(db *gorm.DB) CostComponentRepository {
	return &costComponentRepo{db: db}
}

func (r *costComponentRepo) Create(ctx context.Context, c *model.CostComponent) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *costComponentRepo) List(ctx context.Context, userID uuid.UUID) ([]model.CostComponent, error) {
	var list []model.CostComponent
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name asc").Find(&list).Error
	return list, err
}

func (r *costComponentRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.CostComponent, error) {
	var c model.CostComponent
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *costComponentRepo) FindByName(ctx context.Context, userID uuid.UUID, name string) (*model.CostComponent, error) {
	var c model.CostComponent
	err := r.db.WithContext(ctx).Where("user_id = ? AND lower(name) = lower(?)", userID, name).Take(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *costComponentRepo) Update(ctx context.Context, c *model.CostComponent) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *costComponentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CostComponent{}, "id = ?", id).Error
}

func (r *costComponentRepo) CountUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64
	for _, kind := range []model.EntityKind{model.KindProduct, model.KindService} {
		var n int64
		if err := r.db.WithContext(ctx).Table(kind.CostTable()).
			Where("cost_component_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
