package repository

import (
	"context"
	"errors"

	"hppkit/internal/model"
	"hppkit/internal/pricing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceSchemaRepository manages the level chain of one entity kind.
// Neighbour lookups (FindByOrderTx, TopTx) return (nil, nil) when no level
// exists at that position.
type PriceSchemaRepository interface {
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.PriceSchema, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.PriceSchema, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PriceSchema, error)

	// Used inside transactions: callers must pass the tx instance
	ListByEntityTx(tx *gorm.DB, entityID uuid.UUID) ([]model.PriceSchema, error)
	MaxOrderTx(tx *gorm.DB, entityID uuid.UUID) (int, error)
	FindByOrderTx(tx *gorm.DB, entityID uuid.UUID, order int) (*model.PriceSchema, error)
	TopTx(tx *gorm.DB, entityID uuid.UUID) (*model.PriceSchema, error)
	CreateTx(tx *gorm.DB, s *model.PriceSchema) error
	SaveTx(tx *gorm.DB, s *model.PriceSchema) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	// ReindexTx assigns level_order = position+1 following orderedIDs.
	ReindexTx(tx *gorm.DB, entityID uuid.UUID, orderedIDs []uuid.UUID) error
	// CloseGapTx shifts every level above removedOrder down by one.
	CloseGapTx(tx *gorm.DB, entityID uuid.UUID, removedOrder int) error

	DB() *gorm.DB
}

type priceSchemaRepo struct {
	db   *gorm.DB
	kind model.EntityKind
}

func NewPriceSchemaRepository(db *gorm.DB, kind model.EntityKind) PriceSchemaRepository {
	return &priceSchemaRepo{db: db, kind: kind}
}

func (r *priceSchemaRepo) table() string { return r.kind.SchemaTable() }

func (r *priceSchemaRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.PriceSchema, error) {
	var s model.PriceSchema
	err := r.db.WithContext(ctx).Table(r.table()+" s").
		Select("s.*").
		Joins("JOIN "+r.kind.EntityTable()+" e ON e.id = s.entity_id").
		Where("s.id = ? AND e.user_id = ?", id, userID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *priceSchemaRepo) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.PriceSchema, error) {
	return r.ListByEntityTx(r.db.WithContext(ctx), entityID)
}

func (r *priceSchemaRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PriceSchema, error) {
	var list []model.PriceSchema
	err := r.db.WithContext(ctx).Table(r.table()+" s").
		Select("s.*").
		Joins("JOIN "+r.kind.EntityTable()+" e ON e.id = s.entity_id").
		Where("e.user_id = ?", userID).
		Order("s.entity_id ASC, s.level_order ASC").
		Scan(&list).Error
	return list, err
}

func (r *priceSchemaRepo) ListByEntityTx(tx *gorm.DB, entityID uuid.UUID) ([]model.PriceSchema, error) {
	var list []model.PriceSchema
	err := tx.Table(r.table()).Where("entity_id = ?", entityID).Order("level_order ASC").Find(&list).Error
	return list, err
}

func (r *priceSchemaRepo) MaxOrderTx(tx *gorm.DB, entityID uuid.UUID) (int, error) {
	var max int
	err := tx.Table(r.table()).Where("entity_id = ?", entityID).
		Select("COALESCE(MAX(level_order), 0)").Scan(&max).Error
	return max, err
}

func (r *priceSchemaRepo) FindByOrderTx(tx *gorm.DB, entityID uuid.UUID, order int) (*model.PriceSchema, error) {
	var s model.PriceSchema
	err := tx.Table(r.table()).Where("entity_id = ? AND level_order = ?", entityID, order).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *priceSchemaRepo) TopTx(tx *gorm.DB, entityID uuid.UUID) (*model.PriceSchema, error) {
	var s model.PriceSchema
	err := tx.Table(r.table()).Where("entity_id = ?", entityID).Order("level_order DESC").Limit(1).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *priceSchemaRepo) CreateTx(tx *gorm.DB, s *model.PriceSchema) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return tx.Table(r.table()).Create(s).Error
}

func (r *priceSchemaRepo) SaveTx(tx *gorm.DB, s *model.PriceSchema) error {
	return tx.Table(r.table()).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"level_name":          s.LevelName,
		"level_order":         s.LevelOrder,
		"discount_percentage": s.DiscountPercentage,
		"purchase_price":      s.PurchasePrice,
		"selling_price":       s.SellingPrice,
		"profit_amount":       s.ProfitAmount,
		"notes":               s.Notes,
		"updated_at":          gorm.Expr("NOW()"),
	}).Error
}

func (r *priceSchemaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Table(r.table()).Where("id = ?", id).Delete(&model.PriceSchema{}).Error
}

// ReindexTx runs in two passes: every level is first pushed past
// pricing.ReorderOffset so no intermediate state collides on
// (entity_id, level_order), then each gets its final position.
func (r *priceSchemaRepo) ReindexTx(tx *gorm.DB, entityID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := tx.Table(r.table()).Where("entity_id = ?", entityID).
		Update("level_order", gorm.Expr("level_order + ?", pricing.ReorderOffset)).Error; err != nil {
		return err
	}
	for i, id := range orderedIDs {
		if err := tx.Table(r.table()).Where("id = ?", id).Update("level_order", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *priceSchemaRepo) CloseGapTx(tx *gorm.DB, entityID uuid.UUID, removedOrder int) error {
	if err := tx.Table(r.table()).Where("entity_id = ? AND level_order > ?", entityID, removedOrder).
		Update("level_order", gorm.Expr("level_order + ?", pricing.ReorderOffset)).Error; err != nil {
		return err
	}
	return tx.Table(r.table()).Where("entity_id = ? AND level_order > ?", entityID, pricing.ReorderOffset).
		Update("level_order", gorm.Expr("level_order - ?", pricing.ReorderOffset+1)).Error
}

func (r *priceSchemaRepo) DB() *gorm.DB { return r.db }
