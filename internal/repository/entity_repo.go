package repository

import (
	"context"

	"hppkit/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntityRepository is the pricing core's view of products and services.
// Every method is kind-aware so one implementation serves both tables.
type EntityRepository interface {
	// FindOwned loads an active entity owned by userID; gorm.ErrRecordNotFound otherwise.
	FindOwned(ctx context.Context, kind model.EntityKind, userID, id uuid.UUID) (*model.PricedEntity, error)

	// Used inside transactions: callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID) (*model.PricedEntity, error)
	UpdateHPPTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID, hpp decimal.Decimal) error
	UpdateSellingPriceTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID, price decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type entityRepo struct{ db *gorm.DB }

func NewEntityRepository(db *gorm.DB) EntityRepository { return &entityRepo{db: db} }

func (r *entityRepo) FindOwned(ctx context.Context, kind model.EntityKind, userID, id uuid.UUID) (*model.PricedEntity, error) {
	var e model.PricedEntity
	err := r.db.WithContext(ctx).Table(kind.EntityTable()).
		Where("id = ? AND user_id = ? AND active = true", id, userID).
		Take(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entityRepo) FindByIDTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID) (*model.PricedEntity, error) {
	var e model.PricedEntity
	if err := tx.Table(kind.EntityTable()).Where("id = ?", id).Take(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entityRepo) UpdateHPPTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID, hpp decimal.Decimal) error {
	return tx.Table(kind.EntityTable()).Where("id = ?", id).Updates(map[string]interface{}{
		"hpp":        hpp,
		"updated_at": gorm.Expr("NOW()"),
	}).Error
}

func (r *entityRepo) UpdateSellingPriceTx(tx *gorm.DB, kind model.EntityKind, id uuid.UUID, price decimal.Decimal) error {
	return tx.Table(kind.EntityTable()).Where("id = ?", id).Updates(map[string]interface{}{
		"selling_price": price,
		"updated_at":    gorm.Expr("NOW()"),
	}).Error
}

func (r *entityRepo) DB() *gorm.DB { return r.db }
