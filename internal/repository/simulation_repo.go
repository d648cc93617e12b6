package repository

import (
	"context"

	"hppkit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SimulationRepository interface {
	Create(ctx context.Context, s *model.PricingSimulation) error
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.PricingSimulation, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.PricingSimulation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearAppliedTx unsets is_applied on every simulation of the product except keepID.
	ClearAppliedTx(tx *gorm.DB, productID, keepID uuid.UUID) error
	MarkAppliedTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type simulationRepo struct{ db *gorm.DB }

func NewSimulationRepository(db *gorm.DB) SimulationRepository { return &simulationRepo{db: db} }

func (r *simulationRepo) Create(ctx context.Context, s *model.PricingSimulation) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *simulationRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.PricingSimulation, error) {
	var s model.PricingSimulation
	err := r.db.WithContext(ctx).Table("pricing_simulations ps").
		Select("ps.*").
		Joins("JOIN products p ON p.id = ps.product_id").
		Where("ps.id = ? AND p.user_id = ?", id, userID).
		Take(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *simulationRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.PricingSimulation, error) {
	var list []model.PricingSimulation
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *simulationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PricingSimulation{}, "id = ?", id).Error
}

func (r *simulationRepo) ClearAppliedTx(tx *gorm.DB, productID, keepID uuid.UUID) error {
	return tx.Model(&model.PricingSimulation{}).
		Where("product_id = ? AND id <> ? AND is_applied = true", productID, keepID).
		Update("is_applied", false).Error
}

func (r *simulationRepo) MarkAppliedTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.PricingSimulation{}).Where("id = ?", id).Update("is_applied", true).Error
}

func (r *simulationRepo) DB() *gorm.DB { return r.db }
