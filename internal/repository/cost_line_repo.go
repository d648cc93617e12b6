package repository

import (
	"context"

	"hppkit/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostLineRepository reads and writes the cost lines of one entity kind.
type CostLineRepository interface {
	// FindOwned loads a line whose entity belongs to userID.
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.CostLine, error)
	ListDetailed(ctx context.Context, entityID uuid.UUID) ([]model.CostLineDetail, error)

	// Used inside transactions: callers must pass the tx instance
	ListDetailedTx(tx *gorm.DB, entityID uuid.UUID) ([]model.CostLineDetail, error)
	ExistsTx(tx *gorm.DB, entityID, componentID, exceptID uuid.UUID) (bool, error)
	CreateTx(tx *gorm.DB, l *model.CostLine) error
	UpdateTx(tx *gorm.DB, l *model.CostLine) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type costLineRepo struct {
	db   *gorm.DB
	kind model.EntityKind
}

func NewCostLineRepository(db *gorm.DB, kind model.EntityKind) CostLineRepository {
	return &costLineRepo{db: db, kind: kind}
}

func (r *costLineRepo) FindOwned(ctx context.Context, userID, id uuid.UUID) (*model.CostLine, error) {
	var l model.CostLine
	err := r.db.WithContext(ctx).Table(r.kind.CostTable()+" c").
		Select("c.*").
		Joins("JOIN "+r.kind.EntityTable()+" e ON e.id = c.entity_id").
		Where("c.id = ? AND e.user_id = ?", id, userID).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *costLineRepo) ListDetailed(ctx context.Context, entityID uuid.UUID) ([]model.CostLineDetail, error) {
	return r.listDetailed(r.db.WithContext(ctx), entityID)
}

func (r *costLineRepo) ListDetailedTx(tx *gorm.DB, entityID uuid.UUID) ([]model.CostLineDetail, error) {
	return r.listDetailed(tx, entityID)
}

func (r *costLineRepo) listDetailed(db *gorm.DB, entityID uuid.UUID) ([]model.CostLineDetail, error) {
	var rows []model.CostLineDetail
	err := db.Table(r.kind.CostTable()+" c").
		Select("c.*, cc.name AS component_name, cc.component_type AS component_type").
		Joins("JOIN cost_components cc ON cc.id = c.cost_component_id").
		Where("c.entity_id = ?", entityID).
		Order("cc.component_type ASC, cc.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *costLineRepo) ExistsTx(tx *gorm.DB, entityID, componentID, exceptID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Table(r.kind.CostTable()).
		Where("entity_id = ? AND cost_component_id = ? AND id <> ?", entityID, componentID, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *costLineRepo) CreateTx(tx *gorm.DB, l *model.CostLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return tx.Table(r.kind.CostTable()).Create(l).Error
}

func (r *costLineRepo) UpdateTx(tx *gorm.DB, l *model.CostLine) error {
	return tx.Table(r.kind.CostTable()).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"cost_component_id": l.CostComponentID,
		"unit":              l.Unit,
		"unit_price":        l.UnitPrice,
		"quantity":          l.Quantity,
		"conversion_qty":    l.ConversionQty,
		"amount":            l.Amount,
		"updated_at":        gorm.Expr("NOW()"),
	}).Error
}

func (r *costLineRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Table(r.kind.CostTable()).Where("id = ?", id).Delete(&model.CostLine{}).Error
}

func (r *costLineRepo) DB() *gorm.DB { return r.db }
