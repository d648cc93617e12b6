package infra

import (
	"hppkit/internal/model"
	"hppkit/internal/pricing"
)

// PriceReport is everything the export builders render for one entity.
type PriceReport struct {
	Kind      model.EntityKind
	Entity    model.PricedEntity
	Lines     []model.CostLineDetail
	Breakdown pricing.Breakdown
	Levels    []model.PriceSchema
}
