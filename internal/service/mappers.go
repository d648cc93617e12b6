package service

import (
	"time"

	"hppkit/internal/dto"
	"hppkit/internal/model"
	"hppkit/internal/pricing"
)

func mapEntityRef(e *model.PricedEntity) dto.EntityRef {
	return dto.EntityRef{
		ID:           e.ID.String(),
		Code:         e.Code,
		Name:         e.Name,
		HPP:          e.HPP,
		SellingPrice: e.SellingPrice,
	}
}

func mapPriceSchema(s model.PriceSchema) dto.PriceSchemaResponse {
	return dto.PriceSchemaResponse{
		ID:                 s.ID.String(),
		EntityID:           s.EntityID.String(),
		LevelName:          s.LevelName,
		LevelOrder:         s.LevelOrder,
		DiscountPercentage: s.DiscountPercentage,
		PurchasePrice:      s.PurchasePrice,
		SellingPrice:       s.SellingPrice,
		ProfitAmount:       s.ProfitAmount,
		Notes:              s.Notes,
	}
}

func mapPriceSchemas(list []model.PriceSchema) []dto.PriceSchemaResponse {
	out := make([]dto.PriceSchemaResponse, 0, len(list))
	for _, s := range list {
		out = append(out, mapPriceSchema(s))
	}
	return out
}

func mapCostLine(l model.CostLine) dto.CostLineResponse {
	return dto.CostLineResponse{
		ID:              l.ID.String(),
		EntityID:        l.EntityID.String(),
		CostComponentID: l.CostComponentID.String(),
		Unit:            l.Unit,
		UnitPrice:       l.UnitPrice,
		Quantity:        l.Quantity,
		ConversionQty:   l.ConversionQty,
		Amount:          l.Amount,
	}
}

func mapCostLineDetail(d model.CostLineDetail) dto.CostLineResponse {
	r := mapCostLine(d.CostLine)
	r.ComponentName = d.ComponentName
	r.ComponentType = d.ComponentType
	return r
}

func mapBreakdown(b pricing.Breakdown) dto.HPPBreakdownResponse {
	cats := make(map[string]dto.CategoryShare, len(b.Categories))
	for k, v := range b.Categories {
		cats[k] = dto.CategoryShare{Amount: v.Amount, Percentage: v.Percentage}
	}
	return dto.HPPBreakdownResponse{Categories: cats, Total: b.HPP()}
}

func mapCostComponent(c model.CostComponent) dto.CostComponentResponse {
	return dto.CostComponentResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Description:   c.Description,
		ComponentType: c.ComponentType,
	}
}

func mapSimulation(s model.PricingSimulation) dto.SimulationResponse {
	return dto.SimulationResponse{
		ID:                  s.ID.String(),
		ProductID:           s.ProductID.String(),
		Name:                s.Name,
		BaseCost:            s.BaseCost,
		MarginType:          s.MarginType,
		MarginValue:         s.MarginValue,
		DiscountType:        s.DiscountType,
		DiscountValue:       s.DiscountValue,
		PriceBeforeDiscount: s.PriceBeforeDiscount,
		RetailPrice:         s.RetailPrice,
		Profit:              s.Profit,
		ProfitPercentage:    s.ProfitPercentage,
		IsApplied:           s.IsApplied,
		Notes:               s.Notes,
		CreatedAt:           s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// costEntries reduces joined cost lines to aggregator input.
func costEntries(rows []model.CostLineDetail) []pricing.CostEntry {
	entries := make([]pricing.CostEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, pricing.CostEntry{Category: r.ComponentType, Amount: r.Amount})
	}
	return entries
}
