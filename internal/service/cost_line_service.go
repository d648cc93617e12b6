package service

import (
	"context"
	"errors"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/metrics"
	"hppkit/internal/model"
	"hppkit/internal/pricing"
	"hppkit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostLineService maintains the cost lines of one entity kind and keeps the
// owning entity's HPP equal to the rounded sum of their amounts.
type CostLineService interface {
	List(ctx context.Context, userID, entityID uuid.UUID) (*dto.CostLineListResponse, error)
	Breakdown(ctx context.Context, userID, entityID uuid.UUID) (*dto.HPPBreakdownResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateCostLineRequest) (*dto.CostLineMutationResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCostLineRequest) (*dto.CostLineMutationResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*dto.CostLineMutationResponse, error)
}

type costLineService struct {
	kind       model.EntityKind
	repo       repository.CostLineRepository
	entities   repository.EntityRepository
	components repository.CostComponentRepository
	cache      PriceCache
}

func NewCostLineService(
	kind model.EntityKind,
	repo repository.CostLineRepository,
	entities repository.EntityRepository,
	components repository.CostComponentRepository,
	cache PriceCache,
) CostLineService {
	return &costLineService{
		kind:       mustKind(kind),
		repo:       repo,
		entities:   entities,
		components: components,
		cache:      cacheOrNoop(cache),
	}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *costLineService) List(ctx context.Context, userID, entityID uuid.UUID) (*dto.CostLineListResponse, error) {
	entity, err := s.entities.FindOwned(ctx, s.kind, userID, entityID)
	if err != nil {
		return nil, lookupErr(err, s.kind.Label()+" not found")
	}
	rows, err := s.repo.ListDetailed(ctx, entityID)
	if err != nil {
		return nil, apierror.Internal("Failed to list cost lines", err)
	}

	data := make([]dto.CostLineResponse, 0, len(rows))
	for _, r := range rows {
		data = append(data, mapCostLineDetail(r))
	}
	return &dto.CostLineListResponse{
		Entity:    mapEntityRef(entity),
		Data:      data,
		Breakdown: mapBreakdown(pricing.Aggregate(costEntries(rows))),
	}, nil
}

func (s *costLineService) Breakdown(ctx context.Context, userID, entityID uuid.UUID) (*dto.HPPBreakdownResponse, error) {
	if _, err := s.entities.FindOwned(ctx, s.kind, userID, entityID); err != nil {
		return nil, lookupErr(err, s.kind.Label()+" not found")
	}
	rows, err := s.repo.ListDetailed(ctx, entityID)
	if err != nil {
		return nil, apierror.Internal("Failed to list cost lines", err)
	}
	resp := mapBreakdown(pricing.Aggregate(costEntries(rows)))
	return &resp, nil
}

// ── Writes ────────────────────────────────────────────────────────────────────
// Every write recomputes HPP from all of the entity's lines inside the same
// transaction. Selling price and price schemas are left untouched.

func (s *costLineService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateCostLineRequest) (*dto.CostLineMutationResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return nil, apierror.Validation("Validation failed", map[string]string{"entity_id": "uuid"})
	}
	componentID, err := uuid.Parse(req.CostComponentID)
	if err != nil {
		return nil, apierror.Validation("Validation failed", map[string]string{"cost_component_id": "uuid"})
	}

	if _, err := s.entities.FindOwned(ctx, s.kind, userID, entityID); err != nil {
		return nil, lookupErr(err, s.kind.Label()+" not found")
	}
	if _, err := s.components.FindOwned(ctx, userID, componentID); err != nil {
		return nil, lookupErr(err, "Cost component not found")
	}

	amount, err := lineAmount(req.UnitPrice, req.Quantity, req.ConversionQty)
	if err != nil {
		return nil, err
	}

	line := model.CostLine{
		EntityID:        entityID,
		CostComponentID: componentID,
		Unit:            req.Unit,
		UnitPrice:       req.UnitPrice,
		Quantity:        req.Quantity,
		ConversionQty:   req.ConversionQty,
		Amount:          amount,
	}

	var hpp decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsTx(tx, entityID, componentID, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return apierror.Conflict("This cost component is already used by the " + string(s.kind))
		}
		if err := s.repo.CreateTx(tx, &line); err != nil {
			return err
		}
		hpp, err = s.recomputeHPPTx(tx, entityID)
		return err
	})
	if txErr != nil {
		return nil, storageErr(txErr, "creating cost line")
	}

	s.afterMutation(ctx, entityID)
	resp := mapCostLine(line)
	return &dto.CostLineMutationResponse{Line: &resp, HPP: hpp}, nil
}

func (s *costLineService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCostLineRequest) (*dto.CostLineMutationResponse, error) {
	line, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Cost line not found")
	}

	if req.CostComponentID != nil {
		componentID, err := uuid.Parse(*req.CostComponentID)
		if err != nil {
			return nil, apierror.Validation("Validation failed", map[string]string{"cost_component_id": "uuid"})
		}
		if _, err := s.components.FindOwned(ctx, userID, componentID); err != nil {
			return nil, lookupErr(err, "Cost component not found")
		}
		line.CostComponentID = componentID
	}
	if req.Unit != nil {
		line.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		line.UnitPrice = *req.UnitPrice
	}
	if req.Quantity != nil {
		line.Quantity = *req.Quantity
	}
	if req.ConversionQty != nil {
		line.ConversionQty = *req.ConversionQty
	}

	line.Amount, err = lineAmount(line.UnitPrice, line.Quantity, line.ConversionQty)
	if err != nil {
		return nil, err
	}

	var hpp decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsTx(tx, line.EntityID, line.CostComponentID, line.ID)
		if err != nil {
			return err
		}
		if exists {
			return apierror.Conflict("This cost component is already used by the " + string(s.kind))
		}
		if err := s.repo.UpdateTx(tx, line); err != nil {
			return err
		}
		hpp, err = s.recomputeHPPTx(tx, line.EntityID)
		return err
	})
	if txErr != nil {
		return nil, storageErr(txErr, "updating cost line")
	}

	s.afterMutation(ctx, line.EntityID)
	resp := mapCostLine(*line)
	return &dto.CostLineMutationResponse{Line: &resp, HPP: hpp}, nil
}

func (s *costLineService) Delete(ctx context.Context, userID, id uuid.UUID) (*dto.CostLineMutationResponse, error) {
	line, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Cost line not found")
	}

	var hpp decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, line.ID); err != nil {
			return err
		}
		hpp, err = s.recomputeHPPTx(tx, line.EntityID)
		return err
	})
	if txErr != nil {
		return nil, storageErr(txErr, "deleting cost line")
	}

	s.afterMutation(ctx, line.EntityID)
	return &dto.CostLineMutationResponse{HPP: hpp}, nil
}

// recomputeHPPTx re-aggregates all lines of the entity and stores the total.
func (s *costLineService) recomputeHPPTx(tx *gorm.DB, entityID uuid.UUID) (decimal.Decimal, error) {
	rows, err := s.repo.ListDetailedTx(tx, entityID)
	if err != nil {
		return decimal.Zero, err
	}
	hpp := pricing.Aggregate(costEntries(rows)).HPP()
	if err := s.entities.UpdateHPPTx(tx, s.kind, entityID, hpp); err != nil {
		return decimal.Zero, err
	}
	metrics.HPPRecalculations.WithLabelValues(string(s.kind)).Inc()
	return hpp, nil
}

func (s *costLineService) afterMutation(ctx context.Context, entityID uuid.UUID) {
	s.cache.Invalidate(ctx, PriceCardKey(s.kind, entityID))
}

func lineAmount(unitPrice, quantity, conversionQty decimal.Decimal) (decimal.Decimal, error) {
	amount, err := pricing.LineAmount(unitPrice, quantity, conversionQty)
	if errors.Is(err, pricing.ErrNegativeInput) {
		fields := map[string]string{}
		for name, v := range map[string]decimal.Decimal{
			"unit_price":     unitPrice,
			"quantity":       quantity,
			"conversion_qty": conversionQty,
		} {
			if v.IsNegative() {
				fields[name] = "min"
			}
		}
		return decimal.Zero, apierror.Validation("Validation failed", fields)
	}
	return amount, err
}
