package service

import (
	"context"
	"time"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/metrics"
	"hppkit/internal/model"
	"hppkit/internal/pricing"
	"hppkit/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SimulationService stores what-if retail prices for products and applies
// one of them as the product's selling price.
type SimulationService interface {
	Simulate(ctx context.Context, userID uuid.UUID, req dto.SimulatePricingRequest) (*dto.SimulationResponse, error)
	List(ctx context.Context, userID, productID uuid.UUID) ([]dto.SimulationResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.SimulationResponse, error)
	Apply(ctx context.Context, userID, id uuid.UUID) (*dto.SimulationResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type simulationService struct {
	repo     repository.SimulationRepository
	entities repository.EntityRepository
	cache    PriceCache
}

func NewSimulationService(repo repository.SimulationRepository, entities repository.EntityRepository, cache PriceCache) SimulationService {
	return &simulationService{repo: repo, entities: entities, cache: cacheOrNoop(cache)}
}

// Simulate prices the product's current HPP. The price chain is not touched.
func (s *simulationService) Simulate(ctx context.Context, userID uuid.UUID, req dto.SimulatePricingRequest) (*dto.SimulationResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("Validation failed", map[string]string{"product_id": "uuid"})
	}
	product, err := s.entities.FindOwned(ctx, model.KindProduct, userID, productID)
	if err != nil {
		return nil, lookupErr(err, "Product not found")
	}

	in := pricing.SimulationInput{
		BaseCost:      product.HPP,
		MarginType:    req.MarginType,
		MarginValue:   req.MarginValue,
		DiscountValue: req.DiscountValue,
	}
	if req.DiscountType != nil {
		in.DiscountType = *req.DiscountType
	}
	out := pricing.Simulate(in)

	name := req.Name
	if name == "" {
		name = "Simulation " + time.Now().Format("2006-01-02 15:04")
	}
	sim := &model.PricingSimulation{
		ProductID:           productID,
		Name:                name,
		BaseCost:            product.HPP,
		MarginType:          req.MarginType,
		MarginValue:         req.MarginValue,
		DiscountType:        req.DiscountType,
		DiscountValue:       req.DiscountValue,
		PriceBeforeDiscount: out.PriceBeforeDiscount,
		RetailPrice:         out.RetailPrice,
		Profit:              out.Profit,
		ProfitPercentage:    out.ProfitPercentage,
		Notes:               req.Notes,
	}
	if err := s.repo.Create(ctx, sim); err != nil {
		return nil, storageErr(err, "saving simulation")
	}
	metrics.SimulationsCreated.Inc()

	resp := mapSimulation(*sim)
	return &resp, nil
}

func (s *simulationService) List(ctx context.Context, userID, productID uuid.UUID) ([]dto.SimulationResponse, error) {
	if _, err := s.entities.FindOwned(ctx, model.KindProduct, userID, productID); err != nil {
		return nil, lookupErr(err, "Product not found")
	}
	list, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apierror.Internal("Failed to list simulations", err)
	}
	out := make([]dto.SimulationResponse, 0, len(list))
	for _, sim := range list {
		out = append(out, mapSimulation(sim))
	}
	return out, nil
}

func (s *simulationService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.SimulationResponse, error) {
	sim, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Simulation not found")
	}
	resp := mapSimulation(*sim)
	return &resp, nil
}

// ── Apply ─────────────────────────────────────────────────────────────────────
// In one transaction:
//   1. every other applied simulation of the product is cleared
//   2. this simulation is marked applied
//   3. product.selling_price = retail_price
// Applying an already-applied simulation is a no-op on the flags.

func (s *simulationService) Apply(ctx context.Context, userID, id uuid.UUID) (*dto.SimulationResponse, error) {
	sim, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Simulation not found")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ClearAppliedTx(tx, sim.ProductID, sim.ID); err != nil {
			return err
		}
		if err := s.repo.MarkAppliedTx(tx, sim.ID); err != nil {
			return err
		}
		return s.entities.UpdateSellingPriceTx(tx, model.KindProduct, sim.ProductID, sim.RetailPrice)
	})
	if txErr != nil {
		return nil, storageErr(txErr, "applying simulation")
	}

	s.cache.Invalidate(ctx, PriceCardKey(model.KindProduct, sim.ProductID))
	metrics.SimulationsApplied.Inc()

	sim.IsApplied = true
	resp := mapSimulation(*sim)
	return &resp, nil
}

// Delete refuses to remove the applied simulation.
func (s *simulationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	sim, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return lookupErr(err, "Simulation not found")
	}
	if sim.IsApplied {
		return apierror.Conflict("An applied simulation cannot be deleted")
	}
	if err := s.repo.Delete(ctx, sim.ID); err != nil {
		return storageErr(err, "deleting simulation")
	}
	return nil
}
