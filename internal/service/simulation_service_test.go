package service

import (
	"context"
	"testing"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_ScenarioD(t *testing.T) {
	entities := newStubEntityRepo()
	svc := NewSimulationService(newStubSimulationRepo(entities), entities, nil)
	userID := uuid.New()
	product := entities.add(userID, "80000")

	sim, err := svc.Simulate(context.Background(), userID, dto.SimulatePricingRequest{
		ProductID:   product.ID.String(),
		MarginType:  pricing.AdjustPercentage,
		MarginValue: dec("25"),
	})

	require.NoError(t, err)
	assertDecimal(t, "80000", sim.BaseCost)
	assertDecimal(t, "106666.67", sim.PriceBeforeDiscount)
	assertDecimal(t, "106666.67", sim.RetailPrice)
	assertDecimal(t, "26666.67", sim.Profit)
	assertDecimal(t, "33.33", sim.ProfitPercentage)
	assert.False(t, sim.IsApplied)
	assert.NotEmpty(t, sim.Name)
}

func TestApplySimulation_ExclusiveAndIdempotent(t *testing.T) {
	entities := newStubEntityRepo()
	repo := newStubSimulationRepo(entities)
	svc := NewSimulationService(repo, entities, nil)
	userID := uuid.New()
	product := entities.add(userID, "1000")

	simulate := func(margin string) uuid.UUID {
		sim, err := svc.Simulate(context.Background(), userID, dto.SimulatePricingRequest{
			ProductID:   product.ID.String(),
			MarginType:  pricing.AdjustFixed,
			MarginValue: dec(margin),
		})
		require.NoError(t, err)
		return uuid.MustParse(sim.ID)
	}
	first, second := simulate("100"), simulate("250")

	_, err := svc.Apply(context.Background(), userID, first)
	require.NoError(t, err)
	assertDecimal(t, "1100", entities.entities[product.ID].SellingPrice)

	for i := 0; i < 2; i++ {
		applied, err := svc.Apply(context.Background(), userID, second)
		require.NoError(t, err)
		assert.True(t, applied.IsApplied)
	}

	appliedCount := 0
	for _, s := range repo.sims {
		if s.IsApplied {
			appliedCount++
			assert.Equal(t, second, s.ID)
		}
	}
	assert.Equal(t, 1, appliedCount)
	assertDecimal(t, "1250", entities.entities[product.ID].SellingPrice)
}

func TestDeleteSimulation_AppliedIsConflict(t *testing.T) {
	entities := newStubEntityRepo()
	repo := newStubSimulationRepo(entities)
	svc := NewSimulationService(repo, entities, nil)
	userID := uuid.New()
	product := entities.add(userID, "1000")

	sim, err := svc.Simulate(context.Background(), userID, dto.SimulatePricingRequest{
		ProductID: product.ID.String(), MarginType: pricing.AdjustFixed, MarginValue: dec("10"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(sim.ID)
	_, err = svc.Apply(context.Background(), userID, id)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), userID, id)
	assert.Equal(t, apierror.KindConflict, apierror.As(err).Kind)
	assert.Contains(t, repo.sims, id)
}

func TestListSimulations_ForeignProductIsNotFound(t *testing.T) {
	entities := newStubEntityRepo()
	svc := NewSimulationService(newStubSimulationRepo(entities), entities, nil)
	product := entities.add(uuid.New(), "1000")

	_, err := svc.List(context.Background(), uuid.New(), product.ID)

	assert.Equal(t, apierror.KindNotFound, apierror.As(err).Kind)
}
