package service

import (
	"context"
	"errors"
	"strings"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/model"
	"hppkit/internal/pricing"
	"hppkit/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostComponentService manages the per-user catalog of cost categories that
// cost lines reference.
type CostComponentService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateCostComponentRequest) (*dto.CostComponentResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]dto.CostComponentResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.CostComponentResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCostComponentRequest) (*dto.CostComponentResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type costComponentService struct {
	repo repository.CostComponentRepository
}

func NewCostComponentService(repo repository.CostComponentRepository) CostComponentService {
	return &costComponentService{repo: repo}
}

func (s *costComponentService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateCostComponentRequest) (*dto.CostComponentResponse, error) {
	if err := checkCategory(req.ComponentType); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}

	c := &model.CostComponent{
		UserID:        userID,
		Name:          name,
		Description:   req.Description,
		ComponentType: req.ComponentType,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storageErr(err, "creating cost component")
	}
	resp := mapCostComponent(*c)
	return &resp, nil
}

func (s *costComponentService) List(ctx context.Context, userID uuid.UUID) ([]dto.CostComponentResponse, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apierror.Internal("Failed to list cost components", err)
	}
	out := make([]dto.CostComponentResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCostComponent(c))
	}
	return out, nil
}

func (s *costComponentService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.CostComponentResponse, error) {
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Cost component not found")
	}
	resp := mapCostComponent(*c)
	return &resp, nil
}

// Update changes name, description or category. A category change does not
// touch stored HPP values; they follow on the next cost line write.
func (s *costComponentService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateCostComponentRequest) (*dto.CostComponentResponse, error) {
	if req.ComponentType != nil {
		if err := checkCategory(*req.ComponentType); err != nil {
			return nil, err
		}
	}
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Cost component not found")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.ensureNameFree(ctx, userID, name, c.ID); err != nil {
			return nil, err
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.ComponentType != nil {
		c.ComponentType = *req.ComponentType
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storageErr(err, "updating cost component")
	}
	resp := mapCostComponent(*c)
	return &resp, nil
}

// Delete refuses to remove a component still referenced by any cost line.
func (s *costComponentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	c, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return lookupErr(err, "Cost component not found")
	}
	used, err := s.repo.CountUsage(ctx, c.ID)
	if err != nil {
		return apierror.Internal("Failed to check cost component usage", err)
	}
	if used > 0 {
		return apierror.Conflict("Cost component is used by existing cost lines")
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return storageErr(err, "deleting cost component")
	}
	return nil
}

// checkCategory rejects categories outside the writable set. Stored rows may
// still carry legacy categories such as indirect_material.
func checkCategory(t string) error {
	if !pricing.IsValidCategory(t) {
		return apierror.Validation("Invalid cost component", map[string]string{"component_type": "oneof"})
	}
	return nil
}

func (s *costComponentService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, exceptID uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, userID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apierror.Internal("Failed to check cost component name", err)
	}
	if existing.ID != exceptID {
		return apierror.Conflict("A cost component with this name already exists")
	}
	return nil
}
