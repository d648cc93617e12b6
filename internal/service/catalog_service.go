package service

import (
	"context"
	"math"
	"strings"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/model"
	"hppkit/internal/repository"

	"github.com/google/uuid"
)

// CatalogService is the CRUD surface for products or services. HPP and
// selling price are read-only here; the pricing services own them.
type CatalogService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateEntityRequest) (*dto.EntityResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.EntityResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) (*dto.EntityListResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateEntityRequest) (*dto.EntityResponse, error)
	Deactivate(ctx context.Context, userID, id uuid.UUID) error
}

type catalogService struct {
	kind  model.EntityKind
	repo  repository.CatalogRepository
	cache PriceCache
}

func NewCatalogService(kind model.EntityKind, repo repository.CatalogRepository, cache PriceCache) CatalogService {
	return &catalogService{kind: mustKind(kind), repo: repo, cache: cacheOrNoop(cache)}
}

func (s *catalogService) notFound() string { return s.kind.Label() + " not found" }

func (s *catalogService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateEntityRequest) (*dto.EntityResponse, error) {
	code := strings.TrimSpace(req.Code)
	if err := s.ensureCodeFree(ctx, userID, code, uuid.Nil); err != nil {
		return nil, err
	}

	if s.kind == model.KindService {
		svc := &model.Service{
			UserID:          userID,
			Code:            code,
			Name:            req.Name,
			DurationMinutes: req.DurationMinutes,
			Description:     req.Description,
			Active:          true,
		}
		if err := s.repo.CreateService(ctx, svc); err != nil {
			return nil, storageErr(err, "creating service")
		}
		return serviceToResponse(svc), nil
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	p := &model.Product{
		UserID:      userID,
		Code:        code,
		Name:        req.Name,
		Unit:        unit,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, storageErr(err, "creating product")
	}
	return productToResponse(p), nil
}

func (s *catalogService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.EntityResponse, error) {
	if s.kind == model.KindService {
		svc, err := s.repo.FindService(ctx, userID, id)
		if err != nil {
			return nil, lookupErr(err, s.notFound())
		}
		return serviceToResponse(svc), nil
	}
	p, err := s.repo.FindProduct(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, s.notFound())
	}
	return productToResponse(p), nil
}

func (s *catalogService) List(ctx context.Context, userID uuid.UUID, filter dto.EntityFilter) (*dto.EntityListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	var (
		data  []dto.EntityResponse
		total int64
	)
	if s.kind == model.KindService {
		list, n, err := s.repo.ListServices(ctx, userID, filter)
		if err != nil {
			return nil, apierror.Internal("Failed to list services", err)
		}
		total = n
		data = make([]dto.EntityResponse, 0, len(list))
		for i := range list {
			data = append(data, *serviceToResponse(&list[i]))
		}
	} else {
		list, n, err := s.repo.ListProducts(ctx, userID, filter)
		if err != nil {
			return nil, apierror.Internal("Failed to list products", err)
		}
		total = n
		data = make([]dto.EntityResponse, 0, len(list))
		for i := range list {
			data = append(data, *productToResponse(&list[i]))
		}
	}

	return &dto.EntityListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *catalogService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdateEntityRequest) (*dto.EntityResponse, error) {
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if err := s.ensureCodeFree(ctx, userID, code, id); err != nil {
			return nil, err
		}
		req.Code = &code
	}

	var resp *dto.EntityResponse
	if s.kind == model.KindService {
		svc, err := s.repo.FindService(ctx, userID, id)
		if err != nil {
			return nil, lookupErr(err, s.notFound())
		}
		if req.Code != nil {
			svc.Code = *req.Code
		}
		if req.Name != nil {
			svc.Name = *req.Name
		}
		if req.DurationMinutes != nil {
			svc.DurationMinutes = *req.DurationMinutes
		}
		if req.Description != nil {
			svc.Description = req.Description
		}
		if err := s.repo.UpdateService(ctx, svc); err != nil {
			return nil, storageErr(err, "updating service")
		}
		resp = serviceToResponse(svc)
	} else {
		p, err := s.repo.FindProduct(ctx, userID, id)
		if err != nil {
			return nil, lookupErr(err, s.notFound())
		}
		if req.Code != nil {
			p.Code = *req.Code
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Unit != nil {
			p.Unit = *req.Unit
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		if err := s.repo.UpdateProduct(ctx, p); err != nil {
			return nil, storageErr(err, "updating product")
		}
		resp = productToResponse(p)
	}

	s.cache.Invalidate(ctx, PriceCardKey(s.kind, id))
	return resp, nil
}

// Deactivate is a soft delete; cost lines and price schemas are kept.
func (s *catalogService) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repo.SetActive(ctx, s.kind, userID, id, false)
	if err != nil {
		return apierror.Internal("Failed to deactivate "+string(s.kind), err)
	}
	if n == 0 {
		return apierror.NotFound(s.notFound())
	}
	s.cache.Invalidate(ctx, PriceCardKey(s.kind, id))
	return nil
}

func (s *catalogService) ensureCodeFree(ctx context.Context, userID uuid.UUID, code string, exceptID uuid.UUID) error {
	taken, err := s.repo.CodeTaken(ctx, s.kind, userID, code, exceptID)
	if err != nil {
		return apierror.Internal("Failed to check code", err)
	}
	if taken {
		return apierror.Conflict("A " + string(s.kind) + " with this code already exists")
	}
	return nil
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) *dto.EntityResponse {
	return &dto.EntityResponse{
		ID:           p.ID.String(),
		Kind:         string(model.KindProduct),
		Code:         p.Code,
		Name:         p.Name,
		Unit:         p.Unit,
		Description:  p.Description,
		HPP:          p.HPP,
		SellingPrice: p.SellingPrice,
		Active:       p.Active,
	}
}

func serviceToResponse(s *model.Service) *dto.EntityResponse {
	minutes := s.DurationMinutes
	return &dto.EntityResponse{
		ID:              s.ID.String(),
		Kind:            string(model.KindService),
		Code:            s.Code,
		Name:            s.Name,
		DurationMinutes: &minutes,
		Description:     s.Description,
		HPP:             s.HPP,
		SellingPrice:    s.SellingPrice,
		Active:          s.Active,
	}
}
