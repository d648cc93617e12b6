package service

import (
	"context"
	"time"

	"hppkit/internal/apierror"
	"hppkit/internal/infra"
	"hppkit/internal/model"
	"hppkit/internal/pricing"
	"hppkit/internal/repository"

	"github.com/google/uuid"
)

// ExportService renders an entity's cost sheet and price list as files.
type ExportService interface {
	CostWorkbook(ctx context.Context, userID, entityID uuid.UUID) ([]byte, error)
	PriceListPDF(ctx context.Context, userID, entityID uuid.UUID) ([]byte, error)
}

type exportService struct {
	kind     model.EntityKind
	entities repository.EntityRepository
	lines    repository.CostLineRepository
	schemas  repository.PriceSchemaRepository
}

func NewExportService(
	kind model.EntityKind,
	entities repository.EntityRepository,
	lines repository.CostLineRepository,
	schemas repository.PriceSchemaRepository,
) ExportService {
	return &exportService{kind: mustKind(kind), entities: entities, lines: lines, schemas: schemas}
}

func (s *exportService) CostWorkbook(ctx context.Context, userID, entityID uuid.UUID) ([]byte, error) {
	report, err := s.report(ctx, userID, entityID)
	if err != nil {
		return nil, err
	}
	data, err := infra.BuildCostWorkbook(*report)
	if err != nil {
		return nil, apierror.Internal("Failed to build workbook", err)
	}
	return data, nil
}

func (s *exportService) PriceListPDF(ctx context.Context, userID, entityID uuid.UUID) ([]byte, error) {
	report, err := s.report(ctx, userID, entityID)
	if err != nil {
		return nil, err
	}
	data, err := infra.BuildPriceListPDF(*report, time.Now())
	if err != nil {
		return nil, apierror.Internal("Failed to build price list", err)
	}
	return data, nil
}

func (s *exportService) report(ctx context.Context, userID, entityID uuid.UUID) (*infra.PriceReport, error) {
	entity, err := s.entities.FindOwned(ctx, s.kind, userID, entityID)
	if err != nil {
		return nil, lookupErr(err, s.kind.Label()+" not found")
	}
	rows, err := s.lines.ListDetailed(ctx, entityID)
	if err != nil {
		return nil, apierror.Internal("Failed to list cost lines", err)
	}
	levels, err := s.schemas.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, apierror.Internal("Failed to list price schemas", err)
	}
	return &infra.PriceReport{
		Kind:      s.kind,
		Entity:    *entity,
		Lines:     rows,
		Breakdown: pricing.Aggregate(costEntries(rows)),
		Levels:    levels,
	}, nil
}
