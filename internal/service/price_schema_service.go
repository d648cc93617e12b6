package service

import (
	"context"

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

// PriceSchemaService manages the ordered price chain of one entity kind.
type PriceSchemaService interface {
	List(ctx context.Context, userID uuid.UUID, entityID *uuid.UUID) (*dto.PriceSchemaListResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePriceSchemaRequest) (*dto.PriceSchemaResponse, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*dto.PriceSchemaResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdatePriceSchemaRequest) (*dto.PriceSchemaResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	PriceCard(ctx context.Context, userID, entityID uuid.UUID) (*dto.PriceCardResponse, error)
}

type priceSchemaService struct {
	kind     model.EntityKind
	repo     repository.PriceSchemaRepository
	entities repository.EntityRepository
	locker   ChainLocker
	cache    PriceCache
}

func NewPriceSchemaService(
	kind model.EntityKind,
	repo repository.PriceSchemaRepository,
	entities repository.EntityRepository,
	locker ChainLocker,
	cache PriceCache,
) PriceSchemaService {
	return &priceSchemaService{
		kind:     mustKind(kind),
		repo:     repo,
		entities: entities,
		locker:   lockerOrNoop(locker),
		cache:    cacheOrNoop(cache),
	}
}

func (s *priceSchemaService) notFound() string { return s.kind.Label() + " not found" }

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *priceSchemaService) List(ctx context.Context, userID uuid.UUID, entityID *uuid.UUID) (*dto.PriceSchemaListResponse, error) {
	if entityID == nil {
		list, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, apierror.Internal("Failed to list price schemas", err)
		}
		return &dto.PriceSchemaListResponse{Data: mapPriceSchemas(list)}, nil
	}

	entity, err := s.entities.FindOwned(ctx, s.kind, userID, *entityID)
	if err != nil {
		return nil, lookupErr(err, s.notFound())
	}
	list, err := s.repo.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, apierror.Internal("Failed to list price schemas", err)
	}
	ref := mapEntityRef(entity)
	return &dto.PriceSchemaListResponse{Entity: &ref, Data: mapPriceSchemas(list)}, nil
}

func (s *priceSchemaService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.PriceSchemaResponse, error) {
	schema, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Price schema not found")
	}
	resp := mapPriceSchema(*schema)
	return &resp, nil
}

// PriceCard returns the entity's prices and chain, served from cache when warm.
func (s *priceSchemaService) PriceCard(ctx context.Context, userID, entityID uuid.UUID) (*dto.PriceCardResponse, error) {
	key := PriceCardKey(s.kind, entityID)
	// Taken before any read: a write committing while we load keeps its
	// invalidation because Fill refuses a moved generation.
	gen := s.cache.Generation(ctx, key)

	entity, err := s.entities.FindOwned(ctx, s.kind, userID, entityID)
	if err != nil {
		return nil, lookupErr(err, s.notFound())
	}

	var card dto.PriceCardResponse
	if s.cache.Get(ctx, key, &card) {
		metrics.PriceCardCache.WithLabelValues("hit").Inc()
		return &card, nil
	}
	metrics.PriceCardCache.WithLabelValues("miss").Inc()

	list, err := s.repo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, apierror.Internal("Failed to list price schemas", err)
	}
	card = dto.PriceCardResponse{Entity: mapEntityRef(entity), Levels: mapPriceSchemas(list)}
	s.cache.Fill(ctx, key, gen, card)
	return &card, nil
}

// ── Create ────────────────────────────────────────────────────────────────────
// Appends a level at max(order)+1:
//   1. level 1 buys at the purchase_price override, else at the entity's HPP
//   2. level k>1 buys at the selling price of level k-1
//   3. discount or selling price completes the level
//   4. entity.selling_price follows the new top level

func (s *priceSchemaService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePriceSchemaRequest) (*dto.PriceSchemaResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return nil, apierror.Validation("Validation failed", map[string]string{"entity_id": "uuid"})
	}
	if _, err := s.entities.FindOwned(ctx, s.kind, userID, entityID); err != nil {
		return nil, lookupErr(err, s.notFound())
	}

	unlock := s.locker.Lock(ctx, ChainLockKey(s.kind, entityID))
	defer unlock()

	var created model.PriceSchema
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		maxOrder, err := s.repo.MaxOrderTx(tx, entityID)
		if err != nil {
			return err
		}
		order := maxOrder + 1

		purchase, err := s.creationPurchasePrice(tx, entityID, order, req.PurchasePrice)
		if err != nil {
			return err
		}

		lv := pricing.Derive(purchase, req.DiscountPercentage, req.SellingPrice)
		created = model.PriceSchema{
			EntityID:   entityID,
			LevelName:  req.LevelName,
			LevelOrder: order,
			Notes:      req.Notes,
		}
		applyLevel(&created, lv)
		if err := s.repo.CreateTx(tx, &created); err != nil {
			return err
		}

		_, err = syncSellingPriceTx(tx, s.kind, s.entities, s.repo, entityID)
		return err
	})
	if txErr != nil {
		return nil, storageErr(txErr, "creating price schema")
	}

	s.afterMutation(ctx, entityID, "create")
	resp := mapPriceSchema(created)
	return &resp, nil
}

func (s *priceSchemaService) creationPurchasePrice(tx *gorm.DB, entityID uuid.UUID, order int, override *decimal.Decimal) (decimal.Decimal, error) {
	if order > 1 {
		prev, err := s.repo.FindByOrderTx(tx, entityID, order-1)
		if err != nil {
			return decimal.Zero, err
		}
		if prev == nil {
			return decimal.Zero, apierror.Internal("Price chain is not dense", nil)
		}
		return prev.SellingPrice, nil
	}

	if override != nil && override.IsPositive() {
		return override.Round(2), nil
	}
	entity, err := s.entities.FindByIDTx(tx, s.kind, entityID)
	if err != nil {
		return decimal.Zero, lookupErr(err, s.notFound())
	}
	if !entity.HasBaseCost() {
		return decimal.Zero, apierror.Precondition("The first price level needs a base cost: add cost lines or supply purchase_price")
	}
	return entity.HPP, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Order of effects:
//   1. name and notes
//   2. reorder: move, renumber densely, relink the whole chain keeping selling prices
//   3. discount or selling price: re-derive this level from its purchase price
//   4. the immediate successor is relinked to this level's new selling price
//   5. entity.selling_price follows the top level

func (s *priceSchemaService) Update(ctx context.Context, userID, id uuid.UUID, req dto.UpdatePriceSchemaRequest) (*dto.PriceSchemaResponse, error) {
	schema, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, lookupErr(err, "Price schema not found")
	}
	entityID := schema.EntityID

	unlock := s.locker.Lock(ctx, ChainLockKey(s.kind, entityID))
	defer unlock()

	var updated model.PriceSchema
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		levels, err := s.repo.ListByEntityTx(tx, entityID)
		if err != nil {
			return err
		}
		idx := indexOfSchema(levels, id)
		if idx < 0 {
			return apierror.NotFound("Price schema not found")
		}
		entity, err := s.entities.FindByIDTx(tx, s.kind, entityID)
		if err != nil {
			return lookupErr(err, s.notFound())
		}

		if req.LevelName != nil {
			levels[idx].LevelName = *req.LevelName
		}
		if req.Notes != nil {
			levels[idx].Notes = req.Notes
		}

		if req.LevelOrder != nil {
			target := pricing.ClampOrder(*req.LevelOrder, len(levels))
			if target != levels[idx].LevelOrder {
				firstID := levels[0].ID
				levels = pricing.Move(levels, idx, target-1)
				idx = target - 1

				ids := make([]uuid.UUID, len(levels))
				for i := range levels {
					ids[i] = levels[i].ID
					levels[i].LevelOrder = i + 1
				}
				if err := s.repo.ReindexTx(tx, entityID, ids); err != nil {
					return err
				}
				relinkChain(levels, entity, firstID)
				for i := range levels {
					if err := s.repo.SaveTx(tx, &levels[i]); err != nil {
						return err
					}
				}
			}
		}

		cur := &levels[idx]
		override := req.PurchasePrice != nil && cur.LevelOrder == 1
		recompute := req.DiscountPercentage != nil || req.SellingPrice != nil || override
		if recompute {
			purchase := cur.PurchasePrice
			switch {
			case cur.LevelOrder > 1:
				purchase = levels[idx-1].SellingPrice
			case override && req.PurchasePrice.IsPositive():
				purchase = req.PurchasePrice.Round(2)
			case entity.HasBaseCost():
				purchase = entity.HPP
			}

			discount, selling := req.DiscountPercentage, req.SellingPrice
			if discount == nil && selling == nil {
				discount = &cur.DiscountPercentage
			}
			applyLevel(cur, pricing.Derive(purchase, discount, selling))
		}
		if err := s.repo.SaveTx(tx, cur); err != nil {
			return err
		}

		if recompute && idx+1 < len(levels) {
			next := &levels[idx+1]
			applyLevel(next, pricing.Relink(cur.SellingPrice, next.SellingPrice))
			if err := s.repo.SaveTx(tx, next); err != nil {
				return err
			}
		}

		if _, err := syncSellingPriceTx(tx, s.kind, s.entities, s.repo, entityID); err != nil {
			return err
		}
		updated = *cur
		return nil
	})
	if txErr != nil {
		return nil, storageErr(txErr, "updating price schema")
	}

	s.afterMutation(ctx, entityID, "update")
	resp := mapPriceSchema(updated)
	return &resp, nil
}

// relinkChain re-anchors every level of a reordered chain while keeping its
// selling price. Level 1 buys at HPP, unless it was already level 1 before the
// move or there is no base cost, in which case it keeps its purchase price.
func relinkChain(levels []model.PriceSchema, entity *model.PricedEntity, previousFirst uuid.UUID) {
	for i := range levels {
		var purchase decimal.Decimal
		switch {
		case i > 0:
			purchase = levels[i-1].SellingPrice
		case levels[0].ID != previousFirst && entity.HasBaseCost():
			purchase = entity.HPP
		default:
			purchase = levels[0].PurchasePrice
		}
		applyLevel(&levels[i], pricing.Relink(purchase, levels[i].SellingPrice))
	}
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Removes a level, closes the gap and relinks the new occupant of its slot to
// the predecessor's selling price (or to HPP when it becomes level 1).

func (s *priceSchemaService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	schema, err := s.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return lookupErr(err, "Price schema not found")
	}
	entityID := schema.EntityID

	unlock := s.locker.Lock(ctx, ChainLockKey(s.kind, entityID))
	defer unlock()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		levels, err := s.repo.ListByEntityTx(tx, entityID)
		if err != nil {
			return err
		}
		idx := indexOfSchema(levels, id)
		if idx < 0 {
			return apierror.NotFound("Price schema not found")
		}
		removed := levels[idx].LevelOrder

		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		if err := s.repo.CloseGapTx(tx, entityID, removed); err != nil {
			return err
		}

		successor, err := s.repo.FindByOrderTx(tx, entityID, removed)
		if err != nil {
			return err
		}
		if successor != nil {
			var purchase decimal.Decimal
			if removed > 1 {
				purchase = levels[idx-1].SellingPrice
			} else {
				entity, err := s.entities.FindByIDTx(tx, s.kind, entityID)
				if err != nil {
					return lookupErr(err, s.notFound())
				}
				purchase = entity.HPP
			}
			applyLevel(successor, pricing.Relink(purchase, successor.SellingPrice))
			if err := s.repo.SaveTx(tx, successor); err != nil {
				return err
			}
		}

		_, err = syncSellingPriceTx(tx, s.kind, s.entities, s.repo, entityID)
		return err
	})
	if txErr != nil {
		return storageErr(txErr, "deleting price schema")
	}

	s.afterMutation(ctx, entityID, "delete")
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *priceSchemaService) afterMutation(ctx context.Context, entityID uuid.UUID, op string) {
	s.cache.Invalidate(ctx, PriceCardKey(s.kind, entityID))
	metrics.PriceChainMutations.WithLabelValues(string(s.kind), op).Inc()
}

func applyLevel(s *model.PriceSchema, lv pricing.Level) {
	s.PurchasePrice = lv.PurchasePrice
	s.DiscountPercentage = lv.DiscountPercentage
	s.SellingPrice = lv.SellingPrice
	s.ProfitAmount = lv.ProfitAmount
}

func indexOfSchema(levels []model.PriceSchema, id uuid.UUID) int {
	for i := range levels {
		if levels[i].ID == id {
			return i
		}
	}
	return -1
}
