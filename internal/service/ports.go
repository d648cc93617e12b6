package service

import (
	"context"
	"fmt"

	"hppkit/internal/model"

	"github.com/google/uuid"
)

// ChainLocker serialises mutations of one price chain. Implementations may be
// best effort: a returned unlock func is always safe to call.
type ChainLocker interface {
	Lock(ctx context.Context, key string) func()
}

// PriceCache stores read models of entity prices. All methods are best effort.
//
// A reader that misses takes Generation before loading from the database and
// passes it to Fill; Fill drops the value when Invalidate ran in between.
type PriceCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Generation(ctx context.Context, key string) int64
	Fill(ctx context.Context, key string, gen int64, value interface{})
	Invalidate(ctx context.Context, keys ...string)
}

// ChainLockKey names the lock guarding an entity's price chain.
func ChainLockKey(kind model.EntityKind, entityID uuid.UUID) string {
	return fmt.Sprintf("lock:pricechain:%s:%s", kind, entityID)
}

// PriceCardKey names the cached price card of an entity.
func PriceCardKey(kind model.EntityKind, entityID uuid.UUID) string {
	return fmt.Sprintf("pricecard:%s:%s", kind, entityID)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) func() { return func() {} }

type noopCache struct{}

func (noopCache) Get(context.Context, string, interface{}) bool     { return false }
func (noopCache) Generation(context.Context, string) int64         { return -1 }
func (noopCache) Fill(context.Context, string, int64, interface{}) {}
func (noopCache) Invalidate(context.Context, ...string)            {}

// mustKind guards the kind-scoped constructors; an unknown kind would route
// queries to the product tables.
func mustKind(kind model.EntityKind) model.EntityKind {
	if !kind.Valid() {
		panic(fmt.Sprintf("service: unknown entity kind %q", kind))
	}
	return kind
}

func lockerOrNoop(l ChainLocker) ChainLocker {
	if l == nil {
		return noopLocker{}
	}
	return l
}

func cacheOrNoop(c PriceCache) PriceCache {
	if c == nil {
		return noopCache{}
	}
	return c
}
