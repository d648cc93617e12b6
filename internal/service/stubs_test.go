package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"hppkit/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// ── In-memory EntityRepository stub ──────────────────────────────────────────

type stubEntityRepo struct {
	entities map[uuid.UUID]*model.PricedEntity
}

func newStubEntityRepo() *stubEntityRepo {
	return &stubEntityRepo{entities: make(map[uuid.UUID]*model.PricedEntity)}
}

func (r *stubEntityRepo) add(userID uuid.UUID, hpp string) *model.PricedEntity {
	e := &model.PricedEntity{
		ID:     uuid.New(),
		UserID: userID,
		Code:   "P-" + uuid.NewString()[:4],
		Name:   "Roti Tawar",
		HPP:    dec(hpp),
		Active: true,
	}
	r.entities[e.ID] = e
	return e
}

func (r *stubEntityRepo) FindOwned(_ context.Context, _ model.EntityKind, userID, id uuid.UUID) (*model.PricedEntity, error) {
	e, ok := r.entities[id]
	if !ok || e.UserID != userID || !e.Active {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubEntityRepo) FindByIDTx(_ *gorm.DB, _ model.EntityKind, id uuid.UUID) (*model.PricedEntity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubEntityRepo) UpdateHPPTx(_ *gorm.DB, _ model.EntityKind, id uuid.UUID, hpp decimal.Decimal) error {
	r.entities[id].HPP = hpp
	return nil
}

func (r *stubEntityRepo) UpdateSellingPriceTx(_ *gorm.DB, _ model.EntityKind, id uuid.UUID, price decimal.Decimal) error {
	r.entities[id].SellingPrice = price
	return nil
}

func (r *stubEntityRepo) DB() *gorm.DB { return nil }

// ── In-memory PriceSchemaRepository stub ─────────────────────────────────────

type stubSchemaRepo struct {
	entities *stubEntityRepo
	schemas  map[uuid.UUID]*model.PriceSchema
}

func newStubSchemaRepo(entities *stubEntityRepo) *stubSchemaRepo {
	return &stubSchemaRepo{entities: entities, schemas: make(map[uuid.UUID]*model.PriceSchema)}
}

func (r *stubSchemaRepo) sorted(entityID uuid.UUID) []model.PriceSchema {
	var out []model.PriceSchema
	for _, s := range r.schemas {
		if s.EntityID == entityID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LevelOrder < out[j].LevelOrder })
	return out
}

func (r *stubSchemaRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.PriceSchema, error) {
	s, ok := r.schemas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e, ok := r.entities.entities[s.EntityID]
	if !ok || e.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSchemaRepo) ListByEntity(_ context.Context, entityID uuid.UUID) ([]model.PriceSchema, error) {
	return r.sorted(entityID), nil
}

func (r *stubSchemaRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.PriceSchema, error) {
	var out []model.PriceSchema
	for _, e := range r.entities.entities {
		if e.UserID == userID {
			out = append(out, r.sorted(e.ID)...)
		}
	}
	return out, nil
}

func (r *stubSchemaRepo) ListByEntityTx(_ *gorm.DB, entityID uuid.UUID) ([]model.PriceSchema, error) {
	return r.sorted(entityID), nil
}

func (r *stubSchemaRepo) MaxOrderTx(_ *gorm.DB, entityID uuid.UUID) (int, error) {
	max := 0
	for _, s := range r.schemas {
		if s.EntityID == entityID && s.LevelOrder > max {
			max = s.LevelOrder
		}
	}
	return max, nil
}

func (r *stubSchemaRepo) FindByOrderTx(_ *gorm.DB, entityID uuid.UUID, order int) (*model.PriceSchema, error) {
	for _, s := range r.schemas {
		if s.EntityID == entityID && s.LevelOrder == order {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubSchemaRepo) TopTx(tx *gorm.DB, entityID uuid.UUID) (*model.PriceSchema, error) {
	max, _ := r.MaxOrderTx(tx, entityID)
	if max == 0 {
		return nil, nil
	}
	return r.FindByOrderTx(tx, entityID, max)
}

func (r *stubSchemaRepo) CreateTx(_ *gorm.DB, s *model.PriceSchema) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.schemas[s.ID] = &cp
	return nil
}

func (r *stubSchemaRepo) SaveTx(_ *gorm.DB, s *model.PriceSchema) error {
	cp := *s
	r.schemas[s.ID] = &cp
	return nil
}

func (r *stubSchemaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.schemas, id)
	return nil
}

func (r *stubSchemaRepo) ReindexTx(_ *gorm.DB, _ uuid.UUID, orderedIDs []uuid.UUID) error {
	for i, id := range orderedIDs {
		r.schemas[id].LevelOrder = i + 1
	}
	return nil
}

func (r *stubSchemaRepo) CloseGapTx(_ *gorm.DB, entityID uuid.UUID, removedOrder int) error {
	for _, s := range r.schemas {
		if s.EntityID == entityID && s.LevelOrder > removedOrder {
			s.LevelOrder--
		}
	}
	return nil
}

func (r *stubSchemaRepo) DB() *gorm.DB { return nil }

// ── In-memory CostComponentRepository stub ───────────────────────────────────

type stubComponentRepo struct {
	components map[uuid.UUID]*model.CostComponent
	lines      *stubCostLineRepo
}

func newStubComponentRepo() *stubComponentRepo {
	return &stubComponentRepo{components: make(map[uuid.UUID]*model.CostComponent)}
}

func (r *stubComponentRepo) add(userID uuid.UUID, name, componentType string) *model.CostComponent {
	c := &model.CostComponent{ID: uuid.New(), UserID: userID, Name: name, ComponentType: componentType}
	r.components[c.ID] = c
	return c
}

func (r *stubComponentRepo) Create(_ context.Context, c *model.CostComponent) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *stubComponentRepo) List(_ context.Context, userID uuid.UUID) ([]model.CostComponent, error) {
	var out []model.CostComponent
	for _, c := range r.components {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubComponentRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.CostComponent, error) {
	c, ok := r.components[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubComponentRepo) FindByName(_ context.Context, userID uuid.UUID, name string) (*model.CostComponent, error) {
	for _, c := range r.components {
		if c.UserID == userID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubComponentRepo) Update(_ context.Context, c *model.CostComponent) error {
	cp := *c
	r.components[c.ID] = &cp
	return nil
}

func (r *stubComponentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.components, id)
	return nil
}

func (r *stubComponentRepo) CountUsage(_ context.Context, id uuid.UUID) (int64, error) {
	if r.lines == nil {
		return 0, nil
	}
	var n int64
	for _, l := range r.lines.lines {
		if l.CostComponentID == id {
			n++
		}
	}
	return n, nil
}

// ── In-memory CostLineRepository stub ────────────────────────────────────────

type stubCostLineRepo struct {
	entities   *stubEntityRepo
	components *stubComponentRepo
	lines      map[uuid.UUID]*model.CostLine
}

func newStubCostLineRepo(entities *stubEntityRepo, components *stubComponentRepo) *stubCostLineRepo {
	r := &stubCostLineRepo{entities: entities, components: components, lines: make(map[uuid.UUID]*model.CostLine)}
	components.lines = r
	return r
}

func (r *stubCostLineRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.CostLine, error) {
	l, ok := r.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e, ok := r.entities.entities[l.EntityID]
	if !ok || e.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *stubCostLineRepo) ListDetailed(_ context.Context, entityID uuid.UUID) ([]model.CostLineDetail, error) {
	return r.ListDetailedTx(nil, entityID)
}

func (r *stubCostLineRepo) ListDetailedTx(_ *gorm.DB, entityID uuid.UUID) ([]model.CostLineDetail, error) {
	var out []model.CostLineDetail
	for _, l := range r.lines {
		if l.EntityID != entityID {
			continue
		}
		c := r.components.components[l.CostComponentID]
		out = append(out, model.CostLineDetail{CostLine: *l, ComponentName: c.Name, ComponentType: c.ComponentType})
	}
	return out, nil
}

func (r *stubCostLineRepo) ExistsTx(_ *gorm.DB, entityID, componentID, exceptID uuid.UUID) (bool, error) {
	for _, l := range r.lines {
		if l.EntityID == entityID && l.CostComponentID == componentID && l.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCostLineRepo) CreateTx(_ *gorm.DB, l *model.CostLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.lines[l.ID] = &cp
	return nil
}

func (r *stubCostLineRepo) UpdateTx(_ *gorm.DB, l *model.CostLine) error {
	cp := *l
	r.lines[l.ID] = &cp
	return nil
}

func (r *stubCostLineRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.lines, id)
	return nil
}

func (r *stubCostLineRepo) DB() *gorm.DB { return nil }

// ── In-memory SimulationRepository stub ──────────────────────────────────────

type stubSimulationRepo struct {
	entities *stubEntityRepo
	sims     map[uuid.UUID]*model.PricingSimulation
}

func newStubSimulationRepo(entities *stubEntityRepo) *stubSimulationRepo {
	return &stubSimulationRepo{entities: entities, sims: make(map[uuid.UUID]*model.PricingSimulation)}
}

func (r *stubSimulationRepo) Create(_ context.Context, s *model.PricingSimulation) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sims[s.ID] = &cp
	return nil
}

func (r *stubSimulationRepo) FindOwned(_ context.Context, userID, id uuid.UUID) (*model.PricingSimulation, error) {
	s, ok := r.sims[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	e, ok := r.entities.entities[s.ProductID]
	if !ok || e.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSimulationRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.PricingSimulation, error) {
	var out []model.PricingSimulation
	for _, s := range r.sims {
		if s.ProductID == productID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSimulationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sims, id)
	return nil
}

func (r *stubSimulationRepo) ClearAppliedTx(_ *gorm.DB, productID, keepID uuid.UUID) error {
	for _, s := range r.sims {
		if s.ProductID == productID && s.ID != keepID {
			s.IsApplied = false
		}
	}
	return nil
}

func (r *stubSimulationRepo) MarkAppliedTx(_ *gorm.DB, id uuid.UUID) error {
	r.sims[id].IsApplied = true
	return nil
}

func (r *stubSimulationRepo) DB() *gorm.DB { return nil }

// ── Recording cache ──────────────────────────────────────────────────────────

type recordingCache struct {
	values      map[string]interface{}
	generations map[string]int64
	invalidated []string
	// beforeFill runs at the start of Fill, standing in for a write that
	// commits between the database read and the cache fill.
	beforeFill func()
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: make(map[string]interface{}), generations: make(map[string]int64)}
}

// Get always misses so reads exercise the repository path.
func (c *recordingCache) Get(context.Context, string, interface{}) bool { return false }

func (c *recordingCache) Generation(_ context.Context, key string) int64 {
	return c.generations[key]
}

func (c *recordingCache) Fill(_ context.Context, key string, gen int64, value interface{}) {
	if c.beforeFill != nil {
		c.beforeFill()
	}
	if c.generations[key] != gen {
		return
	}
	c.values[key] = value
}

func (c *recordingCache) Invalidate(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(c.values, k)
		c.generations[k]++
		c.invalidated = append(c.invalidated, k)
	}
}

// requireDenseChain asserts level orders are exactly 1..n and that every
// level k>1 buys at the selling price of level k-1.
func requireDenseChain(t *testing.T, levels []model.PriceSchema) {
	t.Helper()
	for i, lv := range levels {
		require.Equal(t, i+1, lv.LevelOrder, "level %q", lv.LevelName)
		if i > 0 {
			assert.True(t, levels[i-1].SellingPrice.Equal(lv.PurchasePrice),
				"level %d purchase %s != level %d selling %s", i+1, lv.PurchasePrice, i, levels[i-1].SellingPrice)
		}
		assert.True(t, lv.SellingPrice.Sub(lv.PurchasePrice).Equal(lv.ProfitAmount), "profit of level %d", i+1)
	}
}
