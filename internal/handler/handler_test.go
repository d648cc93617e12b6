package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/middleware"
	"hppkit/internal/model"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────
// Embedding the interface keeps fakes small; unimplemented methods panic.

type fakePriceSchemaService struct {
	service.PriceSchemaService
	gotUser   uuid.UUID
	gotEntity *uuid.UUID
	createErr error
	created   dto.CreatePriceSchemaRequest
}

func (f *fakePriceSchemaService) List(_ context.Context, userID uuid.UUID, entityID *uuid.UUID) (*dto.PriceSchemaListResponse, error) {
	f.gotUser, f.gotEntity = userID, entityID
	return &dto.PriceSchemaListResponse{Data: []dto.PriceSchemaResponse{}}, nil
}

func (f *fakePriceSchemaService) Create(_ context.Context, userID uuid.UUID, req dto.CreatePriceSchemaRequest) (*dto.PriceSchemaResponse, error) {
	f.gotUser, f.created = userID, req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &dto.PriceSchemaResponse{ID: uuid.NewString(), EntityID: req.EntityID, LevelName: req.LevelName, LevelOrder: 1}, nil
}

func (f *fakePriceSchemaService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return apierror.NotFound("Price schema not found")
}

type fakeExportService struct{ service.ExportService }

func (fakeExportService) CostWorkbook(context.Context, uuid.UUID, uuid.UUID) ([]byte, error) {
	return []byte("xlsx"), nil
}

func (fakeExportService) PriceListPDF(context.Context, uuid.UUID, uuid.UUID) ([]byte, error) {
	return nil, apierror.Internal("rendering failed", assert.AnError)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func newTestEngine(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: userID.String()})
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ── Price schemas ─────────────────────────────────────────────────────────────

func TestPriceSchemaHandler_Create_PassesCallerAndRequest(t *testing.T) {
	user := uuid.New()
	svc := &fakePriceSchemaService{}
	r := newTestEngine(user)
	r.POST("/v1/product-pricing", NewPriceSchemaHandler(svc).Create)

	entityID := uuid.NewString()
	w := doJSON(r, http.MethodPost, "/v1/product-pricing", map[string]any{
		"entity_id":           entityID,
		"level_name":          "Retail",
		"discount_percentage": "20",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, user, svc.gotUser)
	assert.Equal(t, "Retail", svc.created.LevelName)
	require.NotNil(t, svc.created.DiscountPercentage)
	assert.True(t, svc.created.DiscountPercentage.Equal(decimal.NewFromInt(20)))

	var env struct {
		Success bool                    `json:"success"`
		Data    dto.PriceSchemaResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, entityID, env.Data.EntityID)
}

func TestPriceSchemaHandler_Create_ValidationFailsWith422(t *testing.T) {
	r := newTestEngine(uuid.New())
	r.POST("/v1/product-pricing", NewPriceSchemaHandler(&fakePriceSchemaService{}).Create)

	w := doJSON(r, http.MethodPost, "/v1/product-pricing", map[string]any{
		"entity_id":           "not-a-uuid",
		"level_name":          "Retail",
		"discount_percentage": "-5",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeAPIError(t, w)
	assert.Equal(t, "uuid", body.Errors["EntityID"])
	assert.Equal(t, "min", body.Errors["DiscountPercentage"])
}

func TestPriceSchemaHandler_Create_MalformedJSONIs400(t *testing.T) {
	r := newTestEngine(uuid.New())
	r.POST("/v1/product-pricing", NewPriceSchemaHandler(&fakePriceSchemaService{}).Create)

	req := httptest.NewRequest(http.MethodPost, "/v1/product-pricing", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceSchemaHandler_Create_PreconditionMapsTo412(t *testing.T) {
	svc := &fakePriceSchemaService{createErr: apierror.Precondition("Product has no base cost")}
	r := newTestEngine(uuid.New())
	r.POST("/v1/product-pricing", NewPriceSchemaHandler(svc).Create)

	w := doJSON(r, http.MethodPost, "/v1/product-pricing", map[string]any{
		"entity_id":     uuid.NewString(),
		"level_name":    "Retail",
		"selling_price": "1000",
	})

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, "Product has no base cost", decodeAPIError(t, w).Message)
}

func TestPriceSchemaHandler_List_ParsesOptionalEntityID(t *testing.T) {
	svc := &fakePriceSchemaService{}
	r := newTestEngine(uuid.New())
	r.GET("/v1/product-pricing", NewPriceSchemaHandler(svc).List)

	w := doJSON(r, http.MethodGet, "/v1/product-pricing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.gotEntity)

	id := uuid.New()
	w = doJSON(r, http.MethodGet, "/v1/product-pricing?entity_id="+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotEntity)
	assert.Equal(t, id, *svc.gotEntity)

	w = doJSON(r, http.MethodGet, "/v1/product-pricing?entity_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPriceSchemaHandler_Delete_NotFoundAndBadID(t *testing.T) {
	r := newTestEngine(uuid.New())
	r.DELETE("/v1/product-pricing/:id", NewPriceSchemaHandler(&fakePriceSchemaService{}).Delete)

	w := doJSON(r, http.MethodDelete, "/v1/product-pricing/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/v1/product-pricing/xyz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Exports ───────────────────────────────────────────────────────────────────

func TestExportHandler_CostWorkbook_SetsAttachmentHeaders(t *testing.T) {
	r := newTestEngine(uuid.New())
	h := NewExportHandler(model.KindProduct, fakeExportService{})
	r.GET("/v1/products/:id/export.xlsx", h.CostWorkbook)

	id := uuid.NewString()
	w := doJSON(r, http.MethodGet, "/v1/products/"+id+"/export.xlsx", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "product-"+id+"-costs.xlsx")
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestExportHandler_InternalErrorHidesCause(t *testing.T) {
	r := newTestEngine(uuid.New())
	h := NewExportHandler(model.KindService, fakeExportService{})
	r.GET("/v1/services/:id/price-list.pdf", h.PriceListPDF)

	w := doJSON(r, http.MethodGet, "/v1/services/"+uuid.NewString()+"/price-list.pdf", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeAPIError(t, w)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
