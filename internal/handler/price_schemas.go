package handler

import (
	"net/http"

	"hppkit/internal/apierror"
	"hppkit/internal/dto"
	"hppkit/internal/middleware"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PriceSchemaHandler serves the price ladder of one entity kind.
type PriceSchemaHandler struct{ svc service.PriceSchemaService }

func NewPriceSchemaHandler(svc service.PriceSchemaService) *PriceSchemaHandler {
	return &PriceSchemaHandler{svc: svc}
}

// List godoc
// @Summary List price levels
// @Description Without entity_id every level of every owned entity is returned.
// @Tags price-schemas
// @Produce json
// @Security BearerAuth
// @Param entity_id query string false "Entity UUID"
// @Success 200 {object} dto.PriceSchemaListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}-pricing [get]
func (h *PriceSchemaHandler) List(c *gin.Context) {
	var entityID *uuid.UUID
	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid entity_id"))
			return
		}
		entityID = &id
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c), entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Create godoc
// @Summary Append a price level
// @Description Supply discount_percentage or selling_price. purchase_price is only honoured for the first level.
// @Tags price-schemas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePriceSchemaRequest true "Price level"
// @Success 201 {object} dto.PriceSchemaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 412 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/{kind}-pricing [post]
func (h *PriceSchemaHandler) Create(c *gin.Context) {
	var req dto.CreatePriceSchemaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Price level created", resp)
}

// Get godoc
// @Summary Get a price level
// @Tags price-schemas
// @Produce json
// @Security BearerAuth
// @Param id path string true "Price level UUID"
// @Success 200 {object} dto.PriceSchemaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}-pricing/{id} [get]
func (h *PriceSchemaHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Update godoc
// @Summary Update or move a price level
// @Description Changing level_order renumbers the ladder; price changes cascade to the next level.
// @Tags price-schemas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string true "Price level UUID"
// @Param body body dto.UpdatePriceSchemaRequest true "Changed fields"
// @Success 200 {object} dto.PriceSchemaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/{kind}-pricing/{id} [put]
func (h *PriceSchemaHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePriceSchemaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Price level updated", resp)
}

// Delete godoc
// @Summary Delete a price level
// @Description The ladder is renumbered and the next level is relinked to its new predecessor.
// @Tags price-schemas
// @Security BearerAuth
// @Param id path string true "Price level UUID"
// @Success 200 {object} apierror.Envelope
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}-pricing/{id} [delete]
func (h *PriceSchemaHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Price level deleted", nil)
}

// PriceCard godoc
// @Summary Current selling price and ladder of an entity
// @Tags price-schemas
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {object} dto.PriceCardResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id}/price-card [get]
func (h *PriceSchemaHandler) PriceCard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.PriceCard(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}
