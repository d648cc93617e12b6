package handler

import (
	"net/http"

	"hppkit/internal/dto"
	"hppkit/internal/middleware"
	"hppkit/internal/model"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves /v1/products and /v1/services.
type CatalogHandler struct {
	kind model.EntityKind
	svc  service.CatalogService
}

func NewCatalogHandler(kind model.EntityKind, svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{kind: kind, svc: svc}
}

// Create godoc
// @Summary Create a product or service
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param body body dto.CreateEntityRequest true "Entity"
// @Success 201 {object} dto.EntityResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/{kind} [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateEntityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, h.kind.Label()+" created", resp)
}

// List godoc
// @Summary List products or services
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param kind   path  string true  "products or services"
// @Param name   query string false "Name contains"
// @Param active query string false "false = inactive, all = every row"
// @Param page   query int    false "Page (default 1)"
// @Param limit  query int    false "Page size (default 20, max 100)"
// @Success 200 {object} dto.EntityListResponse
// @Router /v1/{kind} [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter dto.EntityFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Get godoc
// @Summary Get a product or service
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
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
// @Summary Update a product or service
// @Description HPP and selling price are maintained by the pricing endpoints and cannot be set here.
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Param body body dto.UpdateEntityRequest true "Changed fields"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/{kind}/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEntityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, h.kind.Label()+" updated", resp)
}

// Deactivate godoc
// @Summary Soft-delete a product or service
// @Tags catalog
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {object} apierror.Envelope
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id} [delete]
func (h *CatalogHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, h.kind.Label()+" deactivated", nil)
}
