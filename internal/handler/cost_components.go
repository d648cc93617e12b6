package handler

import (
	"net/http"

	"hppkit/internal/dto"
	"hppkit/internal/middleware"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
)

type CostComponentHandler struct{ svc service.CostComponentService }

func NewCostComponentHandler(svc service.CostComponentService) *CostComponentHandler {
	return &CostComponentHandler{svc: svc}
}

// Create godoc
// @Summary Create a cost component
// @Tags cost-components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCostComponentRequest true "Component"
// @Success 201 {object} dto.CostComponentResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cost-components [post]
func (h *CostComponentHandler) Create(c *gin.Context) {
	var req dto.CreateCostComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Cost component created", resp)
}

// List godoc
// @Summary List cost components
// @Tags cost-components
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CostComponentResponse
// @Router /v1/cost-components [get]
func (h *CostComponentHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Get godoc
// @Summary Get a cost component
// @Tags cost-components
// @Produce json
// @Security BearerAuth
// @Param id path string true "Component UUID"
// @Success 200 {object} dto.CostComponentResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cost-components/{id} [get]
func (h *CostComponentHandler) Get(c *gin.Context) {
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
// @Summary Update a cost component
// @Tags cost-components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string true "Component UUID"
// @Param body body dto.UpdateCostComponentRequest true "Changed fields"
// @Success 200 {object} dto.CostComponentResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/cost-components/{id} [put]
func (h *CostComponentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCostComponentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cost component updated", resp)
}

// Delete godoc
// @Summary Delete a cost component
// @Description Fails with 409 while any cost line still references the component.
// @Tags cost-components
// @Security BearerAuth
// @Param id path string true "Component UUID"
// @Success 200 {object} apierror.Envelope
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/cost-components/{id} [delete]
func (h *CostComponentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cost component deleted", nil)
}
