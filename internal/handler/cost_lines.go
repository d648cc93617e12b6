package handler

import (
	"net/http"

	"hppkit/internal/dto"
	"hppkit/internal/middleware"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
)

// CostLineHandler serves cost lines of one entity kind. Every mutation
// answers with the line and the entity's recomputed HPP.
type CostLineHandler struct{ svc service.CostLineService }

func NewCostLineHandler(svc service.CostLineService) *CostLineHandler {
	return &CostLineHandler{svc: svc}
}

// List godoc
// @Summary List an entity's cost lines with the HPP breakdown
// @Tags cost-lines
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {object} dto.CostLineListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id}/cost-lines [get]
func (h *CostLineHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Breakdown godoc
// @Summary HPP per cost category
// @Tags cost-lines
// @Produce json
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {object} dto.HPPBreakdownResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id}/hpp-breakdown [get]
func (h *CostLineHandler) Breakdown(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Breakdown(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Create godoc
// @Summary Add a cost line
// @Tags cost-lines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCostLineRequest true "Cost line"
// @Success 201 {object} dto.CostLineMutationResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/{kind}-costs [post]
func (h *CostLineHandler) Create(c *gin.Context) {
	var req dto.CreateCostLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Cost line created", resp)
}

// Update godoc
// @Summary Update a cost line
// @Tags cost-lines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string true "Cost line UUID"
// @Param body body dto.UpdateCostLineRequest true "Changed fields"
// @Success 200 {object} dto.CostLineMutationResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/{kind}-costs/{id} [put]
func (h *CostLineHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCostLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cost line updated", resp)
}

// Delete godoc
// @Summary Delete a cost line
// @Tags cost-lines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cost line UUID"
// @Success 200 {object} dto.CostLineMutationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}-costs/{id} [delete]
func (h *CostLineHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cost line deleted", resp)
}
