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

type SimulationHandler struct{ svc service.SimulationService }

func NewSimulationHandler(svc service.SimulationService) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

// Simulate godoc
// @Summary Simulate a retail price from the product's HPP
// @Tags simulations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SimulatePricingRequest true "Margin and discount"
// @Success 201 {object} dto.SimulationResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/pricing-simulations [post]
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req dto.SimulatePricingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Simulate(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Simulation saved", resp)
}

// List godoc
// @Summary List a product's simulations, newest first
// @Tags simulations
// @Produce json
// @Security BearerAuth
// @Param product_id query string true "Product UUID"
// @Success 200 {array} dto.SimulationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pricing-simulations [get]
func (h *SimulationHandler) List(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product_id"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.UserID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp)
}

// Get godoc
// @Summary Get a simulation
// @Tags simulations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Simulation UUID"
// @Success 200 {object} dto.SimulationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pricing-simulations/{id} [get]
func (h *SimulationHandler) Get(c *gin.Context) {
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

// Apply godoc
// @Summary Apply a simulation as the product's selling price
// @Description Any other applied simulation of the product is cleared.
// @Tags simulations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Simulation UUID"
// @Success 200 {object} dto.SimulationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/pricing-simulations/{id}/apply [post]
func (h *SimulationHandler) Apply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Apply(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Simulation applied", resp)
}

// Delete godoc
// @Summary Delete a simulation
// @Tags simulations
// @Security BearerAuth
// @Param id path string true "Simulation UUID"
// @Success 200 {object} apierror.Envelope
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/pricing-simulations/{id} [delete]
func (h *SimulationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Simulation deleted", nil)
}
