package handler

import (
	"fmt"
	"net/http"

	"hppkit/internal/middleware"
	"hppkit/internal/model"
	"hppkit/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExportHandler streams generated cost sheets and price lists.
type ExportHandler struct {
	kind model.EntityKind
	svc  service.ExportService
}

func NewExportHandler(kind model.EntityKind, svc service.ExportService) *ExportHandler {
	return &ExportHandler{kind: kind, svc: svc}
}

// CostWorkbook godoc
// @Summary Download cost lines and price levels as XLSX
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id}/export.xlsx [get]
func (h *ExportHandler) CostWorkbook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.svc.CostWorkbook(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.attach(c, fmt.Sprintf("%s-%s-costs.xlsx", h.kind, id), contentTypeXLSX, data)
}

// PriceListPDF godoc
// @Summary Download the price ladder as PDF
// @Tags exports
// @Produce application/pdf
// @Security BearerAuth
// @Param kind path string true "products or services"
// @Param id   path string true "Entity UUID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/{kind}/{id}/price-list.pdf [get]
func (h *ExportHandler) PriceListPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.svc.PriceListPDF(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.attach(c, fmt.Sprintf("%s-%s-price-list.pdf", h.kind, id), contentTypePDF, data)
}

func (h *ExportHandler) attach(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
