package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateEntityRequest creates a product or a service. DurationMinutes is only
// meaningful for services, Unit only for products.
type CreateEntityRequest struct {
	Code            string  `json:"code"             validate:"required,min=1,max=40"`
	Name            string  `json:"name"             validate:"required,min=2,max=120"`
	Unit            string  `json:"unit"             validate:"omitempty,max=20"`
	DurationMinutes int     `json:"duration_minutes" validate:"min=0"`
	Description     *string `json:"description"`
}

type UpdateEntityRequest struct {
	Code            *string `json:"code"             validate:"omitempty,min=1,max=40"`
	Name            *string `json:"name"             validate:"omitempty,min=2,max=120"`
	Unit            *string `json:"unit"             validate:"omitempty,max=20"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
	Description     *string `json:"description"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type EntityFilter struct {
	Name   string `form:"name"`
	Active string `form:"active"` // "false" = inactive, "all" = all, default active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntityResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
	Description     *string         `json:"description"`
	HPP             decimal.Decimal `json:"hpp"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Active          bool            `json:"active"`
}

type EntityListResponse struct {
	Data       []EntityResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// EntityRef is the resolved owner embedded in pricing responses.
type EntityRef struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	HPP          decimal.Decimal `json:"hpp"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}
