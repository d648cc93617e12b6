package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable good. HPP is maintained from its cost lines and
// SellingPrice from the top of its price schema chain.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code         string          `gorm:"not null"`
	Name         string          `gorm:"not null"`
	Unit         string          `gorm:"not null;default:'pcs'"`
	Description  *string
	HPP          decimal.Decimal `gorm:"column:hpp;type:decimal(15,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Product) TableName() string { return "products" }

// Service is a billable service. Same pricing behaviour as Product.
type Service struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code            string          `gorm:"not null"`
	Name            string          `gorm:"not null"`
	DurationMinutes int             `gorm:"not null;default:0"`
	Description     *string
	HPP             decimal.Decimal `gorm:"column:hpp;type:decimal(15,2);not null;default:0"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Active          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Service) TableName() string { return "services" }

// PricedEntity is the kind-agnostic projection of a product or service that
// the pricing core reads and writes. Load it with db.Table(kind.EntityTable()).
type PricedEntity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Code         string
	Name         string
	HPP          decimal.Decimal `gorm:"column:hpp"`
	SellingPrice decimal.Decimal
	Active       bool
}

// HasBaseCost reports whether the entity has a usable base cost for level 1.
func (e *PricedEntity) HasBaseCost() bool {
	return e.HPP.IsPositive()
}
