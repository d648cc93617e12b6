package model

import (
	"time"

	"github.com/google/uuid"
)

// CostComponent is a user-defined cost category (e.g. "Flour", "Baker wages").
// ComponentType is one of pricing.Categories; legacy rows may carry
// "indirect_material".
type CostComponent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"not null"`
	Description   *string
	ComponentType string `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (CostComponent) TableName() string { return "cost_components" }
