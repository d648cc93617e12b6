package service

import (
	"hppkit/internal/apierror"
	"hppkit/internal/model"
	"hppkit/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// syncSellingPriceTx keeps entity.selling_price equal to the selling price of
// the highest level in its chain, or to its HPP when the chain is empty.
// It runs inside the transaction of every chain or cost mutation.
func syncSellingPriceTx(
	tx *gorm.DB,
	kind model.EntityKind,
	entities repository.EntityRepository,
	schemas repository.PriceSchemaRepository,
	entityID uuid.UUID,
) (decimal.Decimal, error) {
	top, err := schemas.TopTx(tx, entityID)
	if err != nil {
		return decimal.Zero, apierror.Internal("Failed to read price chain", err)
	}

	var price decimal.Decimal
	if top != nil {
		price = top.SellingPrice
	} else {
		entity, err := entities.FindByIDTx(tx, kind, entityID)
		if err != nil {
			return decimal.Zero, lookupErr(err, kind.Label()+" not found")
		}
		price = entity.HPP
	}

	if err := entities.UpdateSellingPriceTx(tx, kind, entityID, price); err != nil {
		return decimal.Zero, apierror.Internal("Failed to sync selling price", err)
	}
	return price, nil
}
