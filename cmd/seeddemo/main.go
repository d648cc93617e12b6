// cmd/seeddemo/main.go: seeds a demo product with cost lines and a
// three-level price ladder through the regular services.
// Usage: go run ./cmd/seeddemo -user <uuid>
package main

import (
	"context"
	"flag"
	"fmt"

	"hppkit/internal/config"
	"hppkit/internal/dto"
	"hppkit/internal/infra"
	"hppkit/internal/model"
	"hppkit/internal/repository"
	"hppkit/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type demoLine struct {
	component     string
	componentType string
	unit          string
	unitPrice     string
	quantity      string
	conversionQty string
}

var demoLines = []demoLine{
	{"Flour", "direct_material", "g", "14000", "500", "1000"},
	{"Butter", "direct_material", "g", "60000", "50", "1000"},
	{"Baker wages", "direct_labor", "hour", "25000", "0.25", "0"},
	{"Oven energy", "overhead", "batch", "12000", "0.1", "0"},
	{"Paper bag", "packaging", "pcs", "500", "1", "0"},
}

var demoLevels = []struct {
	name     string
	discount string
}{
	{"Distributor", "20"},
	{"Wholesale", "15"},
	{"Retail", "10"},
}

func main() {
	userFlag := flag.String("user", "", "owner user id (random when empty)")
	code := flag.String("code", "DEMO-BREAD", "product code")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(infra.LoggerOptions{Level: cfg.LogLevel})

	userID := uuid.New()
	if *userFlag != "" {
		if userID, err = uuid.Parse(*userFlag); err != nil {
			log.Fatal().Err(err).Msg("user must be a uuid")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	kind := model.KindProduct
	entityRepo := repository.NewEntityRepository(db)
	componentRepo := repository.NewCostComponentRepository(db)

	catalog := service.NewCatalogService(kind, repository.NewCatalogRepository(db), nil)
	components := service.NewCostComponentService(componentRepo)
	costs := service.NewCostLineService(kind, repository.NewCostLineRepository(db, kind), entityRepo, componentRepo, nil)
	ladder := service.NewPriceSchemaService(kind, repository.NewPriceSchemaRepository(db, kind), entityRepo, nil, nil)

	ctx := context.Background()

	product, err := catalog.Create(ctx, userID, dto.CreateEntityRequest{Code: *code, Name: "Butter bread loaf", Unit: "pcs"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create product")
	}

	existing, err := components.List(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list cost components")
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	var hpp decimal.Decimal
	for _, l := range demoLines {
		componentID, ok := byName[l.component]
		if !ok {
			created, err := components.Create(ctx, userID, dto.CreateCostComponentRequest{Name: l.component, ComponentType: l.componentType})
			if err != nil {
				log.Fatal().Err(err).Str("component", l.component).Msg("failed to create cost component")
			}
			componentID = created.ID
		}
		res, err := costs.Create(ctx, userID, dto.CreateCostLineRequest{
			EntityID:        product.ID,
			CostComponentID: componentID,
			Unit:            l.unit,
			UnitPrice:       decimal.RequireFromString(l.unitPrice),
			Quantity:        decimal.RequireFromString(l.quantity),
			ConversionQty:   decimal.RequireFromString(l.conversionQty),
		})
		if err != nil {
			log.Fatal().Err(err).Str("component", l.component).Msg("failed to create cost line")
		}
		hpp = res.HPP
	}

	for _, lv := range demoLevels {
		discount := decimal.RequireFromString(lv.discount)
		if _, err := ladder.Create(ctx, userID, dto.CreatePriceSchemaRequest{
			EntityID:           product.ID,
			LevelName:          lv.name,
			DiscountPercentage: &discount,
		}); err != nil {
			log.Fatal().Err(err).Str("level", lv.name).Msg("failed to create price level")
		}
	}

	id, _ := uuid.Parse(product.ID)
	card, err := ladder.PriceCard(ctx, userID, id)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read price card")
	}

	fmt.Printf("user_id:  %s\nproduct:  %s (%s)\nhpp:      %s\n", userID, product.ID, *code, hpp.StringFixed(2))
	for _, lv := range card.Levels {
		fmt.Printf("  %d. %-12s buy %12s  sell %12s  discount %6s%%\n",
			lv.LevelOrder, lv.LevelName, lv.PurchasePrice.StringFixed(2), lv.SellingPrice.StringFixed(2), lv.DiscountPercentage.StringFixed(2))
	}
	fmt.Printf("selling:  %s\n", card.Entity.SellingPrice.StringFixed(2))
}
