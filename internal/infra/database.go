package infra

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection and applies the idempotent schema DDL.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey so services
// can answer 409 without inspecting driver codes.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies extensions, tables and legacy patches. Every statement
// is idempotent so it runs on each start and in integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := applyPreMigrationPatches(db); err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applyPreMigrationPatches prepares the database before any table exists.
func applyPreMigrationPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// gen_random_uuid() is built in from PostgreSQL 13; older servers need pgcrypto.
		{"enable pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("pre-patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// entityTableDDL builds products/services. extra holds the kind-specific columns.
func entityTableDDL(table, extra string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id       UUID          NOT NULL,
		code          VARCHAR(40)   NOT NULL,
		name          VARCHAR(120)  NOT NULL,
		` + extra + `
		description   TEXT,
		hpp           NUMERIC(15,2) NOT NULL DEFAULT 0,
		selling_price NUMERIC(15,2) NOT NULL DEFAULT 0,
		active        BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		CONSTRAINT uni_` + table + `_user_code UNIQUE (user_id, code)
	)`
}

func costTableDDL(table, entityTable string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		entity_id         UUID          NOT NULL REFERENCES ` + entityTable + `(id) ON DELETE CASCADE,
		cost_component_id UUID          NOT NULL REFERENCES cost_components(id),
		unit              VARCHAR(20)   NOT NULL,
		unit_price        NUMERIC(15,4) NOT NULL CHECK (unit_price >= 0),
		quantity          NUMERIC(15,4) NOT NULL CHECK (quantity >= 0),
		conversion_qty    NUMERIC(15,4) NOT NULL DEFAULT 0 CHECK (conversion_qty >= 0),
		amount            NUMERIC(18,6) NOT NULL,
		created_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		CONSTRAINT uni_` + table + `_entity_component UNIQUE (entity_id, cost_component_id)
	)`
}

func schemaTableDDL(table, entityTable string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
		id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		entity_id           UUID          NOT NULL REFERENCES ` + entityTable + `(id) ON DELETE CASCADE,
		level_name          VARCHAR(100)  NOT NULL,
		level_order         INT           NOT NULL CHECK (level_order > 0),
		discount_percentage NUMERIC(20,2) NOT NULL DEFAULT 0,
		purchase_price      NUMERIC(15,2) NOT NULL,
		selling_price       NUMERIC(15,2) NOT NULL,
		profit_amount       NUMERIC(15,2) NOT NULL,
		notes               TEXT,
		created_at          TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		CONSTRAINT uni_` + table + `_entity_order UNIQUE (entity_id, level_order)
	)`
}

// applySchemaPatches creates every table and index the API uses.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE TABLE IF NOT EXISTS cost_components (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id        UUID         NOT NULL,
			name           VARCHAR(100) NOT NULL,
			description    TEXT,
			component_type VARCHAR(30)  NOT NULL CHECK (component_type IN
				('direct_material','indirect_material','direct_labor','overhead','packaging','other')),
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cost_components_user_name
			ON cost_components (user_id, lower(name))`,

		entityTableDDL("products", `unit VARCHAR(20) NOT NULL DEFAULT 'pcs',`),
		entityTableDDL("services", `duration_minutes INT NOT NULL DEFAULT 0,`),

		costTableDDL("product_costs", "products"),
		costTableDDL("service_costs", "services"),
		`CREATE INDEX IF NOT EXISTS idx_product_costs_component ON product_costs (cost_component_id)`,
		`CREATE INDEX IF NOT EXISTS idx_service_costs_component ON service_costs (cost_component_id)`,

		schemaTableDDL("product_price_schemas", "products"),
		schemaTableDDL("service_price_schemas", "services"),

		`CREATE TABLE IF NOT EXISTS pricing_simulations (
			id                    UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			product_id            UUID          NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			name                  VARCHAR(100)  NOT NULL,
			base_cost             NUMERIC(15,2) NOT NULL,
			margin_type           VARCHAR(20)   NOT NULL CHECK (margin_type IN ('percentage','fixed')),
			margin_value          NUMERIC(15,2) NOT NULL,
			discount_type         VARCHAR(20)   CHECK (discount_type IN ('percentage','fixed')),
			discount_value        NUMERIC(15,2) NOT NULL DEFAULT 0,
			price_before_discount NUMERIC(15,2) NOT NULL,
			retail_price          NUMERIC(15,2) NOT NULL,
			profit                NUMERIC(15,2) NOT NULL,
			profit_percentage     NUMERIC(20,2) NOT NULL,
			is_applied            BOOLEAN       NOT NULL DEFAULT FALSE,
			notes                 TEXT,
			created_at            TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			updated_at            TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pricing_simulations_product
			ON pricing_simulations (product_id, created_at DESC)`,
		// at most one applied simulation per product
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pricing_simulations_applied
			ON pricing_simulations (product_id) WHERE is_applied`,

		// widen percentages created as numeric(9,2); relinking a level onto a
		// tiny selling price yields discounts far below -9999999.99
		`ALTER TABLE product_price_schemas ALTER COLUMN discount_percentage TYPE NUMERIC(20,2)`,
		`ALTER TABLE service_price_schemas ALTER COLUMN discount_percentage TYPE NUMERIC(20,2)`,
		`ALTER TABLE pricing_simulations ALTER COLUMN profit_percentage TYPE NUMERIC(20,2)`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
