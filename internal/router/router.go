package router

import (
	"time"

	"hppkit/internal/config"
	"hppkit/internal/handler"
	"hppkit/internal/infra"
	"hppkit/internal/middleware"
	"hppkit/internal/model"
	"hppkit/internal/repository"
	"hppkit/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil, in which case caching and chain locking are disabled.
// stop ends background maintenance started here.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, redisCB *infra.CircuitBreaker, stop <-chan struct{}) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.Metrics())

	// ── Infrastructure ───────────────────────────────────────────────────────
	var (
		cache  service.PriceCache
		locker service.ChainLocker
	)
	if rdb != nil {
		cache = infra.NewRedisPriceCache(rdb, cfg.CacheTTL(), redisCB)
		locker = infra.NewRedisChainLocker(redislock.New(rdb), cfg.ChainLockTTL(), redisCB)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	entityRepo := repository.NewEntityRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	componentRepo := repository.NewCostComponentRepository(db)
	simulationRepo := repository.NewSimulationRepository(db)

	// ── Services / Handlers (shared) ─────────────────────────────────────────
	componentsH := handler.NewCostComponentHandler(service.NewCostComponentService(componentRepo))
	simulationsH := handler.NewSimulationHandler(service.NewSimulationService(simulationRepo, entityRepo, cache))

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, redisCB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limiter.StartPurge(5*time.Minute, stop)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), limiter.Handler())

	// Products and services expose the same surface, each on its own tables.
	for _, kind := range []model.EntityKind{model.KindProduct, model.KindService} {
		costRepo := repository.NewCostLineRepository(db, kind)
		schemaRepo := repository.NewPriceSchemaRepository(db, kind)

		catalogH := handler.NewCatalogHandler(kind, service.NewCatalogService(kind, catalogRepo, cache))
		costsH := handler.NewCostLineHandler(service.NewCostLineService(kind, costRepo, entityRepo, componentRepo, cache))
		pricingH := handler.NewPriceSchemaHandler(service.NewPriceSchemaService(kind, schemaRepo, entityRepo, locker, cache))
		exportH := handler.NewExportHandler(kind, service.NewExportService(kind, entityRepo, costRepo, schemaRepo))

		entities := v1.Group("/" + kind.EntityTable())
		{
			entities.GET("", catalogH.List)
			entities.GET("/:id", catalogH.Get)
			entities.POST("", middleware.RequireFeature(middleware.FeatureCatalogWrites), catalogH.Create)
			entities.PUT("/:id", middleware.RequireFeature(middleware.FeatureCatalogWrites), catalogH.Update)
			entities.DELETE("/:id", middleware.RequireFeature(middleware.FeatureCatalogWrites), catalogH.Deactivate)

			entities.GET("/:id/cost-lines", costsH.List)
			entities.GET("/:id/hpp-breakdown", costsH.Breakdown)
			entities.GET("/:id/price-card", pricingH.PriceCard)
			entities.GET("/:id/export.xlsx", middleware.RequireFeature(middleware.FeatureExports), exportH.CostWorkbook)
			entities.GET("/:id/price-list.pdf", middleware.RequireFeature(middleware.FeatureExports), exportH.PriceListPDF)
		}

		costs := v1.Group("/"+string(kind)+"-costs", middleware.RequireFeature(middleware.FeatureCostLines))
		{
			costs.POST("", costsH.Create)
			costs.PUT("/:id", costsH.Update)
			costs.DELETE("/:id", costsH.Delete)
		}

		pricing := v1.Group("/" + string(kind) + "-pricing")
		{
			pricing.GET("", pricingH.List)
			pricing.GET("/:id", pricingH.Get)
			pricing.POST("", middleware.RequireFeature(middleware.FeaturePriceSchemas), pricingH.Create)
			pricing.PUT("/:id", middleware.RequireFeature(middleware.FeaturePriceSchemas), pricingH.Update)
			pricing.DELETE("/:id", middleware.RequireFeature(middleware.FeaturePriceSchemas), pricingH.Delete)
		}
	}

	components := v1.Group("/cost-components")
	{
		components.GET("", componentsH.List)
		components.GET("/:id", componentsH.Get)
		components.POST("", middleware.RequireFeature(middleware.FeatureCostLines), componentsH.Create)
		components.PUT("/:id", middleware.RequireFeature(middleware.FeatureCostLines), componentsH.Update)
		components.DELETE("/:id", middleware.RequireFeature(middleware.FeatureCostLines), componentsH.Delete)
	}

	sims := v1.Group("/pricing-simulations")
	{
		sims.GET("", simulationsH.List)
		sims.GET("/:id", simulationsH.Get)
		sims.POST("", middleware.RequireFeature(middleware.FeatureSimulations), simulationsH.Simulate)
		sims.POST("/:id/apply", middleware.RequireFeature(middleware.FeatureSimulations), simulationsH.Apply)
		sims.DELETE("/:id", middleware.RequireFeature(middleware.FeatureSimulations), simulationsH.Delete)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
