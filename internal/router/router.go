package router

import (
	"time"

	"docvault/internal/config"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/repository"
	"docvault/internal/service"
	"docvault/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, store *storage.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	supplierRepo := repository.NewSupplierRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	ingestSvc := service.NewIngestService(documentRepo, supplierRepo, store)
	documentSvc := service.NewDocumentService(documentRepo, supplierRepo, store)
	dedupSvc := service.NewDedupService(documentRepo, store)
	categorySvc := service.NewCategoryService(catalogRepo, documentRepo)
	analyticsSvc := service.NewAnalyticsService(documentRepo, catalogRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	documentsH := handler.NewDocumentsHandler(ingestSvc, documentSvc, dedupSvc, rdb)
	categoriesH := handler.NewCategoriesHandler(categorySvc, rdb)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		docs := api.Group("/documents")
		{
			docs.POST("", documentsH.Upload)
			docs.GET("", documentsH.List)
			docs.DELETE("/delete_all", documentsH.DeleteAll)
			docs.POST("/dedup", documentsH.PurgeDuplicates)
			docs.GET("/:id", documentsH.Get)
			docs.GET("/:id/download", documentsH.DownloadSummary)
		}

		api.GET("/suppliers", documentsH.ListSuppliers)

		cats := api.Group("/categories")
		{
			cats.GET("/classify", categoriesH.Classify)
			cats.GET("/manual", categoriesH.ListManual)
			cats.POST("/manual", categoriesH.UpsertManual)
			cats.DELETE("/manual", categoriesH.DeleteManual)
			cats.POST("/promote", categoriesH.Promote)
		}

		prods := api.Group("/products")
		{
			prods.GET("/generic", categoriesH.ListGeneric)
			prods.POST("/generic", categoriesH.UpsertGeneric)
			prods.GET("/package-units", categoriesH.ListPackageUnits)
			prods.POST("/package-units", categoriesH.UpsertPackageUnit)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/products", analyticsH.Products)
			analytics.GET("/products/export", analyticsH.ExportProducts)
			analytics.GET("/categories", analyticsH.Categories)
			analytics.GET("/monthly", analyticsH.Monthly)
			analytics.GET("/suppliers", analyticsH.Suppliers)
		}
	}

	return r
}
