package router

import (
	"time"

	"primemotors/internal/config"
	"primemotors/internal/handler"
	"primemotors/internal/middleware"
	"primemotors/internal/repository"
	"primemotors/internal/service"
	"primemotors/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	movRepo := repository.NewInventoryMovementRepository(db)
	unitRepo := repository.NewVehicleUnitRepository(db)
	historyRepo := repository.NewTransferredHistoryRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	itemRepo := repository.NewItemRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(movRepo, unitRepo, branchRepo, itemRepo, poRepo)
	transferSvc := service.NewTransferService(movRepo, unitRepo, historyRepo, branchRepo, dispatcher)
	registrySvc := service.NewRegistryService(branchRepo, itemRepo, supplierRepo)
	receivingSvc := service.NewReceivingService(poRepo, movRepo, unitRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	transferH := handler.NewTransferHandler(transferSvc)
	registriesH := handler.NewRegistriesHandler(registrySvc)
	receivingH := handler.NewReceivingHandler(receivingSvc)
	lookupH := handler.NewUnitLookupHandler(unitRepo, rdb,
		time.Duration(cfg.UnitLookupCacheTTLMin)*time.Minute)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		inv := v1.Group("/inventory")
		{
			inv.GET("", inventoryH.List)
			inv.POST("", inventoryH.Create)
			// Fixed paths must be registered before :id routes
			inv.GET("/transferred", transferH.ListTransferred)
			inv.POST("/transfer", transferH.Transfer)
			inv.POST("/units/:id/mark-sold", inventoryH.MarkSold)
			inv.PUT("/:id", inventoryH.Update)
			inv.DELETE("/:id", inventoryH.Delete)
		}

		v1.GET("/units/lookup", lookupH.Lookup)

		v1.GET("/branches", registriesH.ListBranches)
		v1.POST("/branches", registriesH.CreateBranch)
		v1.GET("/items", registriesH.ListItems)
		v1.POST("/items", registriesH.CreateItem)
		v1.GET("/suppliers", registriesH.ListSuppliers)
		v1.POST("/suppliers", registriesH.CreateSupplier)

		v1.POST("/purchase-orders/:id/receive", receivingH.Receive)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
