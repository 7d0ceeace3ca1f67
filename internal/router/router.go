package router

import (
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/cache"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/config"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/handler"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/middleware"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/service"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/worker"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/ws"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *ws.Hub, dispatcher *worker.Dispatcher) *gin.Engine {
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

	store := cache.NewRedisStore(rdb, "httpcache")

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	entryRepo := repository.NewStockEntryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	comboRepo := repository.NewComboRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, promotionRepo, cfg.PublicBaseURL)
	stockSvc := service.NewStockService(productRepo, entryRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, promotionRepo, userRepo, notificationRepo, hub, dispatcher, cfg.DeliveryFeeCents)
	notificationSvc := service.NewNotificationService(notificationRepo)
	catalogSvc := service.NewCatalogService(comboRepo, promotionRepo, productRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(userSvc)
	productsH := handler.NewProductsHandler(productSvc)
	storefrontH := handler.NewStorefrontHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	notificationsH := handler.NewNotificationsHandler(notificationSvc)
	combosH := handler.NewCombosHandler(catalogSvc)
	promotionsH := handler.NewPromotionsHandler(catalogSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	uploadsH := handler.NewUploadsHandler(productSvc, cfg.UploadDir)
	wsH := handler.NewWSHandler(hub)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.Static("/uploads", cfg.UploadDir)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/register", authH.Register)
	}

	// Storefront — no auth, short-TTL response cache
	store30 := middleware.CacheResponse(store, 30*time.Second)
	catalog := r.Group("/v1/catalog")
	{
		catalog.GET("/products", store30, storefrontH.List)
		catalog.GET("/products/:id", store30, storefrontH.Get)
		catalog.GET("/combos", store30, combosH.List)
		catalog.GET("/promotions", store30, promotionsH.ListActive)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/ws", wsH.Connect)
		v1.GET("/me", usersH.Me)

		// Customer ordering
		v1.POST("/orders", ordersH.Create)
		v1.GET("/orders", ordersH.ListMine)
		v1.GET("/orders/:id", ordersH.Get)
		v1.POST("/orders/:id/cancel", ordersH.Cancel)

		// Notification feed
		v1.GET("/notifications", notificationsH.ListMine)
		v1.POST("/notifications/:id/read", notificationsH.MarkRead)
		v1.POST("/notifications/read-all", notificationsH.MarkAllRead)

		// Motoboy dashboard
		moto := v1.Group("/motoboy", middleware.RequireRole(model.RoleMotoboy))
		{
			moto.GET("/deliveries", ordersH.ListDeliveries)
			moto.POST("/deliveries/:id/delivered", ordersH.MarkDelivered)
		}

		// Back-office — ADMIN and VENDEDOR share the sales floor
		staff := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin, model.RoleVendedor))
		{
			staff.GET("/products", productsH.List)
			staff.GET("/products/:id", productsH.Get)
			staff.GET("/orders", ordersH.ListAll)
			staff.POST("/orders/:id/confirm", ordersH.Confirm)
			staff.POST("/orders/:id/assign", ordersH.AssignMotoboy)
			staff.GET("/stock/entries", stockH.ListEntries)
			staff.POST("/stock/entries", stockH.CreateEntry)
			staff.GET("/motoboys", usersH.ListMotoboys)
		}

		// ADMIN only
		admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/products", productsH.Create)
			admin.PUT("/products/:id", productsH.Update)
			admin.DELETE("/products/:id", productsH.Deactivate)
			admin.PATCH("/products/:id/reactivate", productsH.Reactivate)
			admin.PATCH("/products/:id/stock", stockH.AdjustStock)
			admin.POST("/products/:id/image", uploadsH.UploadProductImage)

			admin.POST("/stock/reconcile", stockH.Reconcile)

			admin.POST("/combos", combosH.Create)
			admin.GET("/combos/:id", combosH.Get)
			admin.PUT("/combos/:id", combosH.Update)
			admin.DELETE("/combos/:id", combosH.Deactivate)

			admin.POST("/promotions", promotionsH.Create)
			admin.GET("/promotions", promotionsH.List)
			admin.DELETE("/promotions/:id", promotionsH.Deactivate)

			admin.POST("/suppliers", suppliersH.Create)
			admin.GET("/suppliers", suppliersH.List)
			admin.GET("/suppliers/:id", suppliersH.Get)
			admin.PUT("/suppliers/:id", suppliersH.Update)
			admin.DELETE("/suppliers/:id", suppliersH.Deactivate)

			admin.POST("/users", usersH.Create)
			admin.GET("/users", usersH.List)
			admin.GET("/users/:id", usersH.Get)
			admin.PUT("/users/:id", usersH.Update)
			admin.DELETE("/users/:id", usersH.Deactivate)
			admin.PATCH("/users/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
