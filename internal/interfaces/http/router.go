package http

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/systemair-inventario/internal/application/auth"
	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain/permission"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	StockUC        *usecase.StockUseCase
	DeliveryUC     *usecase.DeliveryUseCase
	DeliveryNoteUC *usecase.DeliveryNoteUseCase
	DashboardUC    *usecase.DashboardUseCase
	StatusUC       *usecase.StatusUseCase
	SyncService    *datasync.Service
	Scheduler      *datasync.Scheduler
	Metrics        *datasync.Metrics
	JWTSecret      string
}

// NewApp crea la aplicación Fiber con el codec JSON y el recover de la API.
func NewApp(cfg fiber.Config) *fiber.App {
	cfg.JSONEncoder = json.Marshal
	cfg.JSONDecoder = json.Unmarshal
	app := fiber.New(cfg)
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	statusHandler := NewStatusHandler(deps.StatusUC)
	protected.Get("/status", statusHandler.Get)
	protected.Post("/status/reset", RequirePermission(permission.SectionSettings, permission.ActionDelete), statusHandler.Reset)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", RequirePermission(permission.SectionDashboard, permission.ActionView), dashboardHandler.GetSummary)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/export", RequirePermission(permission.SectionProducts, permission.ActionView), productHandler.Export)
	products.Post("/import", RequirePermission(permission.SectionProducts, permission.ActionAdd), productHandler.Import)
	products.Post("/", RequirePermission(permission.SectionProducts, permission.ActionAdd), productHandler.Create)
	products.Get("/", RequirePermission(permission.SectionProducts, permission.ActionView), productHandler.List)
	products.Get("/:id", RequirePermission(permission.SectionProducts, permission.ActionView), productHandler.GetByID)
	products.Put("/:id", RequirePermission(permission.SectionProducts, permission.ActionEdit), productHandler.Update)
	products.Delete("/:id", RequirePermission(permission.SectionProducts, permission.ActionDelete), productHandler.Delete)

	// Stock
	stockHandler := NewStockHandler(deps.StockUC)
	protected.Get("/stock", RequirePermission(permission.SectionStock, permission.ActionView), stockHandler.Query)

	// Deliveries
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC, deps.DeliveryNoteUC)
	deliveries.Post("/", RequirePermission(permission.SectionDelivery, permission.ActionAdd), deliveryHandler.Create)
	deliveries.Get("/", RequirePermission(permission.SectionDelivery, permission.ActionView), deliveryHandler.List)
	deliveries.Get("/:id", RequirePermission(permission.SectionDelivery, permission.ActionView), deliveryHandler.GetByID)
	deliveries.Put("/:id", RequirePermission(permission.SectionDelivery, permission.ActionEdit), deliveryHandler.Update)
	deliveries.Delete("/:id", RequirePermission(permission.SectionDelivery, permission.ActionDelete), deliveryHandler.Delete)
	deliveries.Post("/:id/complete", RequirePermission(permission.SectionDelivery, permission.ActionEdit), deliveryHandler.Complete)
	deliveries.Post("/:id/cancel", RequirePermission(permission.SectionDelivery, permission.ActionEdit), deliveryHandler.Cancel)
	deliveries.Get("/:id/note", RequirePermission(permission.SectionDelivery, permission.ActionView), deliveryHandler.Note)

	// Users (administración, sección settings)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", RequirePermission(permission.SectionSettings, permission.ActionAdd), userHandler.Create)
	users.Get("/", RequirePermission(permission.SectionSettings, permission.ActionView), userHandler.List)
	users.Get("/:id", RequirePermission(permission.SectionSettings, permission.ActionView), userHandler.GetByID)
	users.Put("/:id", RequirePermission(permission.SectionSettings, permission.ActionEdit), userHandler.Update)
	users.Patch("/:id/role", RequirePermission(permission.SectionSettings, permission.ActionEdit), userHandler.ChangeRole)
	users.Delete("/:id", RequirePermission(permission.SectionSettings, permission.ActionDelete), userHandler.Delete)

	// Sync
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncService, deps.Scheduler)
	syncGroup.Get("/config", RequirePermission(permission.SectionSettings, permission.ActionView), syncHandler.GetConfig)
	syncGroup.Put("/config", RequirePermission(permission.SectionSettings, permission.ActionEdit), syncHandler.UpdateConfig)
	syncGroup.Post("/run", RequirePermission(permission.SectionSettings, permission.ActionEdit), syncHandler.Run)
	syncGroup.Get("/export", RequirePermission(permission.SectionSettings, permission.ActionView), syncHandler.Export)
	syncGroup.Post("/import", RequirePermission(permission.SectionSettings, permission.ActionEdit), syncHandler.Import)
}
