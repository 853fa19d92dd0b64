package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/replenishment-api/internal/application/auth"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/application/receiving"
	"github.com/jhoicas/replenishment-api/internal/application/scheduler"
	"github.com/jhoicas/replenishment-api/internal/application/transfer"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CatalogUC       *catalog.CatalogUseCase
	StockUC         *ledger.StockUseCase
	PurchaseReqUC   *purchasing.PurchaseRequestUseCase
	PurchaseOrderUC *purchasing.PurchaseOrderUseCase
	GoodsReceiptUC  *receiving.GoodsReceiptUseCase
	TransferUC      *transfer.TransferUseCase
	SchedulerUC     *scheduler.SchedulerUseCase
	Metrics         http.Handler // opcional: expositor Prometheus en /metrics
	JWTSecret       string
	ServiceName     string
	Log             *logger.Logger
}

// staff roles internos; los proveedores solo entran al portal de órdenes de compra.
var staff = []entity.Role{entity.RoleAdmin, entity.RoleManager, entity.RoleWarehouse}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	users := protected.Group("/users")
	users.Get("/me", authHandler.Me)
	users.Post("/", RequireRole(entity.RoleAdmin), authHandler.CreateUser)
	users.Get("/:id", authHandler.GetUser)

	internal := RequireRole(staff...)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log)
	categories := protected.Group("/categories", internal)
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	items := protected.Group("/items", internal)
	items.Post("/", catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Put("/:id", catalogHandler.UpdateItem)

	suppliers := protected.Group("/suppliers", internal)
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)
	suppliers.Get("/:id", catalogHandler.GetSupplier)
	suppliers.Put("/:id", catalogHandler.UpdateSupplier)
	suppliers.Post("/:id/items", catalogHandler.AddSupplierItem)
	suppliers.Get("/:id/items", catalogHandler.ListSupplierItems)
	suppliers.Delete("/:id/items/:item_id", catalogHandler.RemoveSupplierItem)

	stockHandler := NewStockHandler(deps.StockUC, log)
	warehouses := protected.Group("/warehouses", internal)
	warehouses.Post("/", catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	warehouses.Get("/:id", catalogHandler.GetWarehouse)
	warehouses.Put("/:id", catalogHandler.UpdateWarehouse)
	warehouses.Delete("/:id", catalogHandler.DeleteWarehouse)
	warehouses.Get("/:id/stock", stockHandler.ListByWarehouse)

	// Libro de stock
	stock := protected.Group("/stock", internal)
	stock.Get("/", stockHandler.GetStock)
	stock.Post("/locations", stockHandler.CreateLocation)
	stock.Put("/locations/:id", stockHandler.UpdateLocation)
	protected.Get("/replenishment/low-stock", internal, stockHandler.LowStock)

	// Solicitudes de compra
	prHandler := NewPurchaseRequestHandler(deps.PurchaseReqUC, log)
	prs := protected.Group("/purchase-requests", internal)
	prs.Post("/", prHandler.Create)
	prs.Post("/auto", prHandler.AutoCreate)
	prs.Get("/", prHandler.List)
	prs.Get("/:id", prHandler.Get)
	prs.Put("/:id", prHandler.Update)
	prs.Delete("/:id", prHandler.Delete)
	prs.Post("/:id/decision", prHandler.Decide)
	prs.Post("/:id/convert", prHandler.Convert)

	// Órdenes de compra (también portal del proveedor)
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC, log)
	pos := protected.Group("/purchase-orders")
	pos.Post("/", internal, poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.Get)
	pos.Get("/:id/pdf", poHandler.PDF)
	pos.Put("/:id", internal, poHandler.Update)
	pos.Post("/:id/send", internal, poHandler.Send)
	pos.Post("/:id/respond", RequireRole(entity.RoleSupplier), poHandler.Respond)
	pos.Post("/:id/cancel", internal, poHandler.Cancel)

	// Recepciones
	grnHandler := NewGoodsReceiptHandler(deps.GoodsReceiptUC, log)
	grns := protected.Group("/goods-receipts", internal)
	grns.Post("/", grnHandler.Create)
	grns.Get("/", grnHandler.List)
	grns.Get("/:id", grnHandler.Get)
	grns.Post("/:id/decision", grnHandler.Decide)

	// Traslados
	transferHandler := NewTransferHandler(deps.TransferUC, log)
	transfers := protected.Group("/transfers", internal)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/submit", transferHandler.Submit)
	transfers.Post("/:id/decision", transferHandler.Decide)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Programador
	if deps.SchedulerUC != nil {
		schedHandler := NewSchedulerHandler(deps.SchedulerUC, log)
		sched := protected.Group("/scheduler", RequireRole(entity.RoleAdmin, entity.RoleManager))
		sched.Get("/status", schedHandler.Status)
		sched.Post("/start", schedHandler.Start)
		sched.Post("/stop", schedHandler.Stop)
		sched.Post("/run", schedHandler.Run)
	}
}
