package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Traslados-api/internal/application/auth"
	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/application/usecase"
	"github.com/jhoicas/Traslados-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BusinessUC     *usecase.BusinessUseCase
	LocationUC     *usecase.LocationUseCase
	ProductUC      *usecase.ProductUseCase
	UserUC         *usecase.UserUseCase
	LedgerUC       *inventory.LedgerUseCase
	AvailabilityUC *inventory.AvailabilityUseCase
	TransferUC     *transfer.UseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Businesses (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	businesses := api.Group("/businesses")
	businessHandler := NewBusinessHandler(deps.BusinessUC)
	businesses.Get("/", businessHandler.List)
	businesses.Post("/", businessHandler.Create)
	businesses.Get("/:id", businessHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", RequireRole(entity.RoleAdmin), locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", RequireRole(entity.RoleAdmin), locationHandler.Update)
	locations.Delete("/:id", RequireRole(entity.RoleAdmin), locationHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Post("/:id/variants", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.CreateVariant)

	// Users (protegido)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.GetMe)
	users.Get("/", RequireRole(entity.RoleAdmin), userHandler.List)

	// Inventory (protegido): movimientos directos, niveles, alertas
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/records/:id/movements", inventoryHandler.ListMovements)
	invGroup.Put("/records/:id/levels", inventoryHandler.UpdateStockLevels)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStock)

	// Availability (protegido)
	availabilityHandler := NewAvailabilityHandler(deps.AvailabilityUC)
	protected.Get("/availability", availabilityHandler.GetAvailability)

	// Transfers (protegido): ciclo de vida completo
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/reject", transferHandler.Reject)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
}
