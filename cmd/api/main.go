package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Traslados-api/internal/application/auth"
	"github.com/jhoicas/Traslados-api/internal/application/inventory"
	"github.com/jhoicas/Traslados-api/internal/application/transfer"
	"github.com/jhoicas/Traslados-api/internal/application/usecase"
	"github.com/jhoicas/Traslados-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Traslados-api/internal/interfaces/http"
	"github.com/jhoicas/Traslados-api/pkg/config"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, locationRepo, recordRepo, movRepo)
	availabilityUC := inventory.NewAvailabilityUseCase(recordRepo, productRepo)
	transferUC := transfer.NewUseCase(txRunner, ledgerUC, transferRepo, locationRepo, productRepo, transfer.ExpiryPolicy{
		Normal: time.Duration(cfg.Transfer.NormalExpiryHours) * time.Hour,
		Urgent: time.Duration(cfg.Transfer.UrgentExpiryHours) * time.Hour,
	})

	businessUC := usecase.NewBusinessUseCase(businessRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, businessRepo, locationRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido periódico: expira pendientes con ventana vencida.
	expirationSvc := transfer.NewExpirationService(transferUC, transferRepo, log)
	expirationSvc.Start(ctx, cfg.Transfer.SweepInterval)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Traslados API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BusinessUC:     businessUC,
		LocationUC:     locationUC,
		ProductUC:      productUC,
		UserUC:         userUC,
		LedgerUC:       ledgerUC,
		AvailabilityUC: availabilityUC,
		TransferUC:     transferUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop() // detiene el barrido de expiración

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
