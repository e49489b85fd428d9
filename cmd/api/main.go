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

	appinventory "github.com/gestionapp/negocio-api/internal/application/inventory"
	apptransfer "github.com/gestionapp/negocio-api/internal/application/transfer"
	infracache "github.com/gestionapp/negocio-api/internal/infrastructure/cache"
	infrapdf "github.com/gestionapp/negocio-api/internal/infrastructure/pdf"
	"github.com/gestionapp/negocio-api/internal/infrastructure/postgres"
	httpRouter "github.com/gestionapp/negocio-api/internal/interfaces/http"
	"github.com/gestionapp/negocio-api/pkg/config"
	"github.com/gestionapp/negocio-api/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	businessRepo := postgres.NewBusinessRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache consultivo de disponibilidad: REDIS_ADDR vacío lo deshabilita.
	var availabilityCache appinventory.AvailabilityCache
	if c := infracache.New(cfg.Redis.Addr, cfg.Redis.Password, time.Duration(cfg.Redis.TTLSeconds)*time.Second); c != nil {
		availabilityCache = c
		defer c.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("cache de disponibilidad habilitado")
	}

	transferUC := apptransfer.NewTransferUseCase(txRunner, transferRepo, businessRepo, branchRepo, productRepo, availabilityCache)
	pdfGenerator := infrapdf.NewMarotoTransferPDFGenerator()
	transferPDFUC := apptransfer.NewPDFUseCase(transferRepo, businessRepo, branchRepo, productRepo, pdfGenerator)
	availabilityUC := appinventory.NewAvailabilityUseCase(businessRepo, productRepo, stockRepo, availabilityCache)

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
		Title:    "Negocio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TransferUC:   transferUC,
		TransferPDF:  transferPDFUC,
		Availability: availabilityUC,
		BranchRepo:   branchRepo,
		BusinessRepo: businessRepo,
		JWTSecret:    cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
