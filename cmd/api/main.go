package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/auth"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/bootstrap"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/inbox"
	infrapdf "github.com/jhoicas/systemair-inventario/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/systemair-inventario/internal/interfaces/http"
	"github.com/jhoicas/systemair-inventario/pkg/config"
	"github.com/jhoicas/systemair-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	svc, err := bootstrap.Build(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar servicios de datos")
	}
	defer svc.Close()

	authUC, err := auth.NewAuthUseCase(svc.UserUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.SharedPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar autenticación")
	}

	// PDF: nota de entrega imprimible
	noteUC := usecase.NewDeliveryNoteUseCase(svc.Deliveries, svc.Products, infrapdf.NewMarotoDeliveryNoteGenerator("Systemair"))

	var watcher *inbox.Watcher
	if cfg.Sync.InboxDir != "" {
		watcher = inbox.NewWatcher(cfg.Sync.InboxDir, svc.Sync, log.Zerolog())
		if err := watcher.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("bandeja de importación")
		}
	}

	app := httpRouter.NewApp(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "initialized": svc.StatusUC.Status().IsInitialized})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         svc.UserUC,
		ProductUC:      svc.ProductUC,
		StockUC:        usecase.NewStockUseCase(svc.Products),
		DeliveryUC:     svc.DeliveryUC,
		DeliveryNoteUC: noteUC,
		DashboardUC:    usecase.NewDashboardUseCase(svc.Products, svc.Deliveries),
		StatusUC:       svc.StatusUC,
		SyncService:    svc.Sync,
		Scheduler:      svc.Scheduler,
		Metrics:        svc.Metrics,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			log.Error().Err(err).Msg("detener bandeja de importación")
		}
	}

	log.Info().Msg("aplicación detenida")
}
