package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hr-console/internal/config"
	"alfredoptarigan/hr-console/internal/handlers"
	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/observability"
	"alfredoptarigan/hr-console/internal/render"
	"alfredoptarigan/hr-console/internal/screens"
	"alfredoptarigan/hr-console/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	appLog := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	defer appLog.Sync()
	appLog.Info("config loaded", map[string]interface{}{
		"backend": cfg.Backend.BaseURL,
		"env":     cfg.Server.Env,
	})

	obs := observability.New("hr-console")
	defer obs.Shutdown()

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	backendClient := services.NewBackendClient(
		cfg.Backend.BaseURL,
		cfg.Backend.RequestTimeout,
		obs,
		appLog.WithFields(map[string]interface{}{"component": "backend"}),
	)
	appLog.Info("services initialized", nil)

	// Screens live in per-session state for as long as the process runs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := screens.NewRegistry(
		ctx,
		screens.Deps{
			Client:    backendClient,
			Storage:   storageService,
			Preflight: services.NewPreflightService(),
			Log:       appLog.WithFields(map[string]interface{}{"component": "screens"}),
		},
		screens.DefaultFactories(),
		cfg.Session.TTL,
		cfg.Session.CleanupInterval,
	)

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("❌ Failed to load templates: %v", err)
	}

	// Initialize Handlers
	handlerLog := appLog.WithFields(map[string]interface{}{"component": "handlers"})
	routes := handlers.Handlers{
		Upload:     handlers.NewUploadHandler(registry, renderer, cfg.Server.LoadingGrace, handlerLog),
		Result:     handlers.NewResultHandler(registry, renderer, cfg.Server.LoadingGrace, handlerLog),
		Assessment: handlers.NewAssessmentHandler(registry, renderer, handlerLog),
		Registry:   registry,
		Metrics:    obs.Handler(),
	}
	appLog.Info("handlers initialized", nil)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR Recruitment Console",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Backend.RequestTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Register(app, routes)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		appLog.Info("shutting down server", nil)
		cancel()
		registry.Close()
		if err := app.Shutdown(); err != nil {
			appLog.Error("server forced to shutdown", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLog.Info("server starting", map[string]interface{}{
		"addr":    addr,
		"console": fmt.Sprintf("http://localhost%s", addr),
	})

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
