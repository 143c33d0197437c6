// Package main is the entry point for the event report manager server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/event-report-manager/backend/internal/api"
	"github.com/event-report-manager/backend/internal/artifact"
	"github.com/event-report-manager/backend/internal/auth"
	"github.com/event-report-manager/backend/internal/config"
	"github.com/event-report-manager/backend/internal/export"
	"github.com/event-report-manager/backend/internal/mail"
	"github.com/event-report-manager/backend/internal/render"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	// Allow overriding version via environment (e.g., injected by container build/runtime)
	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting event report manager (version: %s)...", version)

	// Initialize database
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", cfg.DataDir, err)
	}
	for _, dir := range []string{cfg.PDFDir(), cfg.ImageDir(), cfg.ExportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create media directory %q: %v", dir, err)
		}
	}
	dbPath := filepath.Join(cfg.DataDir, "event-report-manager.db")
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Database ready at %s", db.Path())

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	eventRepo := storage.NewEventRepository(db)
	datesRepo := storage.NewDatesRepository(db)
	departmentRepo := storage.NewDepartmentRepository(db)
	reportRepo := storage.NewReportRepository(db)
	imageRepo := storage.NewImageRepository(db)
	userRepo := storage.NewUserRepository(db)

	// Initialize services
	renderer := render.New(render.NewChromeEngine(), cfg.PDFDir(), cfg.RenderTimeout)
	exporter := export.NewMonthExporter(db, cfg.ExportDir)
	mailer := mail.New(cfg.SMTP)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	// Start the orphaned-artifact sweeper
	var sweeper *artifact.Sweeper
	if cfg.SweepCron != "" {
		sweeper = artifact.NewSweeper(reportRepo, websocket.NewEventBroadcaster(hub), cfg.PDFDir(), cfg.SweepCron)
		if err := sweeper.Start(); err != nil {
			log.Printf("Warning: Failed to start artifact sweeper: %v", err)
		}
	}

	// Initialize HTTP router with services
	router := api.NewRouter(api.Deps{
		DB:          db,
		Events:      eventRepo,
		Dates:       datesRepo,
		Departments: departmentRepo,
		Reports:     reportRepo,
		Images:      imageRepo,
		Users:       userRepo,
		Renderer:    renderer,
		Exporter:    exporter,
		Mailer:      mailer,
		Hub:         hub,
		JWT:         jwtManager,
		PDFDir:      cfg.PDFDir(),
		ImageDir:    cfg.ImageDir(),
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if sweeper != nil {
		sweeper.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	hub.Close()

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
