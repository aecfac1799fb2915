package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/seopilot/seopilot/app/api"
	"github.com/seopilot/seopilot/app/cfg"
	"github.com/seopilot/seopilot/app/config"
	"github.com/seopilot/seopilot/app/content"
	"github.com/seopilot/seopilot/app/database"
	"github.com/seopilot/seopilot/app/engine"
	"github.com/seopilot/seopilot/app/errs"
	"github.com/seopilot/seopilot/app/keyword"
	"github.com/seopilot/seopilot/app/pipe"
	"github.com/seopilot/seopilot/app/tasks"
)

const defaultDBPath = "./seopilot.db"

// logAnnouncer delivers operator notifications through the structured log.
type logAnnouncer struct{}

func (logAnnouncer) Announce(message string) {
	slog.Warn(message)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional, flags and real environment variables win
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	log.Printf("Starting SEO Pilot %s...", appCfg.Version)

	dbPath := appCfg.DBPath
	if err := database.CheckPath(dbPath); err != nil {
		if errs.IsNotFound(err) {
			slog.Warn("Configured database path does not resolve, falling back to default",
				"configured", dbPath, "default", defaultDBPath)
			dbPath = defaultDBPath
		} else {
			log.Fatalf("Failed to check database path: %v", err)
		}
	}

	db, err := database.NewConnection(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	provisioner := database.NewProvisioner(db)
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	result, err := provisioner.EnsureSchema(schemaCtx)
	cancelSchema()
	if err != nil {
		if errs.IsPermission(err) {
			// Degraded start: the store may still be readable, and the
			// error carries the manual setup instructions.
			slog.Error("Schema provisioning failed", "error", err)
		} else {
			log.Fatalf("Failed to provision schema: %v", err)
		}
	} else {
		slog.Info("Schema ready", "status", string(result.Status), "path", dbPath)
	}

	profileLoader := config.NewLoader(appCfg.PlatformsDir)
	profiles, err := profileLoader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load platform profiles: %v", err)
	}
	slog.Info("Platform profiles loaded", "count", len(profiles))

	campaignRepo := database.NewCampaignRepository(db)
	keywordRepo := database.NewKeywordRepository(db)
	contentRepo := database.NewContentRepository(db)

	pool := keyword.NewPool(keywordRepo)
	lifecycle := content.NewLifecycle(contentRepo)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var notifier content.PipeNotifier
	if appCfg.HasPipe() {
		notifier = pipe.NewNotifier(appCfg.PipeWebhookURL, httpClient, appCfg.UserAgent)
		slog.Info("Distribution pipe configured", "url", appCfg.PipeWebhookURL)
	} else {
		slog.Warn("No pipe webhook configured, due records are flagged but not announced")
	}

	var directPublisher content.DirectPublisher
	if appCfg.WebsiteAPIToken != "" {
		directPublisher = pipe.NewDirectPublisher(appCfg.WebsiteAPIToken,
			pipe.AuthStyle(appCfg.WebsiteAuthStyle), "", httpClient, appCfg.UserAgent)
		slog.Info("Direct website publishing enabled", "auth_style", appCfg.WebsiteAuthStyle)
	}

	coordinator := content.NewCoordinator(contentRepo, campaignRepo, lifecycle,
		notifier, directPublisher, logAnnouncer{}, time.Duration(appCfg.ReminderLeadHours)*time.Hour)

	var contentEngine *engine.Engine
	provider, err := engine.SelectProvider(engine.ProviderOptions{
		OpenAIAPIKey:    appCfg.OpenAIAPIKey,
		OpenAIModel:     appCfg.OpenAIModel,
		AnthropicAPIKey: appCfg.AnthropicAPIKey,
		AnthropicModel:  appCfg.AnthropicModel,
	})
	if err != nil {
		slog.Warn("Content generation disabled", "reason", err)
	} else {
		contentEngine = engine.NewEngine(provider)
		slog.Info("Content provider selected", "provider", provider.Name())
	}

	var imageSource engine.ImageSource
	switch {
	case appCfg.OpenAIAPIKey != "":
		imageSource = engine.NewDALLESource(appCfg.OpenAIAPIKey)
	case appCfg.UnsplashAccessKey != "":
		imageSource = engine.NewUnsplashSource(appCfg.UnsplashAccessKey)
	}
	images := engine.NewImageManager(imageSource)

	scheduler := tasks.NewScheduler(campaignRepo, contentRepo, pool, contentEngine,
		images, lifecycle, coordinator, profiles)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(campaignRepo, contentRepo, keywordRepo, pool,
		lifecycle, scheduler, profiles, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("SEO Pilot started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
