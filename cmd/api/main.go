package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pattarak/jobtracker-pro/internal/config"
	"github.com/pattarak/jobtracker-pro/internal/database"
	"github.com/pattarak/jobtracker-pro/internal/handlers"
	"github.com/pattarak/jobtracker-pro/internal/logging"
	"github.com/pattarak/jobtracker-pro/internal/services"
	"github.com/pattarak/jobtracker-pro/internal/store"
	"github.com/pattarak/jobtracker-pro/internal/tracker"
)

func main() {
	// 1. Environment & logging
	_ = godotenv.Load()
	log := logging.NewDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Persistence adapter (cloud sync or local snapshot)
	var st store.Store
	switch cfg.StorageMode {
	case config.ModeCloud:
		db, err := database.Connect(cfg.PostgresDSN)
		if err != nil {
			log.Error(ctx, "database connection failed", "error", err)
			os.Exit(1)
		}
		st = store.NewGormStore(db, log, cfg.WatchPollInterval)
		log.Info(ctx, "cloud storage ready")
	case config.ModeLocal:
		db, err := store.OpenSQLite(cfg.LocalDBPath)
		if err != nil {
			log.Error(ctx, "sqlite open failed", "path", cfg.LocalDBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		st, err = store.NewLocalStore(ctx, db, log)
		if err != nil {
			log.Error(ctx, "local store init failed", "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "local storage ready", "path", cfg.LocalDBPath)
	}

	// 3. View-model; the watch subscription lives until ctx is cancelled
	trk := tracker.New(st, log)
	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		if err := trk.Run(ctx); err != nil {
			log.Error(ctx, "tracker stopped", "error", err)
		}
	}()

	// 4. AI analysis is optional; without a key the endpoint reports the
	// classified credential error instead
	var llm *services.LLMService
	if cfg.GeminiAPIKey != "" {
		llm, err = services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Warn(ctx, "analysis disabled", "error", err)
		}
	} else {
		log.Warn(ctx, "GEMINI_API_KEY not set, analysis disabled")
	}

	// 5. Router & CORS
	jobHandler := handlers.NewJobHandler(trk, llm, log)

	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/watch", jobHandler.WatchJobs)
		api.POST("/jobs", jobHandler.CreateJob)
		api.PUT("/jobs/:id", jobHandler.UpdateJob)

		api.POST("/jobs/:id/delete", jobHandler.MarkDelete)
		api.POST("/jobs/delete/confirm", jobHandler.ConfirmDelete)
		api.POST("/jobs/delete/cancel", jobHandler.CancelDelete)

		api.GET("/stats", jobHandler.Stats)
		api.POST("/jobs/analyze", jobHandler.AnalyzeJob)
	}

	// 6. Serve until interrupted
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "server starting", "port", cfg.HTTPPort, "mode", cfg.StorageMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "server failed", "error", err)
		os.Exit(1)
	}

	<-trackerDone
	log.Info(context.Background(), "shutdown complete")
}
