// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/josefe-ing/fluxion-workspace-sub001/internal/api"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/cache"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/config"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/feed"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/planning"
	"github.com/josefe-ing/fluxion-workspace-sub001/internal/service"
	"github.com/josefe-ing/fluxion-workspace-sub001/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	summaryCache, err := cache.NewPlanSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		summaryCache = cache.NewNoopPlanSummaryCache()
	}

	planner := planning.NewPlanner(cfg.EngineConfig())
	planningService := service.NewPlanningService(planner, summaryCache)

	laneOpts := feed.LaneOptions{
		CategoryOrigins:     cfg.Planning.CategoryOrigins,
		DefaultOrigin:       cfg.Planning.DefaultOrigin,
		DefaultLeadTimeDays: cfg.Planning.DefaultLeadTimeDays,
		LaneLeadTimeDays:    cfg.Planning.LaneLeadTimeDays,
	}
	loader := func(asOf time.Time) (planning.Snapshot, error) {
		return feed.LoadSnapshot(cfg.App.DataDir, laneOpts, asOf)
	}

	router := api.NewRouter(planningService, loader, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
