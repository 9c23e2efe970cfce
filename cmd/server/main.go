package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/config"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/database"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/delegation"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/guard"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/handlers"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/history"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/httpserver"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/registry"
	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/session"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	cfg := config.Load()

	var db *gorm.DB
	if cfg.PostgresEnabled {
		var err error
		db, err = database.NewPostgresDB(logger, cfg)
		if err != nil {
			logger.WithError(err).Fatal("Database setup failed")
		}
	}

	var reg registry.Registry
	if cfg.Delegated() {
		reg = registry.NewDelegatedRegistry(logger, guard.NewClient(logger, cfg))
	} else {
		reg = registry.NewMemoryRegistry(logger)
	}
	logger.WithField("mode", reg.Mode()).Info("Registry mode selected")

	sessions := session.NewStore(logger, cfg.SessionSecret, cfg.SessionTTL)
	creds := session.NewStaticCredentials(cfg.AdminUsername, cfg.AdminPassword)
	deriver := delegation.NewDeriver(cfg.GuardBaseURL, cfg.GuardSecret)
	recorder := history.NewRecorder(logger, db, cfg.HistoryLimit)

	if err := handlers.EnsurePublicDir(logger, cfg.PublicDir); err != nil {
		logger.WithError(err).Fatal("Public directory setup failed")
	}

	handler := handlers.NewDashboardHandler(logger, cfg, reg, sessions, creds, deriver, recorder)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger, db))
	handlers.RegisterRoutes(r, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go session.NewSweeper(logger, sessions, time.Hour).Start(ctx)

	server := httpserver.New(":"+cfg.Port, r)

	if cfg.TLSPort != "" {
		httpserver.StartSelfSigned(logger, ":"+cfg.TLSPort, r)
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.WithField("addr", server.Addr).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed")
	}
}
