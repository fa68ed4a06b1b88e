package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kitchen-menu/bot"
	"kitchen-menu/config"
	"kitchen-menu/db"
	"kitchen-menu/logger"
	"kitchen-menu/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.App.LogFilePath, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	menu, err := services.LoadMenu(cfg.App.MenuSeedFile)
	if err != nil {
		return err
	}
	log.Info("menu loaded", zap.Int("items", len(menu)), zap.String("source", seedSource(cfg.App.MenuSeedFile)))

	var journal services.Journal = services.NopJournal{}
	if cfg.DB.JournalEnabled {
		if err := db.Init(ctx, cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()
		if cfg.DB.AutoMigrate {
			if err := applyMigrations(ctx, false); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		journal = services.DBJournal{}
		log.Info("intent journal enabled", zap.String("database", cfg.DB.Database))
	}

	sessions := services.NewRegistry(cfg.App.SessionTTL, menu, journal, log)
	defer sessions.Close()

	b, err := bot.New(cfg, sessions, log)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Start(gctx) })
	if cfg.App.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.App.MetricsAddr, ReadHeaderTimeout: 5 * time.Second}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv.Handler = mux

		g.Go(func() error {
			log.Info("metrics listening", zap.String("addr", cfg.App.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	log.Info("bot stopped", zap.Int("open_sessions", sessions.Len()))
	return err
}

func seedSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

