package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuddyApator/Energie-Buddy/internal/auth"
	"github.com/BuddyApator/Energie-Buddy/internal/ledger"
	"github.com/BuddyApator/Energie-Buddy/internal/meter"
	"github.com/BuddyApator/Energie-Buddy/internal/server"
	"github.com/BuddyApator/Energie-Buddy/internal/settings"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Long:  `Starts the HTTP server that serves the dashboard API: login, reading entry, consumption charts, settings, and device polling.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	srv := server.New(
		ledger.NewService(db),
		auth.NewService(db),
		auth.NewSessionManager(cfg.GetSessionTTL()),
		settings.NewStore(cfg.GetSettingsPath()),
		meter.NewClient(cfg.GetPollTimeout()),
		cfg.GetDiscoveryTimeout(),
	)

	httpServer := &http.Server{
		Addr:    ":" + cfg.GetPort(),
		Handler: srv.Routes(),
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.GetPort())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-shutdownSignal:
	}

	slog.Info("Shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
