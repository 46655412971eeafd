package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petrijr/planweave/internal/students"
	"github.com/petrijr/planweave/pkg/reasoner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reasoner HTTP service",
	Long:  `Starts the reasoner service, exposing context, recommendation, template and activity endpoints over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		store, err := students.NewSQLiteStore(cfg.Database.StudentsPath)
		if err != nil {
			return err
		}
		defer store.Close()

		svc, err := reasoner.NewService(store, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.ListenAddr,
			Handler: reasoner.NewServer(svc, logger),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("reasoner service listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown incomplete, closing", "error", err)
				return srv.Close()
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
