package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/newsdesk/internal/api"
	"github.com/hoanghai1803/newsdesk/internal/api/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		router := api.NewRouter(api.Deps{
			Curator:  a.curator,
			Selector: a.selector,
			Cache:    a.cache,
			Availability: handlers.Availability{
				Completion:  a.completer != nil,
				Aggregation: a.newsAPI.IsConfigured(),
			},
		})

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// Curation makes several sequential upstream calls.
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  2 * time.Minute,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting server", "addr", "http://"+srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
