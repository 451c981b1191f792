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

	"github.com/joshharrison/taskweave/internal/api"
	"github.com/joshharrison/taskweave/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				addr := a.cfg.Server.Addr
				if flagAddr != "" {
					addr = flagAddr
				}

				router := api.NewRouter(&api.Handlers{
					Service:  a.svc,
					Logger:   a.logger,
					Metrics:  a.metrics,
					Gatherer: a.registry,
				})
				srv := &http.Server{
					Addr:         addr,
					Handler:      router,
					ReadTimeout:  a.cfg.Server.ReadTimeout,
					WriteTimeout: a.cfg.Server.WriteTimeout,
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() {
					errCh <- srv.ListenAndServe()
				}()

				ui.PrintBanner(os.Stderr, fmt.Sprintf("listening on %s", addr))
				a.logger.Info("http server started", slog.String("addr", addr), slog.String("store", a.cfg.Store.Driver))

				select {
				case err := <-errCh:
					if !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("http server: %w", err)
					}
					return nil
				case <-ctx.Done():
				}

				a.logger.Info("shutting down http server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
