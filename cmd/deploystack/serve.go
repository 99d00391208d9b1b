package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backend server",
		Long:  `Run the backend API server with all compiled-in server plugins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), app)
		},
	}

	return cmd
}

func runServe(parent context.Context, app *AppContext) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	host := server.NewHost(server.Config{
		Factories:    plugin.Builtins(plugin.RealmServer),
		Options:      app.Config.Plugins,
		DatabasePath: app.Config.Server.Database,
		Logger:       app.Logger,
	})
	if err := host.Start(ctx); err != nil {
		return fmt.Errorf("start backend host: %w", err)
	}

	srv := &http.Server{
		Addr:              app.Config.Server.Listen,
		Handler:           host.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	app.Logger.WithFields(map[string]any{"addr": app.Config.Server.Listen}).Info("listening")

	select {
	case err := <-serveErr:
		_ = host.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Logger.Error(err, "http server shutdown")
	}
	return host.Shutdown(shutdownCtx)
}
