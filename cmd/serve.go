package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"condoqueixas/internal/api"
	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/boardtemplate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the complaint and board HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("component", "cmd.serve"))
		cfg := app.Config

		if cfg.Auth.JWTSecret == "" {
			return errs.Validation("auth.jwt_secret is required to serve the API")
		}
		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "initialize schema")
			}
		}
		if _, err := svc.Kanban.EnsureDefaultBoard(ctx); err != nil {
			return errs.Wrap(err, "seed board")
		}

		watch, _ := cmd.Flags().GetBool("watch-template")
		if path := strings.TrimSpace(cfg.Kanban.TemplateFile); path != "" && (watch || cfg.Kanban.WatchTemplate) {
			go func() {
				err := boardtemplate.Watch(ctx, path, func(applyCtx context.Context, tpl domainkanban.Template) error {
					if title := strings.TrimSpace(cfg.Kanban.DefaultBoard); title != "" {
						tpl.Title = title
					}
					_, err := svc.Kanban.EnsureBoard(applyCtx, tpl)
					return err
				})
				if err != nil {
					logging.Warn(ctx, "board template watcher stopped", slog.Any("err", errs.Loggable(err)))
				}
			}()
		}

		handler, err := api.New(api.Config{
			Complaints: svc.Complaints,
			Kanban:     svc.Kanban,
			Hub:        svc.Hub,
			BasePath:   cfg.HTTP.BasePath,
			Auth: api.AuthConfig{
				JWTSecret: cfg.Auth.JWTSecret,
				TokenTTL:  cfg.Auth.TokenTTL,
			},
			Logger: logging.Logger(ctx),
		})
		if err != nil {
			return errs.Wrap(err, "build api handler")
		}

		addr := cfg.HTTP.Addr
		if override, _ := cmd.Flags().GetString("addr"); override != "" {
			addr = override
		}
		server := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			// Hijacked websocket connections reset their own deadlines per frame.
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BaseContext: func(net.Listener) context.Context {
				return context.WithoutCancel(ctx)
			},
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http api listening", slog.String("addr", addr), slog.String("base_path", cfg.HTTP.BasePath))
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errs.Wrap(err, "listen")
		case <-ctx.Done():
		}

		logging.Info(ctx, "shutting down http api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc.Hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().Bool("migrate", false, "Run schema migration before serving")
	serveCmd.Flags().Bool("watch-template", false, "Re-apply kanban.template_file when it changes")
}
