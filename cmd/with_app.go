package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/realtime"
	"condoqueixas/internal/ports"
	"condoqueixas/internal/usecase/complaints"
	"condoqueixas/internal/usecase/kanban"
)

// services bundles what the commands drive once the fx graph is up.
type services struct {
	Complaints *complaints.Service
	Kanban     *kanban.Service
	Users      ports.UserDirectory
	Hub        *realtime.Hub
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svc services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		var svc services
		fxApp := fx.New(
			bootstrap.Module,
			fx.NopLogger,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app, &svc.Complaints, &svc.Kanban, &svc.Users, &svc.Hub),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		// Switch to the configured log format once config is known.
		logger := logging.New(cmd.ErrOrStderr(), app.Config.Log.Format, app.Config.Log.Level)
		cmd.SetContext(logging.WithLogger(ctx, logger))

		if err := run(cmd, app, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}

// requesterFor resolves the acting user of a CLI command from the directory.
func requesterFor(ctx context.Context, users ports.UserDirectory, userID string) (complaint.Requester, error) {
	if userID == "" {
		return complaint.Requester{}, errs.Validation("--as <user id> is required")
	}
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return complaint.Requester{}, errs.Wrapf(err, "find user %s", userID)
	}
	return complaint.Requester{ID: user.ID, Role: user.Role}, nil
}
