/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/errs"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize database schema and seed the complaint board",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "start init-db")

		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		board, err := svc.Kanban.EnsureDefaultBoard(ctx)
		if err != nil {
			return errs.Wrap(err, "seed board")
		}

		if path, _ := cmd.Flags().GetString("write-template"); strings.TrimSpace(path) != "" {
			if err := writeStarterTemplate(path); err != nil {
				return err
			}
			logging.Info(ctx, "board template written", slog.String("path", path))
		}

		logging.Info(ctx, "init-db finished", slog.String("database_driver", app.Config.Database.Driver), slog.String("board_id", board.ID))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized, board %q ready (%s)\n", board.Title, board.ID); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

// writeStarterTemplate writes the built-in board layout as TOML for editing.
func writeStarterTemplate(path string) error {
	data, err := domainkanban.DefaultTemplate().Encode()
	if err != nil {
		return errs.Wrap(err, "encode board template")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrapf(err, "write board template %q", path)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initDbCmd)
	initDbCmd.Flags().String("write-template", "", "Also write the default board template (TOML) to this path")
}
