/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "condoqueixas",
	Short:        "Condominium complaint engine",
	Long:         "Complaint intake, status workflow and kanban board for condominiums (Cobra + Viper + GORM).",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	ctx = logging.WithLogger(ctx, logging.New(rootCmd.ErrOrStderr(), "text", "info"))
	ctx = logging.WithAttrs(ctx, slog.String("app", "condoqueixas"))

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default ./configs/config.yaml or ./config.yaml)")
}
