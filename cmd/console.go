package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/usecase/boardconsole"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Terminal console commands",
}

var consoleBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Start the interactive complaint board",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}
		boardID, _ := cmd.Flags().GetString("board")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := boardconsole.NewBoardModel(ctx, svc.Kanban, boardconsole.Options{
			BoardID:         boardID,
			Requester:       requester,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run board console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.AddCommand(consoleBoardCmd)
	consoleBoardCmd.Flags().String("as", "", "Acting manager user id")
	consoleBoardCmd.Flags().String("board", "", "Board id (default: configured board)")
	consoleBoardCmd.Flags().Duration("refresh-interval", 5*time.Second, "Auto refresh interval")
}
