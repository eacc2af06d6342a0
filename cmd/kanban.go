package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/usecase/kanban"
)

type cardRecord struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Order       int    `json:"order" yaml:"order"`
	ComplaintID string `json:"complaintId,omitempty" yaml:"complaint_id,omitempty"`
}

type columnRecord struct {
	ID    string       `json:"id" yaml:"id"`
	Name  string       `json:"name" yaml:"name"`
	Cards []cardRecord `json:"cards" yaml:"cards"`
}

type boardRecord struct {
	ID      string         `json:"id" yaml:"id"`
	Title   string         `json:"title" yaml:"title"`
	Columns []columnRecord `json:"columns" yaml:"columns"`
}

func toBoardRecord(view kanban.BoardView) boardRecord {
	record := boardRecord{ID: view.Board.ID, Title: view.Board.Title}
	for _, column := range view.Columns {
		cr := columnRecord{ID: column.Column.ID, Name: column.Column.Name, Cards: make([]cardRecord, 0, len(column.Cards))}
		for _, card := range column.Cards {
			cr.Cards = append(cr.Cards, cardRecord{ID: card.ID, Title: card.Title, Order: card.Order, ComplaintID: optional(card.ComplaintID)})
		}
		record.Columns = append(record.Columns, cr)
	}
	return record
}

var kanbanCmd = &cobra.Command{
	Use:   "kanban",
	Short: "Inspect and maintain the complaint board",
}

var kanbanShowCmd = &cobra.Command{
	Use:   "show [board-id]",
	Short: "Show a board with its columns and cards",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		view, err := svc.Kanban.GetBoard(ctx, cmd.Flags().Arg(0))
		if err != nil {
			return errs.Wrap(err, "show board")
		}
		record := toBoardRecord(view)
		if format != outputTable {
			return printStructured(cmd.OutOrStdout(), format, record)
		}

		tw := newTable(cmd.OutOrStdout(), table.Row{"Column", "Order", "Card", "Title", "Complaint"})
		tw.SetTitle(fmt.Sprintf("%s (%s)", record.Title, record.ID))
		for _, column := range record.Columns {
			if len(column.Cards) == 0 {
				tw.AppendRow(table.Row{column.Name, "", "", "-", ""})
			}
			for _, card := range column.Cards {
				tw.AppendRow(table.Row{column.Name, card.Order, card.ID, card.Title, card.ComplaintID})
			}
			tw.AppendSeparator()
		}
		tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
		tw.Render()
		return nil
	}),
}

var kanbanSyncCmd = &cobra.Command{
	Use:   "sync <complaint-id>",
	Short: "Mirror one complaint onto the board",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}

		result, err := svc.Kanban.SyncComplaint(ctx, kanban.SyncInput{Requester: requester, ComplaintID: cmd.Flags().Arg(0)})
		if err != nil {
			return errs.Wrap(err, "sync complaint")
		}

		state := "unchanged"
		switch {
		case result.Created:
			state = "created"
		case result.Moved && result.ContentUpdated:
			state = "moved+updated"
		case result.Moved:
			state = "moved"
		case result.ContentUpdated:
			state = "updated"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "complaint %s card=%s column=%s %s\n", result.ComplaintID, result.CardID, result.ColumnID, state); err != nil {
			return errs.Wrap(err, "write sync output")
		}
		return nil
	}),
}

var kanbanSyncAllCmd = &cobra.Command{
	Use:   "sync-all",
	Short: "Mirror every live complaint onto the board",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}

		summary, err := svc.Kanban.SyncAll(ctx, requester)
		if err != nil {
			return errs.Wrap(err, "sync all complaints")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d created=%d moved=%d updated=%d\n", summary.Scanned, summary.Created, summary.Moved, summary.Updated); err != nil {
			return errs.Wrap(err, "write sync output")
		}
		return nil
	}),
}

var kanbanMoveCmd = &cobra.Command{
	Use:   "move <card-id>",
	Short: "Move a card to a column position",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}
		boardID, _ := cmd.Flags().GetString("board")
		target, _ := cmd.Flags().GetString("to")
		index, _ := cmd.Flags().GetInt("index")

		if boardID == "" {
			view, err := svc.Kanban.GetBoard(ctx, "")
			if err != nil {
				return errs.Wrap(err, "resolve board")
			}
			boardID = view.Board.ID
		}

		result, err := svc.Kanban.MoveCard(ctx, kanban.MoveCardInput{
			Requester:      requester,
			BoardID:        boardID,
			CardID:         cmd.Flags().Arg(0),
			TargetColumnID: target,
			Index:          index,
		})
		if err != nil {
			return errs.Wrap(err, "move card")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "card %s: %s -> %s order=%d\n", result.CardID, result.FromColumnID, result.ToColumnID, result.Order); err != nil {
			return errs.Wrap(err, "write move output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(kanbanCmd)
	kanbanCmd.AddCommand(kanbanShowCmd, kanbanSyncCmd, kanbanSyncAllCmd, kanbanMoveCmd)
	kanbanCmd.PersistentFlags().String("as", "", "Acting user id")

	addOutputFlag(kanbanShowCmd)

	kanbanMoveCmd.Flags().String("board", "", "Board id (default: configured board)")
	kanbanMoveCmd.Flags().String("to", "", "Target column id")
	kanbanMoveCmd.Flags().Int("index", 0, "Zero-based position in the target column")
	_ = kanbanMoveCmd.MarkFlagRequired("to")
}
