package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/usecase/complaints"
)

type complaintRecord struct {
	ID          string          `json:"id" yaml:"id"`
	Category    string          `json:"category" yaml:"category"`
	Urgency     string          `json:"urgency" yaml:"urgency"`
	Priority    int             `json:"priority" yaml:"priority"`
	Status      string          `json:"status" yaml:"status"`
	Author      string          `json:"author" yaml:"author"`
	Description string          `json:"description" yaml:"description"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"created_at"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty" yaml:"deleted_at,omitempty"`
	History     []historyRecord `json:"history,omitempty" yaml:"history,omitempty"`
}

type historyRecord struct {
	From      string    `json:"previousStatus" yaml:"from"`
	To        string    `json:"newStatus" yaml:"to"`
	ChangedBy string    `json:"changedBy" yaml:"changed_by"`
	ChangedAt time.Time `json:"changedAt" yaml:"changed_at"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func toComplaintRecord(view complaints.ComplaintView) complaintRecord {
	return complaintRecord{
		ID:          view.ID,
		Category:    string(view.Category),
		Urgency:     string(view.Urgency),
		Priority:    view.Priority,
		Status:      string(view.Status),
		Author:      view.AuthorLabel,
		Description: view.Description,
		CreatedAt:   view.CreatedAt,
		DeletedAt:   view.DeletedAt,
		History:     toHistoryRecords(view.History),
	}
}

func toHistoryRecords(items []complaints.HistoryView) []historyRecord {
	out := make([]historyRecord, 0, len(items))
	for _, item := range items {
		out = append(out, historyRecord{
			From:      string(item.PreviousStatus),
			To:        string(item.NewStatus),
			ChangedBy: item.ChangedBy,
			ChangedAt: item.ChangedAt,
			Reason:    optional(item.Reason),
		})
	}
	return out
}

var complaintCmd = &cobra.Command{
	Use:   "complaint",
	Short: "Inspect complaints and drive their status",
}

var complaintCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a complaint as the acting user",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		urgency, _ := cmd.Flags().GetString("urgency")
		description, _ := cmd.Flags().GetString("description")
		anonymous, _ := cmd.Flags().GetBool("anonymous")

		view, err := svc.Complaints.CreateComplaint(ctx, complaints.CreateInput{
			Requester:   requester,
			Category:    category,
			Urgency:     urgency,
			Description: description,
			IsAnonymous: anonymous,
		})
		if err != nil {
			return errs.Wrap(err, "create complaint")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "complaint %s created (%s)\n", view.ID, view.Status); err != nil {
			return errs.Wrap(err, "write create output")
		}
		return nil
	}),
}

var complaintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List complaints visible to the acting user",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}

		scope, _ := cmd.Flags().GetString("scope")
		status, _ := cmd.Flags().GetString("status")
		category, _ := cmd.Flags().GetString("category")
		urgency, _ := cmd.Flags().GetString("urgency")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

		result, err := svc.Complaints.ListComplaints(ctx, complaints.ListInput{
			Requester:      requester,
			Scope:          scope,
			Status:         status,
			Category:       category,
			Urgency:        urgency,
			IncludeDeleted: includeDeleted,
			Page:           page,
			Limit:          limit,
		})
		if err != nil {
			return errs.Wrap(err, "list complaints")
		}

		records := make([]complaintRecord, 0, len(result.Items))
		for _, item := range result.Items {
			records = append(records, toComplaintRecord(item))
		}
		if format != outputTable {
			return printStructured(cmd.OutOrStdout(), format, records)
		}

		tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Status", "Category", "Urgency", "P", "Author", "Description", "Created"})
		for _, r := range records {
			tw.AppendRow(table.Row{r.ID, r.Status, r.Category, r.Urgency, r.Priority, r.Author, truncate(r.Description, 40), r.CreatedAt.Format(time.DateTime)})
		}
		tw.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("page %d/%d", result.Page, max(result.TotalPages, 1)), fmt.Sprintf("total %d", result.Total)})
		tw.Render()
		return nil
	}),
}

var complaintShowCmd = &cobra.Command{
	Use:   "show <complaint-id>",
	Short: "Show one complaint with its status history",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}
		includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

		view, err := svc.Complaints.GetComplaint(ctx, complaints.GetInput{
			Requester:      requester,
			ComplaintID:    cmd.Flags().Arg(0),
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return errs.Wrap(err, "show complaint")
		}

		record := toComplaintRecord(view)
		if format != outputTable {
			return printStructured(cmd.OutOrStdout(), format, record)
		}

		out := cmd.OutOrStdout()
		tw := newTable(out, table.Row{"Field", "Value"})
		tw.AppendRows([]table.Row{
			{"ID", record.ID},
			{"Status", record.Status},
			{"Category", record.Category},
			{"Urgency", fmt.Sprintf("%s (priority %d)", record.Urgency, record.Priority)},
			{"Author", record.Author},
			{"Created", record.CreatedAt.Format(time.DateTime)},
			{"Description", record.Description},
		})
		tw.Render()
		return renderHistory(out, record.History)
	}),
}

var complaintStatusCmd = &cobra.Command{
	Use:   "status <complaint-id> <new-status>",
	Short: "Move a complaint to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		result, err := svc.Complaints.ChangeStatus(ctx, complaints.ChangeStatusInput{
			Requester:   requester,
			ComplaintID: cmd.Flags().Arg(0),
			NewStatus:   cmd.Flags().Arg(1),
			Reason:      reason,
		})
		if err != nil {
			return errs.Wrap(err, "change status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "complaint %s: %s -> %s\n", result.ComplaintID, result.PreviousStatus, result.NewStatus); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	}),
}

var complaintHistoryCmd = &cobra.Command{
	Use:   "history <complaint-id>",
	Short: "List the status transitions of a complaint",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		asUser, _ := cmd.Flags().GetString("as")
		requester, err := requesterFor(ctx, svc.Users, asUser)
		if err != nil {
			return err
		}

		history, err := svc.Complaints.StatusHistory(ctx, complaints.HistoryInput{
			Requester:   requester,
			ComplaintID: cmd.Flags().Arg(0),
		})
		if err != nil {
			return errs.Wrap(err, "status history")
		}

		records := toHistoryRecords(history)
		if format != outputTable {
			return printStructured(cmd.OutOrStdout(), format, records)
		}
		return renderHistory(cmd.OutOrStdout(), records)
	}),
}

func renderHistory(w io.Writer, records []historyRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no status changes")
		return err
	}
	tw := newTable(w, table.Row{"Changed", "From", "To", "By", "Reason"})
	for _, r := range records {
		tw.AppendRow(table.Row{r.ChangedAt.Format(time.DateTime), r.From, r.To, r.ChangedBy, r.Reason})
	}
	tw.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(complaintCmd)
	complaintCmd.AddCommand(complaintCreateCmd, complaintListCmd, complaintShowCmd, complaintStatusCmd, complaintHistoryCmd)
	complaintCmd.PersistentFlags().String("as", "", "Acting user id")

	complaintCreateCmd.Flags().String("category", "", "INFRAESTRUTURA, LIMPEZA, SEGURANCA, CONVENIENCIA, ADMINISTRATIVO or OUTROS")
	complaintCreateCmd.Flags().String("urgency", "", "BAIXA, MEDIA, ALTA or CRITICA")
	complaintCreateCmd.Flags().String("description", "", "Complaint text")
	complaintCreateCmd.Flags().Bool("anonymous", false, "Hide the author from other residents")

	complaintListCmd.Flags().String("scope", "", "mine or all")
	complaintListCmd.Flags().String("status", "", "Status filter")
	complaintListCmd.Flags().String("category", "", "Category filter")
	complaintListCmd.Flags().String("urgency", "", "Urgency filter")
	complaintListCmd.Flags().Int("page", 1, "Page number")
	complaintListCmd.Flags().Int("limit", 0, "Page size (0 uses the configured default)")
	complaintListCmd.Flags().Bool("include-deleted", false, "Include soft-deleted complaints (managers only)")
	addOutputFlag(complaintListCmd)

	complaintShowCmd.Flags().Bool("include-deleted", false, "Show a soft-deleted complaint (managers only)")
	addOutputFlag(complaintShowCmd)

	complaintStatusCmd.Flags().String("reason", "", "Reason recorded in the history")

	addOutputFlag(complaintHistoryCmd)
}
