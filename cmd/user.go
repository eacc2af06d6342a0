package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"condoqueixas/internal/api"
	"condoqueixas/internal/bootstrap"
	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the local user directory",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a user",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetString("id")
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		rawRole, _ := cmd.Flags().GetString("role")
		block, _ := cmd.Flags().GetString("block")
		apartment, _ := cmd.Flags().GetString("apartment")

		role, err := complaint.ParseRole(rawRole)
		if err != nil {
			return errs.ValidationFrom(err)
		}
		if strings.TrimSpace(name) == "" {
			return errs.Validation("--name is required")
		}
		if strings.TrimSpace(id) == "" {
			id = uuid.NewString()
		}

		user := ports.User{
			ID:        id,
			Name:      strings.TrimSpace(name),
			Email:     strings.TrimSpace(email),
			Role:      role,
			Block:     strings.TrimSpace(block),
			Apartment: strings.TrimSpace(apartment),
			CreatedAt: time.Now().UTC(),
		}
		if err := svc.Users.Save(ctx, user); err != nil {
			return errs.Wrap(err, "save user")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "user %s saved (%s)\n", user.ID, user.Role); err != nil {
			return errs.Wrap(err, "write user output")
		}
		return nil
	}),
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		users, err := svc.Users.List(ctx)
		if err != nil {
			return errs.Wrap(err, "list users")
		}
		tw := newTable(cmd.OutOrStdout(), table.Row{"ID", "Name", "Role", "Block", "Apartment", "Email"})
		for _, u := range users {
			tw.AppendRow(table.Row{u.ID, u.Name, u.Role, u.Block, u.Apartment, u.Email})
		}
		tw.Render()
		return nil
	}),
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Development bearer tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue <user-id>",
	Short: "Sign a bearer token for a known user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		requester, err := requesterFor(ctx, svc.Users, cmd.Flags().Arg(0))
		if err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = app.Config.Auth.TokenTTL
		}

		token, err := api.IssueToken(app.Config.Auth.JWTSecret, requester.ID, requester.Role, ttl, time.Now())
		if err != nil {
			return errs.Wrap(err, "issue token")
		}
		logging.Info(ctx, "token issued", slog.String("user_id", requester.ID), slog.Duration("ttl", ttl))
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), token); err != nil {
			return errs.Wrap(err, "write token")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(userCmd, tokenCmd)
	userCmd.AddCommand(userAddCmd, userListCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	userAddCmd.Flags().String("id", "", "User id (default: random uuid)")
	userAddCmd.Flags().String("name", "", "Display name")
	userAddCmd.Flags().String("email", "", "Email address")
	userAddCmd.Flags().String("role", string(complaint.RoleResident), "ADMIN, SINDICO or MORADOR")
	userAddCmd.Flags().String("block", "", "Building block")
	userAddCmd.Flags().String("apartment", "", "Apartment number")
	_ = userAddCmd.MarkFlagRequired("name")

	tokenIssueCmd.Flags().Duration("ttl", 0, "Token lifetime (default auth.token_ttl)")
}
