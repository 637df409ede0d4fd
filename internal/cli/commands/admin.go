package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/cli/prompt"
	"github.com/alumnet-dev/alumnet/internal/models"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer alumni accounts",
	}

	cmd.AddCommand(newLoginCmd(rt, true))
	cmd.AddCommand(&cobra.Command{
		Use:     "pending",
		Aliases: []string{"approvals", "dashboard"},
		Short:   "List accounts waiting for approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPending(cmd.Context(), rt)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "approve [alumni-id]",
		Short: "Approve a pending account",
		Long:  "Approve a pending account. Without an ID you pick one from the list.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runApprove(cmd.Context(), rt, id, prompt.SelectAlumni)
		},
	})

	return cmd
}

func runPending(ctx context.Context, rt *Runtime) error {
	pending, err := rt.App.PendingApprovals(ctx)
	if err != nil {
		return describe(err)
	}

	if len(pending) == 0 {
		rt.printf("No accounts waiting for approval.\n")
		return nil
	}

	rt.printf("%d account(s) waiting for approval:\n\n", len(pending))
	printAlumni(rt.Out, pending)
	return nil
}

type selector func(label string, list []models.Alumni) (*models.Alumni, error)

func runApprove(ctx context.Context, rt *Runtime, id string, choose selector) error {
	if id == "" {
		pending, err := rt.App.PendingApprovals(ctx)
		if err != nil {
			return describe(err)
		}
		if len(pending) == 0 {
			rt.printf("No accounts waiting for approval.\n")
			return nil
		}

		picked, err := choose("Approve which account?", pending)
		if err != nil {
			return fmt.Errorf("selection cancelled: %w", err)
		}
		id = picked.ID
	}

	approved, err := rt.App.Approve(ctx, id)
	if err != nil {
		return fmt.Errorf("approval failed: %w", describe(err))
	}

	rt.printf("✓ Approved %s <%s>\n", approved.FullName(), approved.Email)
	return nil
}
