package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/wire"
)

// NotesCmd returns the notes command
func NotesCmd() *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Set or show the general meeting notes",
	}

	notesCmd.AddCommand(&cobra.Command{
		Use:     "set TEXT...",
		Short:   "Replace the general meeting notes",
		Example: `  scrumban notes set "Demo moved to Friday"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.SetNotes(ctx, strings.Join(args, " "))
			})
		},
	})

	notesCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the general meeting notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.ShowNotes(ctx)
			})
		},
	})

	return notesCmd
}

// MemberCmd returns the member command
func MemberCmd() *cobra.Command {
	memberCmd := &cobra.Command{
		Use:   "member",
		Short: "Manage member questions and concerns",
	}

	memberCmd.AddCommand(&cobra.Command{
		Use:     "notes MEMBER TEXT...",
		Short:   "Replace a member's questions and concerns",
		Example: `  scrumban member notes Ann "Needs staging access"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.SetMemberNotes(ctx, args[0], strings.Join(args[1:], " "))
			})
		},
	})

	return memberCmd
}
