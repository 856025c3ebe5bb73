package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/wire"
)

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show todo, members, completed tasks, agenda and notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Show(ctx)
			})
		},
	}
}

// BacklogCmd returns the backlog command
func BacklogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backlog",
		Short: "List the backlog in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Backlog(ctx)
			})
		},
	}
}

// RefillCmd returns the refill command
func RefillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refill",
		Short: "Move backlog tasks into todo up to the todo limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Refill(ctx)
			})
		},
	}
}

// AssignCmd returns the assign command
func AssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign MEMBER TODO#",
		Short: "Assign a todo task to a member",
		Long: `Assign a todo task to a member.

MEMBER is the member number shown by 'scrumban show' or the member's name.
TODO# is the todo task number shown by 'scrumban show'.`,
		Example: "  scrumban assign Ann 1\n  scrumban assign 2 3",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Assign(ctx, args[0], args[1])
			})
		},
	}
}

// MoveCmd returns the move command
func MoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "move FROM TO TASK#",
		Short:   "Move a task from one member to another",
		Example: "  scrumban move Ann Bob 1",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Move(ctx, args[0], args[1], args[2])
			})
		},
	}
}

// ReturnCmd returns the return command
func ReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "return MEMBER TASK#",
		Short:   "Return a member's task to todo",
		Example: "  scrumban return Ann 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Return(ctx, args[0], args[1])
			})
		},
	}
}

// CompleteCmd returns the complete command
func CompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "complete MEMBER TASK#",
		Short:   "Mark a member's task completed",
		Example: "  scrumban complete Ann 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Complete(ctx, args[0], args[1])
			})
		},
	}
}

// RestoreCmd returns the restore command
func RestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore DONE#",
		Short:   "Move a completed task back to todo",
		Example: "  scrumban restore 1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.Restore(ctx, args[0])
			})
		},
	}
}
