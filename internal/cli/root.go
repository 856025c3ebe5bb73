// Package cli defines the scrumban commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/logs"
	"github.com/example/scrumban/internal/version"
	"github.com/example/scrumban/internal/wire"
)

// NewRootCmd returns the scrumban command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "scrumban",
		Short:   "Scrumban meeting board",
		Version: version.String(),
		Long: `scrumban runs a Scrumban team meeting from the terminal.
It keeps a priority-sorted backlog, a capacity-bounded todo queue, per-member
work in progress and a completed-task log, and emails each member a report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return logs.SetLevel(level)
		},
	}

	rootCmd.PersistentFlags().String("dir", ".", "Working directory holding the board")
	rootCmd.PersistentFlags().String("log-level", "warn", "Terminal log level (debug, info, warn, error)")

	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(ShowCmd())
	rootCmd.AddCommand(BacklogCmd())
	rootCmd.AddCommand(RefillCmd())
	rootCmd.AddCommand(AssignCmd())
	rootCmd.AddCommand(MoveCmd())
	rootCmd.AddCommand(ReturnCmd())
	rootCmd.AddCommand(CompleteCmd())
	rootCmd.AddCommand(RestoreCmd())
	rootCmd.AddCommand(AgendaCmd())
	rootCmd.AddCommand(NotesCmd())
	rootCmd.AddCommand(MemberCmd())
	rootCmd.AddCommand(ReportCmd())
	rootCmd.AddCommand(ResetCmd())

	return rootCmd
}

func workDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return "."
	}
	return dir
}

// withApp builds the app, runs fn and saves the board when fn succeeds and
// save is set. A failed operation leaves the stored board untouched.
func withApp(cmd *cobra.Command, save bool, fn func(ctx context.Context, a *wire.App) error) (err error) {
	a, err := wire.NewApp(wire.Options{
		Dir:    workDir(cmd),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()

	ctx := commandContext(cmd)
	if err := fn(ctx, a); err != nil {
		return err
	}
	if save {
		return a.Service.Save(ctx)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
