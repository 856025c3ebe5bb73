package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/config"
	"github.com/example/scrumban/internal/wire"
)

// ResetCmd returns the reset command
func ResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the board so a new project can be imported",
		Long: `Discard todo, the completed log, the agenda and the notes, and forget the
imported project. The backlog and members files themselves are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards all current project data\nHint: re-run with --yes to confirm")
			}

			dir := workDir(cmd)
			err := withApp(cmd, false, func(ctx context.Context, a *wire.App) error {
				return a.Service.Reset(ctx)
			})
			if err != nil {
				return err
			}
			if err := config.Reset(dir); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Board reset")
			fmt.Fprintln(cmd.OutOrStdout(), "  Run 'scrumban init --backlog FILE --members FILE' to import a new project")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
