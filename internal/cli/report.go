package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var (
		timeout time.Duration
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Email the meeting report to every member",
		Long: `Email each member their task breakdown, their questions and concerns and
the general meeting notes, with the completed-task log attached.

SMTP settings come from SCRUMBAN_SMTP_HOST, SCRUMBAN_SMTP_PORT,
SCRUMBAN_SMTP_USER and SCRUMBAN_SMTP_PASSWORD, read from the environment or
a .env file in the working directory. When no server can be reached the
reports are skipped and the board is left as it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *wire.App) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				_, err := a.Adapter.SendReports(ctx, dryRun)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up on delivery after this long")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the reports without sending them")

	return cmd
}
