package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/adapters/textfile"
	"github.com/example/scrumban/internal/wire"
)

// AgendaCmd returns the agenda command
func AgendaCmd() *cobra.Command {
	agendaCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Import or show the meeting agenda",
	}

	agendaCmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Replace the agenda with the lines of FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open agenda: %w", err)
			}
			defer f.Close()

			items, err := textfile.ParseAgenda(f)
			if err != nil {
				return err
			}

			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.SetAgenda(ctx, items)
			})
		},
	})

	agendaCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the agenda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, false, func(ctx context.Context, a *wire.App) error {
				return a.Adapter.ShowAgenda(ctx)
			})
		},
	})

	return agendaCmd
}
