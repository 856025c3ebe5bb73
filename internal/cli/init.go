package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/scrumban/internal/adapters/textfile"
	"github.com/example/scrumban/internal/config"
	"github.com/example/scrumban/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		backlogPath string
		membersPath string
		taskLimit   int
		todoLimit   int
		store       string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Import a project and create the board",
		Long: `Import a project backlog and a members file into a new board.

The backlog file holds one task per line: "name, priority, M/D/YYYY".
The members file holds one member per line: "name, email".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := workDir(cmd)
			if config.Exists(dir) {
				return fmt.Errorf("a board already exists in %s\nHint: run 'scrumban reset --yes' to import a new project", dir)
			}

			backlog, err := filepath.Abs(backlogPath)
			if err != nil {
				return fmt.Errorf("failed to resolve backlog path: %w", err)
			}
			members, err := filepath.Abs(membersPath)
			if err != nil {
				return fmt.Errorf("failed to resolve members path: %w", err)
			}

			if err := textfile.ValidateTaskFile(backlog); err != nil {
				return err
			}
			if err := textfile.ValidateMemberFile(members); err != nil {
				return err
			}

			cfg := config.Default()
			cfg.BacklogPath = backlog
			cfg.MembersPath = members
			cfg.TaskLimit = taskLimit
			cfg.TodoLimit = todoLimit
			cfg.Store = store
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}
			if err := wire.ImportProject(commandContext(cmd), dir, cfg); err != nil {
				config.Reset(dir)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Board initialized in %s\n", config.StateDir(dir))
			fmt.Fprintf(out, "  Task limit: %d per member, todo limit: %d, store: %s\n", cfg.TaskLimit, cfg.TodoLimit, cfg.Store)
			fmt.Fprintln(out)

			return withApp(cmd, true, func(ctx context.Context, a *wire.App) error {
				if err := a.Adapter.Show(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Next steps:")
				fmt.Fprintln(out, "  scrumban assign 1 1")
				fmt.Fprintln(out, "  scrumban agenda import agenda.txt")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&backlogPath, "backlog", "", "Project backlog file (required)")
	cmd.Flags().StringVar(&membersPath, "members", "", "Members file (required)")
	cmd.Flags().IntVar(&taskLimit, "task-limit", config.DefaultTaskLimit, "Maximum tasks per member")
	cmd.Flags().IntVar(&todoLimit, "todo-limit", config.DefaultTodoLimit, "Maximum tasks in todo")
	cmd.Flags().StringVar(&store, "store", config.StoreText, "Board store: text or sqlite")
	cmd.MarkFlagRequired("backlog")
	cmd.MarkFlagRequired("members")

	return cmd
}
