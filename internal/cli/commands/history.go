package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hubkit/hubctl/internal/cli/ui"
	"github.com/hubkit/hubctl/internal/history"
)

type historyOptions struct {
	failed bool
	limit  int
	runID  string
}

// NewHistoryCommand creates the 'history' command
func NewHistoryCommand(root *RootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded refresh outcomes",
		Long: `List the per-plugin outcomes recorded by update-sdk and
refresh-sdk-variants, newest first. The history database is configured with
history.path.`,
		Example: `  # Last 20 outcomes
  hubctl history

  # Failures of one run
  hubctl history --failed --run 0b7c6a9e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.failed, "failed", false, "Only show failures")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of outcomes to show (0 for all)")
	cmd.Flags().StringVar(&opts.runID, "run", "", "Only show outcomes of this run")

	return cmd
}

func runHistory(cmd *cobra.Command, root *RootOptions, opts *historyOptions) error {
	a, err := loadApp(root)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), root.noColor))
		return reported(err)
	}
	defer a.Close()

	if a.historyPath() == "" {
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("Run history is disabled", []string{"Enable it: set history.path in hubctl.yaml"}, root.noColor))
		return nil
	}

	ctx := cmd.Context()
	if err := a.openLedger(ctx); err != nil {
		return err
	}

	outcomes, err := a.ledger.List(ctx, history.Filter{
		RunID:      opts.runID,
		FailedOnly: opts.failed,
		Limit:      opts.limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprint(out, ui.Info("No recorded outcomes", root.noColor))
		return nil
	}

	table := ui.NewTable(out, []string{"Recorded", "Run", "Plugin", "Status", "Error"},
		&ui.TableOptions{NoColor: root.noColor, MaxWidth: 80})
	for _, o := range outcomes {
		table.AddRow(o.RecordedAt.Local().Format(time.DateTime), shortRunID(o.RunID), o.Plugin, string(o.Status), o.Error)
	}
	table.Render()
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
