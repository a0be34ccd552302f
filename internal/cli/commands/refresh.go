package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hubkit/hubctl/internal/cli/ui"
	"github.com/hubkit/hubctl/internal/hub"
	"github.com/hubkit/hubctl/internal/settings"
)

type refreshOptions struct {
	start      string
	noProgress bool
}

// NewRefreshCommand creates the 'refresh-sdk-variants' command
func NewRefreshCommand(root *RootOptions) *cobra.Command {
	opts := &refreshOptions{}

	cmd := &cobra.Command{
		Use:   "refresh-sdk-variants",
		Short: "Update every SDK-based plugin definition in the hub",
		Long: `Walk every plugin definition file and update those whose keywords
include meltano_sdk, the same way update-sdk does but without prompting.

A plugin that fails is reported and the run moves on. Each outcome is kept
in the run history (see 'hubctl history'). Use --start to resume an
interrupted run from a definition file.`,
		Example: `  # Refresh everything
  hubctl refresh-sdk-variants

  # Resume from tap-github
  hubctl refresh-sdk-variants --start extractors/tap-github/meltanolabs.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "Definition file, relative to the data directory, to resume from")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Do not draw a progress bar")

	return cmd
}

func runRefresh(cmd *cobra.Command, root *RootOptions, opts *refreshOptions) error {
	a, err := loadApp(root)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), root.noColor))
		return reported(err)
	}
	defer a.Close()

	ctx := cmd.Context()
	a.openCache(ctx)
	if err := a.openLedger(ctx); err != nil {
		a.logger.Warn("Run history unavailable", zap.Error(err))
		fmt.Fprint(cmd.ErrOrStderr(), ui.Warning("Run history is disabled for this run: "+err.Error(), nil, root.noColor))
	}

	flattener := settings.NewFlattener(settings.WithLogger(a.logger))
	refreshOpts := hub.RefreshOptions{Start: opts.start}

	var bar *ui.ProgressBar
	if !opts.noProgress {
		bar = ui.NewProgressBar(cmd.OutOrStdout(), ui.ProgressBarOptions{NoColor: root.noColor})
		refreshOpts.Progress = func(done, total int, path string) {
			bar.Update(done, total, a.relative(path))
		}
	}

	report, err := a.updater(flattener).Refresh(ctx, refreshOpts)
	if bar != nil && report != nil && len(report.Updated)+len(report.Skipped)+len(report.Failures) > 0 {
		bar.Finish()
	}
	if errors.Is(err, hub.ErrStartNotFound) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.StartNotFoundError(opts.start, a.suggestStart(opts.start), root.noColor))
		return reported(err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.Header(out, "Refresh "+report.RunID, root.noColor)
	summary := ui.NewKeyValueTable(out, root.noColor)
	summary.AddRow("Updated", fmt.Sprint(len(report.Updated)))
	summary.AddRow("Skipped", fmt.Sprint(len(report.Skipped)))
	summary.AddRow("Failed", fmt.Sprint(len(report.Failures)))
	summary.Render()

	if len(report.Failures) == 0 {
		ui.WriteSuccess(out, "All SDK-based plugins are up to date", root.noColor)
		return nil
	}

	fmt.Fprintln(out)
	table := ui.NewTable(out, []string{"Plugin", "Error"}, &ui.TableOptions{NoColor: root.noColor, MaxWidth: 100})
	failed := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		rel := a.relative(f.Path)
		failed = append(failed, rel)
		table.AddRow(rel, f.Err.Error())
	}
	table.Render()

	fmt.Fprint(cmd.ErrOrStderr(), ui.RefreshFailedError(failed, root.noColor))
	return reported(fmt.Errorf("%d plugin(s) failed to update", len(report.Failures)))
}

// relative shows a record path relative to the data directory.
func (a *app) relative(path string) string {
	rel, err := filepath.Rel(a.store.Dir(), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// suggestStart proposes record files close to a --start value that matched
// nothing.
func (a *app) suggestStart(start string) []string {
	files, err := a.store.Walk()
	if err != nil {
		return nil
	}
	candidates := make([]string, len(files))
	for i, f := range files {
		candidates[i] = a.relative(f)
	}
	return ui.FindSimilar(filepath.ToSlash(filepath.Clean(start)), candidates, nil)
}
