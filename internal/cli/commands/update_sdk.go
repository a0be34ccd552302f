package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/cli/ui"
	"github.com/hubkit/hubctl/internal/hub"
	"github.com/hubkit/hubctl/internal/plugin"
	"github.com/hubkit/hubctl/internal/prompt"
	"github.com/hubkit/hubctl/internal/settings"
)

type updateSDKOptions struct {
	autoAccept   bool
	pipURL       string
	executable   string
	pluginConfig string
}

// NewUpdateSDKCommand creates the 'update-sdk' command
func NewUpdateSDKCommand(root *RootOptions) *cobra.Command {
	opts := &updateSDKOptions{}

	cmd := &cobra.Command{
		Use:   "update-sdk <plugin-path>",
		Short: "Update one SDK-based plugin definition from its --about output",
		Long: `Install a plugin with pipx, run its --about command and merge the
reported settings into its definition file.

The plugin path names the definition as <type>/<name>/<variant>. Settings
already in the file keep any fields the plugin does not report, such as
placeholders, documentation links and custom keys. Settings the plugin no
longer reports are dropped.

Without --auto-accept, settings that have no description or type are asked
for interactively.`,
		Example: `  # Update tap-csv from the MeltanoLabs variant
  hubctl update-sdk extractors/tap-csv/meltanolabs

  # Run unattended, accepting defaults for missing descriptions
  hubctl update-sdk extractors/tap-csv/meltanolabs --auto-accept

  # Try an unreleased branch
  hubctl update-sdk extractors/tap-csv/meltanolabs \
    --pip-url git+https://github.com/MeltanoLabs/tap-csv.git@feature`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdateSDK(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.autoAccept, "auto-accept", false, "Do not prompt; use defaults for missing descriptions and types")
	cmd.Flags().StringVar(&opts.pipURL, "pip-url", "", "Install from this pip URL instead of the definition's pip_url")
	cmd.Flags().StringVar(&opts.executable, "executable", "", "Executable to introspect (default: the definition's executable or name)")
	cmd.Flags().StringVar(&opts.pluginConfig, "plugin-config", "", "JSON file passed to the plugin with --config")

	return cmd
}

func runUpdateSDK(cmd *cobra.Command, root *RootOptions, opts *updateSDKOptions, path string) error {
	ref, err := catalog.ParsePluginRef(path)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.InvalidPluginPathError(path, suggestPluginTypes(path), root.noColor))
		return reported(err)
	}

	pluginConfig, err := readPluginConfig(opts.pluginConfig)
	if err != nil {
		return err
	}

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
	}

	var source settings.PromptSource = settings.Defaults{}
	if !opts.autoAccept {
		source = prompt.NewSurvey()
	}
	flattener := settings.NewFlattener(
		settings.WithPromptSource(source),
		settings.WithEnforcedDescriptions(!opts.autoAccept),
		settings.WithLogger(a.logger),
	)

	rec, _, err := a.updater(flattener).UpdateRun(ctx, hub.Request{
		Ref:        ref,
		PipURL:     opts.pipURL,
		Executable: opts.executable,
		Config:     pluginConfig,
	})
	if err != nil {
		if errors.Is(err, plugin.ErrInvalidAbout) {
			fmt.Fprint(cmd.ErrOrStderr(), ui.IntrospectionError(ref.String(), err.Error(), root.noColor))
			return reported(err)
		}
		return err
	}

	ui.WriteSuccess(cmd.OutOrStdout(),
		fmt.Sprintf("Updated %s (%d settings)", a.store.Path(ref), len(rec.Settings)), root.noColor)
	return nil
}

// suggestPluginTypes proposes plugin types close to the first segment of a
// mistyped plugin path.
func suggestPluginTypes(path string) []string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil
	}
	typ := segments[0]
	if len(segments) > 3 {
		typ = segments[len(segments)-3]
	}
	for _, t := range catalog.PluginTypes {
		if t == typ {
			return nil
		}
	}
	return ui.FindSimilar(typ, catalog.PluginTypes, nil)
}

func readPluginConfig(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin config: %w", err)
	}

	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse plugin config %s: %w", path, err)
	}
	if config == nil {
		config = map[string]any{}
	}
	return config, nil
}
