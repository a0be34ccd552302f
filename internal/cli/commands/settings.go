package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/cli/ui"
	"github.com/hubkit/hubctl/internal/plugin"
	"github.com/hubkit/hubctl/internal/settings"
)

type settingsOptions struct {
	asYAML    bool
	mergeWith string
}

// NewSettingsCommand creates the 'settings' command
func NewSettingsCommand(root *RootOptions) *cobra.Command {
	opts := &settingsOptions{}

	cmd := &cobra.Command{
		Use:   "settings <about.json>",
		Short: "Preview the hub settings derived from saved --about output",
		Long: `Flatten the settings schema of a saved --about --format=json payload
and print the resulting hub settings without installing anything.

With --merge-with, the settings are merged into an existing definition file
and the merged definition is printed instead. The file is not modified.`,
		Example: `  # Preview settings as a table
  tap-csv --about --format=json > about.json
  hubctl settings about.json

  # Print the settings block as YAML
  hubctl settings about.json --yaml

  # Show what update-sdk would write
  hubctl settings about.json --merge-with _data/meltano/extractors/tap-csv/meltanolabs.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.asYAML, "yaml", false, "Print YAML instead of a table")
	cmd.Flags().StringVar(&opts.mergeWith, "merge-with", "", "Definition file to merge the settings into")

	return cmd
}

func runSettings(cmd *cobra.Command, root *RootOptions, opts *settingsOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	about, err := plugin.ParseAbout(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a, err := loadApp(root)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), root.noColor))
		return reported(err)
	}
	defer a.Close()

	result, err := settings.NewFlattener(settings.WithLogger(a.logger)).Flatten(about)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.mergeWith != "" {
		existing, err := a.store.ReadFile(opts.mergeWith)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.mergeWith, err)
		}
		return writeYAML(out, catalog.Apply(existing, result))
	}

	if opts.asYAML {
		rec := catalog.Apply(nil, result)
		return writeYAML(out, map[string]any{
			"capabilities":              rec.Capabilities,
			"settings":                  rec.Settings,
			"settings_group_validation": rec.SettingsGroupValidation,
		})
	}

	table := ui.NewTable(out, []string{"Name", "Label", "Kind", "Required", "Description"},
		&ui.TableOptions{NoColor: root.noColor, MaxWidth: 60})
	for _, s := range result.Settings {
		required := ""
		if s.Required {
			required = "yes"
		}
		table.AddRow(s.Name, s.Label, s.Kind, required, s.Description)
	}
	table.Render()

	if len(result.Capabilities) > 0 {
		fmt.Fprintf(out, "\nCapabilities: %s\n", strings.Join(result.Capabilities, ", "))
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
