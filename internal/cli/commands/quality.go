package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/cli/ui"
	"github.com/hubkit/hubctl/internal/quality"
)

type qualityOptions struct {
	sdk            bool
	usage          int
	responsiveness string
}

// NewQualityCommand creates the 'quality' command
func NewQualityCommand(root *RootOptions) *cobra.Command {
	opts := &qualityOptions{}

	cmd := &cobra.Command{
		Use:   "quality <variant|plugin-path>",
		Short: "Show the maintainer tier and quality grade of a variant",
		Long: `Grade a plugin variant.

The maintainer tier comes from the variant name. The quality grade also
depends on whether the plugin is built on the SDK, how many projects use it
and how responsive its maintainers are.

Given a plugin path instead of a bare variant, the SDK flag is read from the
plugin's definition file.`,
		Example: `  hubctl quality meltanolabs
  hubctl quality someone --usage 12 --responsiveness high
  hubctl quality extractors/tap-csv/meltanolabs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuality(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.sdk, "sdk", false, "The variant is built on the Singer SDK")
	cmd.Flags().IntVar(&opts.usage, "usage", 0, "Number of projects using the variant")
	cmd.Flags().StringVar(&opts.responsiveness, "responsiveness", "low", "Maintainer responsiveness: low, medium or high")

	return cmd
}

func runQuality(cmd *cobra.Command, root *RootOptions, opts *qualityOptions, arg string) error {
	switch opts.responsiveness {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("invalid --responsiveness %q: want low, medium or high", opts.responsiveness)
	}
	if opts.usage < 0 {
		return fmt.Errorf("invalid --usage %d", opts.usage)
	}

	variant, sdk := arg, opts.sdk
	if strings.Contains(arg, "/") {
		ref, err := catalog.ParsePluginRef(arg)
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), ui.InvalidPluginPathError(arg, suggestPluginTypes(arg), root.noColor))
			return reported(err)
		}
		variant = ref.Variant

		if !cmd.Flags().Changed("sdk") {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.store.Read(ref)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no definition for %s in %s", ref, a.store.Dir())
			}
			sdk = rec.IsSDKBased()
		}
	}

	grade := quality.Quality(variant, sdk, opts.usage, opts.responsiveness)

	table := ui.NewKeyValueTable(cmd.OutOrStdout(), root.noColor)
	table.AddRow("Variant", variant)
	table.AddRow("Maintainer", quality.Maintainer(variant))
	table.AddRow("SDK based", fmt.Sprint(sdk))
	table.AddRow("Quality", grade)
	table.Render()
	return nil
}
