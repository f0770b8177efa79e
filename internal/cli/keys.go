package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/rileyhilliard/gapview/internal/ui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var keysSet []string

var keysCmd = &cobra.Command{
	Use:   "keys <client>",
	Short: "Choose which metric keys a client's chart starts with",
	Long: `Pick the keys shown when the dashboard opens on a client and save
them to the clients section of .gapview.yaml.

Without --set a checklist of the client's keys is shown.

Examples:
  gapview keys web-1
  gapview keys web-1 --set cpu,mem`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := fetchPayload(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		id := args[0]
		chosen := keysSet
		if !cmd.Flags().Changed("set") {
			if !isTerminal(os.Stdin) {
				return errors.New(errors.ErrConfig,
					"Picking keys needs a terminal",
					"Pass the keys with --set instead.")
			}
			chosen, err = pickKeys(p, cfg, id)
			if err != nil {
				return err
			}
		}
		return saveKeys(cmd.OutOrStdout(), p, configPathOrDefault(cfgPath), id, chosen)
	},
}

func init() {
	keysCmd.Flags().StringSliceVar(&keysSet, "set", nil, "comma-separated keys to save without prompting")
}

// configPathOrDefault returns path, or .gapview.yaml in the working
// directory when no config was found.
func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(".", config.ConfigFileName)
}

func pickKeys(p *source.Payload, cfg *config.Config, id string) ([]string, error) {
	if _, err := resolveClients(p, []string{id}); err != nil {
		return nil, err
	}

	available := p.Keys(id)
	selected := lo.Intersect(cfg.ClientKeys(id), available)

	options := make([]huh.Option[string], len(available))
	for i, key := range available {
		options[i] = huh.NewOption(key, key)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Keys to chart for %s", p.Alias(id))).
				Description(fmt.Sprintf("Up to %d. With none selected the chart starts on the first key.", chart.MaxSeries)).
				Options(options...).
				Limit(chart.MaxSeries).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use --set to pass the keys instead.")
	}
	return selected, nil
}

// saveKeys validates keys against the payload and writes them for id.
func saveKeys(w io.Writer, p *source.Payload, path, id string, keys []string) error {
	if _, err := resolveClients(p, []string{id}); err != nil {
		return err
	}
	available := p.Keys(id)
	if unknown := lo.Without(keys, available...); len(unknown) > 0 {
		return errors.Newf(errors.ErrConfig,
			"Keys reported by "+id+": "+strings.Join(available, ", "),
			"Client '%s' has no key '%s'", id, unknown[0])
	}
	if len(keys) > chart.MaxSeries {
		return errors.Newf(errors.ErrConfig,
			"Pick fewer keys.",
			"At most %d keys can be charted at once", chart.MaxSeries)
	}

	if err := config.SetClientKeys(path, id, keys); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't save keys to %s", path),
			"Check that the file is writable.")
	}
	fmt.Fprintf(w, "%s Saved %d keys for %s to %s\n", ui.SymbolSuccess, len(keys), id, path)
	return nil
}
