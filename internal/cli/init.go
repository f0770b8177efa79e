package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/rileyhilliard/gapview/internal/ui"
	"github.com/rileyhilliard/gapview/pkg/sshutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string      // Directory to write .gapview.yaml into
	Source         sourceFlags // Pre-specified source
	Overwrite      bool        // Overwrite existing config without asking
	NonInteractive bool        // Skip prompts, use flags
	SkipCheck      bool        // Don't test-fetch before saving
}

var (
	initForce          bool
	initNonInteractive bool
	initSkipCheck      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .gapview.yaml in the current directory",
	Long: `Create a .gapview.yaml that says where the monitoring payload comes from.

Interactively you pick a local file, an HTTP endpoint, or a command run
over SSH (hosts from ~/.ssh/config are offered). The source is fetched
once before saving.

Examples:
  gapview init
  gapview init --non-interactive --file ./payload.json
  gapview init --non-interactive --host monitor --command 'cat /var/lib/mon/payload.json'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), cmd.OutOrStdout(), InitOptions{
			Dir:            ".",
			Source:         srcFlag,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			SkipCheck:      initSkipCheck,
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "don't prompt; take the source from --file, --url or --host")
	initCmd.Flags().BoolVar(&initSkipCheck, "skip-check", false, "save without test-fetching the source")
}

// Init writes a new .gapview.yaml.
func Init(ctx context.Context, out io.Writer, opts InitOptions) error {
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.NonInteractive {
		if opts.Source == (sourceFlags{}) {
			return errors.New(errors.ErrConfig,
				"A source is required in non-interactive mode",
				"Provide --file, --url, or --host with --command")
		}
		opts.Source.apply(&cfg.Source)
	} else {
		cancelled, err := promptSource(&cfg.Source, opts.Source)
		if err != nil {
			return err
		}
		if cancelled {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.SkipCheck {
		if err := checkSource(ctx, out, cfg, opts); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# gapview configuration
# Run 'gapview' to open the dashboard, 'gapview status' for a summary

`
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  gapview          - Open the dashboard")
	fmt.Fprintln(out, "  gapview status   - Latest status per client")
	fmt.Fprintln(out, "  gapview gaps     - List the idle stretches")
	return nil
}

// checkSource fetches once. Interactively a failure asks whether to save
// anyway.
func checkSource(ctx context.Context, out io.Writer, cfg *config.Config, opts InitOptions) error {
	src, err := source.New(cfg.Source, logger.NewEnvLogger("[source]"))
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	animated := !opts.NonInteractive && isTerminal(os.Stdout)
	p, fetchErr := fetchWithSpinner(ctx, src, cfg.Source.Timeout, out, animated)
	if fetchErr == nil {
		fmt.Fprintf(out, "  %d clients, worst status %s\n\n", len(p.Clients()), source.StatusName(p.WorstStatus()))
		return nil
	}

	if opts.NonInteractive {
		return fetchErr
	}

	fmt.Fprintf(out, "\n%s Couldn't fetch from %s\n\n", ui.SymbolFail, src.Describe())
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the source later)").
				Value(&saveAnyway),
		),
	)
	if err := form.Run(); err != nil || !saveAnyway {
		return fetchErr
	}
	return nil
}

// promptSource asks where the payload comes from, starting from the
// values in prefill.
func promptSource(src *config.SourceConfig, prefill sourceFlags) (cancelled bool, err error) {
	prefill.apply(src)

	kind := src.Kind
	refresh := src.Refresh.String()
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where does the monitoring payload come from?").
				Options(
					huh.NewOption("A local file", config.SourceFile),
					huh.NewOption("An HTTP endpoint", config.SourceHTTP),
					huh.NewOption("A command run over SSH", config.SourceSSH),
				).
				Value(&kind),
		),
	)
	if err := form.Run(); err != nil {
		return false, inputError(err)
	}
	src.Kind = kind

	switch kind {
	case config.SourceFile:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Payload file").
					Description("JSON or YAML; relative paths are resolved from the config's directory").
					Placeholder("./payload.json").
					Value(&src.Path).
					Validate(required("payload file")),
				huh.NewConfirm().
					Title("Reload when the file changes?").
					Value(&src.Watch),
			),
		)
	case config.SourceHTTP:
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Payload URL").
					Placeholder("http://monitor:8080/payload.json").
					Value(&src.URL).
					Validate(required("URL")),
				huh.NewInput().
					Title("Refresh interval").
					Description("How often the dashboard re-fetches; 0s turns it off").
					Value(&refresh).
					Validate(validDuration),
			),
		)
	case config.SourceSSH:
		if src.Host == "" {
			host, cancelled, err := pickHost()
			if err != nil || cancelled {
				return cancelled, err
			}
			src.Host = host
		}
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("SSH host or alias").
					Description("Enter hostname, user@host, or SSH config alias").
					Value(&src.Host).
					Validate(required("SSH host")),
				huh.NewInput().
					Title("Payload command").
					Description("Runs on the host and prints the payload (supports ${USER}, ${HOME})").
					Placeholder("cat ~/monitor/payload.json").
					Value(&src.Command).
					Validate(required("command")),
			),
		)
	}

	if err := form.Run(); err != nil {
		return false, inputError(err)
	}
	if kind == config.SourceHTTP {
		src.Refresh, _ = time.ParseDuration(refresh)
	}
	src.Path = config.ExpandTilde(strings.TrimSpace(src.Path))
	return false, nil
}

// pickHost offers the ~/.ssh/config aliases. An empty host means the user
// wants to type one.
func pickHost() (host string, cancelled bool, err error) {
	hosts, err := sshutil.ListHosts()
	if err != nil || len(hosts) == 0 {
		return "", false, nil
	}
	picked, cancelled, err := ui.PickSSHHost(hosts)
	if err != nil {
		return "", false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to show the host picker",
			"Use --host to name the host instead")
	}
	if picked == nil {
		return "", cancelled, nil
	}
	return picked.Alias, false, nil
}

func inputError(err error) error {
	return errors.WrapWithCode(err, errors.ErrConfig,
		"Failed to get user input",
		"Check terminal compatibility or use --non-interactive flag")
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validDuration(s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("use a duration like 30s or 5m")
	}
	return nil
}
