package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
	srcFlag sourceFlags
)

// sourceFlags override source.* from the config for one invocation.
type sourceFlags struct {
	File    string
	URL     string
	Host    string
	Command string
}

// apply points src at whichever source the flags name. --file wins over
// --url, which wins over --host.
func (f sourceFlags) apply(src *config.SourceConfig) {
	switch {
	case f.File != "":
		src.Kind = config.SourceFile
		src.Path = config.ExpandTilde(f.File)
	case f.URL != "":
		src.Kind = config.SourceHTTP
		src.URL = f.URL
	case f.Host != "":
		src.Kind = config.SourceSSH
		src.Host = f.Host
	}
	if f.Command != "" {
		src.Command = f.Command
	}
}

var rootCmd = &cobra.Command{
	Use:   "gapview",
	Short: "Terminal charts for monitoring data with gaps",
	Long: `gapview charts per-client metric history in the terminal.

Idle stretches in the data are squeezed to a fixed width, so a client
that reported for an hour, went quiet for a week, then reported again
still fills the screen with samples.

Running gapview with no command opens the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logger.DebugEnv, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return viewCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .gapview.yaml, searched upwards)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (same as GAPVIEW_DEBUG=1)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&srcFlag.File, "file", "", "read the payload from this file")
	rootCmd.PersistentFlags().StringVar(&srcFlag.URL, "url", "", "fetch the payload from this URL")
	rootCmd.PersistentFlags().StringVar(&srcFlag.Host, "host", "", "run the payload command on this SSH host")
	rootCmd.PersistentFlags().StringVar(&srcFlag.Command, "command", "", "command that prints the payload (with --host)")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command and exits with its status.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}
	if isUnknownCommandError(err) {
		err = errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a gapview command", extractUnknownCommand(err)),
			"Run 'gapview --help' to see the available commands.")
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// loadConfig finds and loads the config, applies the source flags on top
// and validates the result. path is empty when defaults are in use.
func loadConfig() (cfg *config.Config, path string, err error) {
	cfg, path, err = config.LoadOrDefault(Config())
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		logger.Default().Debug("no %s found, using defaults", config.ConfigFileName)
	} else {
		logger.Default().Debug("loaded config from %s", path)
	}
	srcFlag.apply(&cfg.Source)
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	applyColorMode(cfg.Output.Color)
	return cfg, path, nil
}

// applyColorMode sets the lipgloss color profile for output.color,
// --no-color and NO_COLOR. "auto" keeps lipgloss's own detection.
func applyColorMode(mode string) {
	if profile, ok := colorProfile(mode, noColor, os.Getenv("NO_COLOR") != ""); ok {
		lipgloss.SetColorProfile(profile)
	}
}

func colorProfile(mode string, flagNoColor, envNoColor bool) (termenv.Profile, bool) {
	switch {
	case flagNoColor || envNoColor || mode == "never":
		return termenv.Ascii, true
	case mode == "always":
		return termenv.ANSI256, true
	}
	return 0, false
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "gapview"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
