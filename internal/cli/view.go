package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/internal/monitor"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/spf13/cobra"
)

// debugLogFile receives dashboard logs when GAPVIEW_DEBUG is set, since
// the alternate screen owns the terminal.
const debugLogFile = "gapview-debug.log"

var (
	viewWatch   bool
	viewRefresh time.Duration
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive chart dashboard",
	Long: `Open the chart dashboard for the configured source.

Keys:
  tab / shift+tab   switch client
  left / right      scroll back and forward
  pgup / pgdn       scroll by a page
  h / l             move the hand one sample
  d                 cycle the window duration
  1-9, [ ] space    toggle metric keys
  w                 save the active keys to the config
  r                 refresh now
  drag              zoom to a range (z, esc or right-click resets)
  ?                 full help
  q                 quit

Examples:
  gapview view
  gapview view --file ./payload.json --watch
  gapview view --url http://monitor:8080/payload --refresh 30s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return viewCommand()
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewWatch, "watch", false, "reload a file source when it changes")
	viewCmd.Flags().DurationVar(&viewRefresh, "refresh", 0, "re-fetch the source on this interval (e.g. 30s)")
}

func viewCommand() error {
	if !isTerminal(os.Stdout) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs a terminal",
			"Use 'gapview status' or 'gapview gaps' when piping output.")
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	if viewWatch {
		cfg.Source.Watch = true
	}
	if viewRefresh > 0 {
		cfg.Source.Refresh = viewRefresh
	}

	log := logger.Noop()
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "gapview")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open the debug log",
				fmt.Sprintf("Check that %s is writable.", debugLogFile))
		}
		defer f.Close()
		log = logger.NewWriterLogger(f, "[monitor]")
		logger.SetDefault(log)
	}

	src, err := source.New(cfg.Source, log)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	model := monitor.NewModel(monitor.Options{
		Source:     src,
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"The dashboard stopped unexpectedly",
			"Run with --verbose and check "+debugLogFile+".")
	}
	return nil
}
