package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Source kinds.
const (
	SourceFile = "file"
	SourceHTTP = "http"
	SourceSSH  = "ssh"
)

// Payload encodings. Auto picks by file extension or content type.
const (
	EncodingAuto = "auto"
	EncodingJSON = "json"
	EncodingYAML = "yaml"
)

// Config represents the complete .gapview.yaml configuration file.
type Config struct {
	Version int            `yaml:"version" mapstructure:"version"`
	Source  SourceConfig   `yaml:"source" mapstructure:"source"`
	Chart   ChartConfig    `yaml:"chart" mapstructure:"chart"`
	Format  FormatConfig   `yaml:"format" mapstructure:"format"`
	Output  OutputConfig   `yaml:"output" mapstructure:"output"`
	Clients []ClientConfig `yaml:"clients" mapstructure:"clients"`
}

// SourceConfig says where the monitoring payload comes from.
type SourceConfig struct {
	// Kind is "file", "http" or "ssh".
	Kind string `yaml:"kind" mapstructure:"kind"`

	// Path is a local payload file (kind: file). Supports ~ and ${HOME}.
	Path string `yaml:"path" mapstructure:"path"`

	// URL is fetched with GET (kind: http).
	URL string `yaml:"url" mapstructure:"url"`

	// Host is an SSH alias, hostname or user@host (kind: ssh).
	Host string `yaml:"host" mapstructure:"host"`

	// Command runs on Host and must print the payload on stdout.
	Command string `yaml:"command" mapstructure:"command"`

	// Encoding is "auto", "json" or "yaml".
	Encoding string `yaml:"encoding" mapstructure:"encoding"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Watch reloads a file source when it changes on disk.
	Watch bool `yaml:"watch" mapstructure:"watch"`

	// Refresh re-fetches http and ssh sources on an interval. Zero disables.
	Refresh time.Duration `yaml:"refresh" mapstructure:"refresh"`
}

// ChartConfig tunes gap compression, windowing and redraw scheduling.
type ChartConfig struct {
	// GapThresholdMinutes is the idle time after which two samples are
	// treated as a gap. The payload's options override it when present.
	GapThresholdMinutes float64 `yaml:"gap_threshold_minutes" mapstructure:"gap_threshold_minutes"`

	// GapBudgetUnits is the width, in gap-widths, given to real data.
	GapBudgetUnits int `yaml:"gap_budget_units" mapstructure:"gap_budget_units"`

	// Durations are the window presets cycled with 'd'.
	Durations []time.Duration `yaml:"durations" mapstructure:"durations"`

	// DefaultDuration is the window shown on start.
	DefaultDuration time.Duration `yaml:"default_duration" mapstructure:"default_duration"`

	ScrollThrottle time.Duration `yaml:"scroll_throttle" mapstructure:"scroll_throttle"`
	ResizeDebounce time.Duration `yaml:"resize_debounce" mapstructure:"resize_debounce"`
}

// FormatConfig holds the default value and date formats.
type FormatConfig struct {
	// Value is the tooltip number format, e.g. "{.2f}" or "{e3.1f} ms".
	Value string `yaml:"value" mapstructure:"value"`

	// YAxis is the number format for y-axis ticks. "{}" uses K/M/B labels.
	YAxis string `yaml:"y_axis" mapstructure:"y_axis"`

	// Date layouts use Go reference time syntax.
	DateLong  string `yaml:"date_long" mapstructure:"date_long"`
	DateShort string `yaml:"date_short" mapstructure:"date_short"`
	DateTick  string `yaml:"date_tick" mapstructure:"date_tick"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// ClientConfig remembers per-client preferences.
type ClientConfig struct {
	// ID is the client identity as it appears in the payload.
	ID string `yaml:"id" mapstructure:"id"`

	// Keys are the metric keys active when the dashboard opens.
	Keys []string `yaml:"keys" mapstructure:"keys"`
}

// ClientKeys returns the configured initial keys for client id.
func (c *Config) ClientKeys(id string) []string {
	for _, cl := range c.Clients {
		if cl.ID == id {
			return cl.Keys
		}
	}
	return nil
}

// GapThresholdSeconds converts the configured threshold to seconds.
func (c ChartConfig) GapThresholdSeconds() float64 {
	return c.GapThresholdMinutes * 60
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Source: SourceConfig{
			Kind:     SourceFile,
			Encoding: EncodingAuto,
			Timeout:  10 * time.Second,
		},
		Chart: ChartConfig{
			GapThresholdMinutes: 30,
			GapBudgetUnits:      30,
			Durations:           []time.Duration{3 * time.Hour, 24 * time.Hour, 120 * time.Hour},
			DefaultDuration:     3 * time.Hour,
			ScrollThrottle:      10 * time.Millisecond,
			ResizeDebounce:      500 * time.Millisecond,
		},
		Format: FormatConfig{
			Value:     "{.2f}",
			YAxis:     "{}",
			DateLong:  time.RFC3339,
			DateShort: "Jan 02 15:04",
			DateTick:  "01/02 15:04",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
