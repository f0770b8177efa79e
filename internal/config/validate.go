package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/format"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but gapview only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest gapview release.")
	}

	if err := validateSource(cfg.Source); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'source' section in your .gapview.yaml.")
	}

	if err := validateChart(cfg.Chart); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'chart' section in your .gapview.yaml.")
	}

	if err := validateFormat(cfg.Format); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'format' section in your .gapview.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .gapview.yaml.")
	}

	if err := validateClients(cfg.Clients); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'clients' section in your .gapview.yaml.")
	}

	return nil
}

// validateSource checks that the chosen source kind has what it needs.
func validateSource(src SourceConfig) error {
	switch src.Kind {
	case SourceFile:
		if strings.TrimSpace(src.Path) == "" {
			return fmt.Errorf("source.kind is 'file' but source.path is empty - point it at a payload file")
		}
	case SourceHTTP:
		if src.URL == "" {
			return fmt.Errorf("source.kind is 'http' but source.url is empty")
		}
		u, err := url.Parse(src.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("source.url '%s' doesn't look like an http(s) URL", src.URL)
		}
	case SourceSSH:
		if strings.TrimSpace(src.Host) == "" {
			return fmt.Errorf("source.kind is 'ssh' but source.host is empty - use an alias from ~/.ssh/config or user@host")
		}
		if strings.TrimSpace(src.Command) == "" {
			return fmt.Errorf("source.kind is 'ssh' but source.command is empty - it should print the payload, like 'cat /var/lib/monitor/graph.json'")
		}
	default:
		return fmt.Errorf("source.kind '%s' isn't valid - use 'file', 'http', or 'ssh'", src.Kind)
	}

	switch src.Encoding {
	case "", EncodingAuto, EncodingJSON, EncodingYAML:
	default:
		return fmt.Errorf("source.encoding '%s' isn't valid - use 'auto', 'json', or 'yaml'", src.Encoding)
	}

	if src.Timeout < 0 {
		return fmt.Errorf("source.timeout can't be negative")
	}
	if src.Refresh < 0 {
		return fmt.Errorf("source.refresh can't be negative - use 0 to turn polling off")
	}
	if src.Watch && src.Kind != SourceFile {
		return fmt.Errorf("source.watch only works with 'file' sources - use source.refresh to poll %s sources", src.Kind)
	}
	return nil
}

// validateChart checks gap and window settings.
func validateChart(c ChartConfig) error {
	if c.GapThresholdMinutes < 0 {
		return fmt.Errorf("chart.gap_threshold_minutes can't be negative (got %v)", c.GapThresholdMinutes)
	}
	if c.GapBudgetUnits < 0 {
		return fmt.Errorf("chart.gap_budget_units can't be negative (got %d)", c.GapBudgetUnits)
	}
	if len(c.Durations) == 0 {
		return fmt.Errorf("chart.durations needs at least one window, like '3h'")
	}
	for i, d := range c.Durations {
		if d <= 0 {
			return fmt.Errorf("chart.durations entry %d is %v - windows need to be positive", i+1, d)
		}
	}
	if c.DefaultDuration < 0 {
		return fmt.Errorf("chart.default_duration can't be negative")
	}
	if c.ScrollThrottle < 0 || c.ResizeDebounce < 0 {
		return fmt.Errorf("chart.scroll_throttle and chart.resize_debounce can't be negative")
	}
	if c.ScrollThrottle > time.Second {
		return fmt.Errorf("chart.scroll_throttle of %v would make scrolling feel stuck - keep it under 1s", c.ScrollThrottle)
	}
	return nil
}

// validateFormat checks the number format specs parse.
func validateFormat(f FormatConfig) error {
	if _, err := format.ParseNumber(f.Value); err != nil {
		return fmt.Errorf("format.value: %w", err)
	}
	if _, err := format.ParseNumber(f.YAxis); err != nil {
		return fmt.Errorf("format.y_axis: %w", err)
	}
	return nil
}

// validateOutput checks output configuration.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}

// validateClients checks per-client preferences.
func validateClients(clients []ClientConfig) error {
	seen := make(map[string]bool, len(clients))
	for i, c := range clients {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("clients entry %d has no id", i+1)
		}
		if seen[c.ID] {
			return fmt.Errorf("client '%s' is listed twice", c.ID)
		}
		seen[c.ID] = true
		for _, k := range c.Keys {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("client '%s' has an empty key - remove it", c.ID)
			}
		}
	}
	return nil
}
