package source

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wire is the payload as the backend sends it. Series and status entries
// stay undecoded (R) so one bad entry can be dropped on its own.
type wire[R any] struct {
	Data    map[string]map[string]R `json:"clientMonitorData" yaml:"clientMonitorData"`
	Status  map[string]map[string]R `json:"clientMonitorStatus" yaml:"clientMonitorStatus"`
	Aliases map[string]string       `json:"clientAliases" yaml:"clientAliases"`
	Options struct {
		GapThresholdTime *float64         `json:"gapThresholdTime" yaml:"gapThresholdTime"`
		Format           map[string]string `json:"format" yaml:"format"`
		Durations        []string          `json:"durations" yaml:"durations"`
	} `json:"options" yaml:"options"`

	// Older backends flatten the threshold into a dotted top-level key.
	FlatGapThreshold *float64 `json:"options.gapThresholdTime" yaml:"options.gapThresholdTime"`
}

type wireSample struct {
	Timestamp int64    `json:"Timestamp" yaml:"Timestamp"`
	Value     *float64 `json:"Value" yaml:"Value"`
}

// Decode parses a payload. encoding is one of the config encodings; with
// "auto" the hint (a file path or content type) and then the first byte
// decide. Malformed series and status entries are logged at debug and
// replaced by empty ones.
func Decode(data []byte, encoding, hint string, log logger.Logger) (*Payload, error) {
	if log == nil {
		log = logger.Noop()
	}

	switch resolveEncoding(data, encoding, hint) {
	case config.EncodingYAML:
		var w wire[yaml.Node]
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, decodeError(err, "YAML", hint)
		}
		return build(w, func(n yaml.Node, v any) error { return n.Decode(v) }, log), nil
	default:
		var w wire[jsoniter.RawMessage]
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, decodeError(err, "JSON", hint)
		}
		return build(w, func(r jsoniter.RawMessage, v any) error { return json.Unmarshal(r, v) }, log), nil
	}
}

func decodeError(err error, kind, hint string) error {
	where := "the payload"
	if hint != "" {
		where = hint
	}
	return errors.WrapWithCode(err, errors.ErrDecode,
		fmt.Sprintf("Couldn't parse %s as %s", where, kind),
		"Check source.encoding matches what the backend sends.")
}

// resolveEncoding picks json or yaml.
func resolveEncoding(data []byte, encoding, hint string) string {
	switch encoding {
	case config.EncodingJSON, config.EncodingYAML:
		return encoding
	}

	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, "yaml"), filepath.Ext(lower) == ".yml":
		return config.EncodingYAML
	case strings.Contains(lower, "json"):
		return config.EncodingJSON
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return config.EncodingJSON
	}
	return config.EncodingYAML
}

func build[R any](w wire[R], decode func(R, any) error, log logger.Logger) *Payload {
	p := &Payload{
		Data:    make(map[string]chart.RawSeries, len(w.Data)),
		Status:  make(map[string]map[string]chart.Status, len(w.Status)),
		Aliases: w.Aliases,
	}
	if p.Aliases == nil {
		p.Aliases = map[string]string{}
	}

	for client, keys := range w.Data {
		raw := make(chart.RawSeries, len(keys))
		for key, entry := range keys {
			var samples []wireSample
			if err := decode(entry, &samples); err != nil {
				log.Debug("dropping malformed series %s/%s: %v", client, key, err)
				raw[key] = chart.Series{}
				continue
			}
			raw[key] = toSeries(samples)
		}
		p.Data[client] = raw
	}

	for client, keys := range w.Status {
		latest := make(map[string]chart.Status, len(keys))
		for key, entry := range keys {
			var st chart.Status
			if err := decode(entry, &st); err != nil {
				log.Debug("dropping malformed status %s/%s: %v", client, key, err)
				continue
			}
			latest[key] = st
		}
		p.Status[client] = latest
	}

	p.Options.GapThresholdMinutes = w.Options.GapThresholdTime
	if p.Options.GapThresholdMinutes == nil {
		p.Options.GapThresholdMinutes = w.FlatGapThreshold
	}
	p.Options.Formats = w.Options.Format
	for _, s := range w.Options.Durations {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			log.Debug("ignoring window preset %q", s)
			continue
		}
		p.Options.Durations = append(p.Options.Durations, d)
	}

	return p
}

// toSeries drops samples with no value and orders the rest by timestamp.
func toSeries(samples []wireSample) chart.Series {
	series := make(chart.Series, 0, len(samples))
	for _, s := range samples {
		if s.Value == nil || math.IsInf(*s.Value, 0) {
			continue
		}
		series = append(series, chart.Sample{Timestamp: s.Timestamp, Value: *s.Value})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Timestamp < series[j].Timestamp })
	return series
}
