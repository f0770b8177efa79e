package cli

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/format"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/rileyhilliard/gapview/internal/ui"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [client...]",
	Short: "Show the latest status of every client",
	Long: `Fetch the payload once and print each client's worst status.

The exit code follows the worst status across the listed clients:
  0  all normal (or no status at all)
  1  at least one warning
  2  at least one fatal

Examples:
  gapview status
  gapview status --json
  gapview status web-1 && echo healthy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := fetchPayload(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return runStatus(cmd.OutOrStdout(), p, cfg, args, statusJSON, time.Now())
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print machine-readable JSON")
}

// keyReport is the JSON shape of one key's latest reading.
type keyReport struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
	Status    string  `json:"status"`
	Code      int     `json:"code"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// clientReport is the JSON shape of one client.
type clientReport struct {
	ID     string      `json:"id"`
	Alias  string      `json:"alias,omitempty"`
	Status string      `json:"status"`
	Code   int         `json:"code"`
	Keys   []keyReport `json:"keys"`
}

type statusReport struct {
	Status  string         `json:"status"`
	Code    int            `json:"code"`
	Clients []clientReport `json:"clients"`
}

func buildStatusReport(p *source.Payload, cfg *config.Config, ids []string) (statusReport, error) {
	clients, err := resolveClients(p, ids)
	if err != nil {
		return statusReport{}, err
	}

	report := statusReport{Code: source.StatusUnknown, Clients: []clientReport{}}
	for _, id := range clients {
		cr := clientReport{ID: id, Code: p.ClientStatus(id), Keys: []keyReport{}}
		if alias := p.Alias(id); alias != id {
			cr.Alias = alias
		}
		cr.Status = source.StatusName(cr.Code)
		for _, key := range p.Keys(id) {
			st := p.KeyStatus(id, key)
			cr.Keys = append(cr.Keys, keyReport{
				Key:       key,
				Value:     st.Value,
				Formatted: format.Value(p.Format(key, cfg.Format.Value), st.Value),
				Status:    source.StatusName(st.Status),
				Code:      st.Status,
				Timestamp: st.Timestamp,
			})
		}
		report.Code = max(report.Code, cr.Code)
		report.Clients = append(report.Clients, cr)
	}
	report.Status = source.StatusName(report.Code)
	return report, nil
}

// worstKey returns the first key with the client's worst status.
func (c clientReport) worstKey() (keyReport, bool) {
	for _, k := range c.Keys {
		if k.Code == c.Code {
			return k, true
		}
	}
	return keyReport{}, false
}

// levelFor maps a status code to a ui level.
func levelFor(code int) string {
	switch {
	case code < chart.StatusNormal:
		return ui.LevelUnknown
	case code >= chart.StatusFatal:
		return ui.LevelFail
	case code >= chart.StatusWarning:
		return ui.LevelWarn
	}
	return ui.LevelOK
}

// exitCodeFor maps the worst status to the process exit code.
func exitCodeFor(code int) int {
	switch {
	case code >= chart.StatusFatal:
		return 2
	case code >= chart.StatusWarning:
		return 1
	}
	return 0
}

func runStatus(w io.Writer, p *source.Payload, cfg *config.Config, ids []string, asJSON bool, now time.Time) error {
	report, err := buildStatusReport(p, cfg, ids)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDecode, "Couldn't encode the status report", "")
		}
		fmt.Fprintln(w, string(out))
	} else {
		rows := make([]ui.StatusTableRow, 0, len(report.Clients))
		for _, c := range report.Clients {
			row := ui.StatusTableRow{Level: levelFor(c.Code), Client: c.ID, Alias: c.Alias}
			if k, ok := c.worstKey(); ok {
				row.Key = k.Key
				row.Value = k.Formatted
				if k.Timestamp > 0 {
					row.Updated = format.Ago(float64(k.Timestamp), now)
				}
			}
			rows = append(rows, row)
		}
		fmt.Fprintln(w, ui.RenderStatusTable(rows))
	}

	if code := exitCodeFor(report.Code); code != 0 {
		return errors.NewExitError(code)
	}
	return nil
}
