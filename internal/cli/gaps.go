package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/gapview/internal/chart"
	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/format"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/rileyhilliard/gapview/internal/ui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps [client...]",
	Short: "List the idle stretches the chart compresses",
	Long: `List every gap longer than the gap threshold, per client.

Each gap is drawn at the same width on the chart no matter how long it
lasted. The Width column shows that share of the x-axis.

Examples:
  gapview gaps
  gapview gaps web-1 db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := fetchPayload(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return writeGapReport(cmd.OutOrStdout(), p, cfg, args, datesFor(cfg))
	},
}

// gapSpan is one idle stretch as the user sees it. Merge marks a gap with
// a midpoint row, so the scale can see it as two touching pieces.
type gapSpan struct {
	Left, Right float64
	Pieces      int
}

// coalesceGaps joins gaps that share an edge.
func coalesceGaps(gaps []chart.Gap) []gapSpan {
	var spans []gapSpan
	for _, g := range gaps {
		if n := len(spans); n > 0 && spans[n-1].Right == g.Left {
			spans[n-1].Right = g.Right
			spans[n-1].Pieces++
			continue
		}
		spans = append(spans, gapSpan{Left: g.Left, Right: g.Right, Pieces: 1})
	}
	return spans
}

// resolveClients returns ids, or every client in p when ids is empty.
// Unknown ids are an error naming the known ones.
func resolveClients(p *source.Payload, ids []string) ([]string, error) {
	known := p.Clients()
	if len(ids) == 0 {
		return known, nil
	}
	if missing := lo.Without(ids, known...); len(missing) > 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown client '%s'", missing[0]),
			"Clients in this payload: "+strings.Join(known, ", "))
	}
	return ids, nil
}

func writeGapReport(w io.Writer, p *source.Payload, cfg *config.Config, ids []string, dates format.Dates) error {
	clients, err := resolveClients(p, ids)
	if err != nil {
		return err
	}

	threshold := p.GapThresholdSeconds(cfg.Chart.GapThresholdSeconds())
	var rows [][]string
	for _, id := range clients {
		d := chart.Merge(p.Raw(id), p.Latest(id), threshold)
		scale := chart.BuildGapScale(d, threshold, cfg.Chart.GapBudgetUnits)
		for _, g := range coalesceGaps(scale.Gaps()) {
			rows = append(rows, []string{
				p.Alias(id),
				dates.ShortDate(g.Left),
				dates.ShortDate(g.Right),
				format.Span(g.Right - g.Left),
				fmt.Sprintf("%.1f%%", scale.GapWidth()*float64(g.Pieces)*100),
			})
		}
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "No gaps longer than %s\n", format.Span(threshold))
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "Client", Width: 16},
		{Title: "From", Width: 14},
		{Title: "To", Width: 14},
		{Title: "Idle", Width: 12},
		{Title: "Width", Width: 7},
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}
