package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/format"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/internal/source"
	"github.com/rileyhilliard/gapview/internal/ui"
)

// fetchPayload fetches one payload from the configured source, showing a
// spinner on stderr while it runs.
func fetchPayload(ctx context.Context, cfg *config.Config) (*source.Payload, error) {
	src, err := source.New(cfg.Source, logger.NewEnvLogger("[source]"))
	if err != nil {
		return nil, err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	return fetchWithSpinner(ctx, src, cfg.Source.Timeout, os.Stderr, isTerminal(os.Stderr))
}

func fetchWithSpinner(ctx context.Context, src source.Source, timeout time.Duration, w io.Writer, animated bool) (*source.Payload, error) {
	var p *source.Payload
	spin := ui.NewSpinner("Fetching from "+src.Describe(), w, animated)
	err := spin.Run(func() error {
		var err error
		p, err = source.FetchWithTimeout(ctx, src, timeout)
		return err
	})
	return p, err
}

// datesFor builds the date layouts from cfg in local time.
func datesFor(cfg *config.Config) format.Dates {
	return format.Dates{
		Long:     cfg.Format.DateLong,
		Short:    cfg.Format.DateShort,
		Tick:     cfg.Format.DateTick,
		Location: time.Local,
	}
}
