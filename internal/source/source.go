// Package source loads monitoring payloads from a file, an HTTP endpoint
// or a command run over SSH.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/gapview/internal/config"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/pkg/sshutil"
)

// Source fetches the current payload.
type Source interface {
	Fetch(ctx context.Context) (*Payload, error)
	// Describe names where payloads come from, for status lines.
	Describe() string
}

// Watcher is implemented by sources that can push change notifications.
// The channel closes when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// New builds the Source described by cfg.
func New(cfg config.SourceConfig, log logger.Logger) (Source, error) {
	if log == nil {
		log = logger.Noop()
	}
	switch cfg.Kind {
	case config.SourceFile:
		return &File{Path: cfg.Path, Encoding: cfg.Encoding, Log: log}, nil
	case config.SourceHTTP:
		return NewHTTP(cfg.URL, cfg.Encoding, cfg.Timeout, log), nil
	case config.SourceSSH:
		return &SSH{Host: cfg.Host, Command: cfg.Command, Encoding: cfg.Encoding, Dial: sshutil.DialRunner, Log: log}, nil
	}
	return nil, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown source kind '%s'", cfg.Kind),
		"Use 'file', 'http', or 'ssh' for source.kind.")
}

// FetchWithTimeout bounds a single fetch. A zero timeout leaves ctx as is.
func FetchWithTimeout(ctx context.Context, src Source, timeout time.Duration) (*Payload, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	p, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.FetchedAt = time.Now()
	return p, nil
}
