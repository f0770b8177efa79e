package source

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/gapview/internal/logger"
	"github.com/rileyhilliard/gapview/pkg/sshutil"
)

// SSH runs Command on Host and decodes its stdout. The connection is kept
// open between fetches and redialled after a failure.
type SSH struct {
	Host     string
	Command  string
	Encoding string
	Dial     sshutil.Dialer
	Log      logger.Logger

	mu     sync.Mutex
	runner sshutil.Runner
}

// Fetch runs the command and decodes its output.
func (s *SSH) Fetch(ctx context.Context) (*Payload, error) {
	start := time.Now()
	runner, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	out, err := runner.Exec(ctx, s.Command)
	if err != nil {
		s.drop(runner)
		return nil, err
	}

	p, err := Decode(out, s.Encoding, "", s.Log)
	if err != nil {
		return nil, err
	}
	if s.Log != nil {
		s.Log.Debug("ran %q on %s (%d bytes) in %s", s.Command, s.Host, len(out), time.Since(start))
	}
	return p, nil
}

// Describe returns host and command.
func (s *SSH) Describe() string {
	return s.Host + ": " + s.Command
}

// Close closes the cached connection.
func (s *SSH) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == nil {
		return nil
	}
	err := s.runner.Close()
	s.runner = nil
	return err
}

func (s *SSH) connect(ctx context.Context) (sshutil.Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner != nil {
		return s.runner, nil
	}
	dial := s.Dial
	if dial == nil {
		dial = sshutil.DialRunner
	}
	r, err := dial(ctx, s.Host)
	if err != nil {
		return nil, err
	}
	s.runner = r
	return r, nil
}

func (s *SSH) drop(r sshutil.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == r {
		r.Close()
		s.runner = nil
	}
}
