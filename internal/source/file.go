package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/rileyhilliard/gapview/internal/logger"
)

// watchSettle coalesces the burst of events an editor or an atomic
// rename produces into one notification.
const watchSettle = 100 * time.Millisecond

// File reads the payload from a local file.
type File struct {
	Path     string
	Encoding string
	Log      logger.Logger
}

// Fetch reads and decodes the file.
func (f *File) Fetch(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrSource,
				fmt.Sprintf("Payload file %s doesn't exist", f.Path),
				"Check source.path in your .gapview.yaml.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Couldn't read %s", f.Path),
			"Check the file permissions.")
	}
	p, err := Decode(data, f.Encoding, f.Path, f.Log)
	if err != nil {
		return nil, err
	}
	f.log().Debug("read %s (%d bytes) in %s", f.Path, len(data), time.Since(start))
	return p, nil
}

// Describe returns the file path.
func (f *File) Describe() string {
	return f.Path
}

// Watch signals whenever the file is written, created or replaced. The
// parent directory is watched so atomic renames are seen.
func (f *File) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			"Couldn't start the file watcher",
			"Turn off source.watch, or raise the inotify limit.")
	}
	dir := filepath.Dir(f.Path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			fmt.Sprintf("Couldn't watch %s", dir),
			"Check the directory exists.")
	}

	out := make(chan struct{}, 1)
	target := filepath.Clean(f.Path)

	go func() {
		defer close(out)
		defer w.Close()

		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					settle = time.After(watchSettle)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				f.log().Warn("watching %s: %v", f.Path, err)
			case <-settle:
				settle = nil
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}

func (f *File) log() logger.Logger {
	if f.Log == nil {
		return logger.Noop()
	}
	return f.Log
}
