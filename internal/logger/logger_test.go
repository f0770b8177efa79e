package logger

import (
	"bytes"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{name: "logs when GAPVIEW_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs for any value", envValue: "true", expectLog: true},
		{name: "silent when unset", envValue: "", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdLog(t)
			t.Setenv(DebugEnv, tt.envValue)

			l := NewEnvLogger("[source]")
			l.Debug("fetched %d keys", 3)

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[source] fetched 3 keys")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(Logger)
		want string
	}{
		{name: "info", log: func(l Logger) { l.Info("loaded %d clients", 2) }, want: "[cli] loaded 2 clients"},
		{name: "warn", log: func(l Logger) { l.Warn("slow fetch") }, want: "[cli] WARN: slow fetch"},
		{name: "error", log: func(l Logger) { l.Error("decode failed") }, want: "[cli] ERROR: decode failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdLog(t)
			tt.log(NewEnvLogger("[cli]"))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestEnvLogger_NoPrefix(t *testing.T) {
	buf := captureStdLog(t)
	NewEnvLogger("").Info("plain")
	assert.Contains(t, buf.String(), " plain")
	assert.NotContains(t, buf.String(), "  plain")
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	std := captureStdLog(t)
	t.Setenv(DebugEnv, "1")

	l := NewWriterLogger(&buf, "[monitor]")
	l.Debug("discarded stale generation %d", 4)

	assert.Contains(t, buf.String(), "[monitor] discarded stale generation 4")
	assert.Empty(t, std.String(), "writer logger must not touch the standard logger")
}

func TestNoopLogger(t *testing.T) {
	buf := captureStdLog(t)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String())
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, l.Messages[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, l.Messages[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])

	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("error", "error"))
	assert.False(t, l.Contains("info", "error"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("debug"))
}

func TestBufferLogger_Concurrent(t *testing.T) {
	l := NewBufferLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Debug("event %d", i)
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.Messages, 20)
}

func TestDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Same(t, buf, Default())
}
