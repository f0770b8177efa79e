package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	defer completionCmd.SetOut(nil)

	require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
	return buf.String()
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"# bash completion for gapview", "__gapview_debug"}},
		{"zsh", []string{"#compdef gapview", "_gapview()"}},
		{"fish", []string{"fish completion for gapview", "complete -c gapview"}},
		{"powershell", []string{"Register-ArgumentCompleter"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			output := runCompletion(t, tt.shell)
			for _, want := range tt.want {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestCompletion_UnknownShell(t *testing.T) {
	err := completionCmd.RunE(completionCmd, []string{"tcsh"})
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "unknown shell")
}
