package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetClientKeys(t *testing.T) {
	tests := []struct {
		name        string
		initialYAML string
		clientID    string
		keys        []string
		wantKeys    map[string][]string
		wantErr     bool
	}{
		{
			name:        "adds clients list when missing",
			initialYAML: "version: 1\nsource:\n  kind: file\n  path: graph.json\n",
			clientID:    "web-1",
			keys:        []string{"cpu", "mem"},
			wantKeys:    map[string][]string{"web-1": {"cpu", "mem"}},
		},
		{
			name: "replaces keys for existing client",
			initialYAML: `version: 1
clients:
  - id: web-1
    keys: [cpu]
  - id: web-2
    keys: [disk]
`,
			clientID: "web-1",
			keys:     []string{"load"},
			wantKeys: map[string][]string{"web-1": {"load"}, "web-2": {"disk"}},
		},
		{
			name: "appends new client",
			initialYAML: `version: 1
clients:
  - id: web-1
    keys: [cpu]
`,
			clientID: "db",
			keys:     []string{"qps"},
			wantKeys: map[string][]string{"web-1": {"cpu"}, "db": {"qps"}},
		},
		{
			name:        "empty file",
			initialYAML: "",
			clientID:    "web-1",
			keys:        []string{"cpu"},
			wantKeys:    map[string][]string{"web-1": {"cpu"}},
		},
		{
			name:        "clients is not a list",
			initialYAML: "clients:\n  web-1: [cpu]\n",
			clientID:    "web-1",
			keys:        []string{"cpu"},
			wantErr:     true,
		},
		{
			name:        "invalid yaml",
			initialYAML: "clients: [\n",
			clientID:    "web-1",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.initialYAML), 0644))

			err := SetClientKeys(path, tt.clientID, tt.keys)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			cfg, err := Load(path)
			require.NoError(t, err)
			for id, keys := range tt.wantKeys {
				assert.Equal(t, keys, cfg.ClientKeys(id), "client %s", id)
			}
		})
	}
}

func TestSetClientKeys_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	initial := "# monitoring dashboard\nversion: 1\nchart:\n  gap_threshold_minutes: 15 # quiet nights\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0644))

	require.NoError(t, SetClientKeys(path, "web-1", []string{"cpu"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# monitoring dashboard")
	assert.Contains(t, string(data), "# quiet nights")
	assert.Contains(t, string(data), "web-1")
}

func TestSetClientKeys_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	require.NoError(t, SetClientKeys(path, "web-1", []string{"cpu", "mem"}))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu", "mem"}, cfg.ClientKeys("web-1"))
}
