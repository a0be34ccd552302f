package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubkit/hubctl/internal/cache"
	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/plugin"
)

const demoAbout = `{
  "name": "tap-demo",
  "capabilities": ["catalog", "discover"],
  "settings": {
    "type": "object",
    "properties": {
      "api_url": {"type": "string", "description": "The API base URL"},
      "access_token": {"type": "string", "description": "Token used to authenticate"},
      "start_date": {"type": ["string", "null"], "format": "date-time"},
      "page_size": {"type": "integer", "default": 100, "description": "Records per page"}
    },
    "required": ["api_url", "access_token"]
  }
}`

// fakeRunner stands in for pipx and plugin executables.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	if name == "pipx" {
		return nil, nil
	}
	out, ok := f.outputs[name]
	if !ok {
		return nil, errors.New("exit status 127")
	}
	return []byte(out), nil
}

type hubFixture struct {
	root   string
	config string
	store  *catalog.FileStore
	runner *fakeRunner
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()

	root := t.TempDir()
	config := filepath.Join(root, "hubctl.yaml")
	content := fmt.Sprintf(`hub_root: %s
pipx:
  python: /usr/bin/python3
log:
  level: error
history:
  path: .hubctl/history.db
`, root)
	require.NoError(t, os.WriteFile(config, []byte(content), 0644))

	runner := &fakeRunner{outputs: map[string]string{}}
	previous := newRunner
	newRunner = func() plugin.Runner { return runner }
	t.Cleanup(func() { newRunner = previous })

	return &hubFixture{
		root:   root,
		config: config,
		store:  catalog.NewFileStore(filepath.Join(root, "_data", "meltano")),
		runner: runner,
	}
}

func (h *hubFixture) run(args ...string) (string, string, error) {
	return execute(append([]string{"--config", h.config, "--no-color"}, args...)...)
}

func execute(args ...string) (string, string, error) {
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeAbout(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "about.json")
	require.NoError(t, os.WriteFile(path, []byte(demoAbout), 0644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "hubctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"version", "update-sdk", "refresh-sdk-variants", "settings", "quality", "history"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "hub-root", "log-level", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSubcommandConstructors(t *testing.T) {
	opts := &RootOptions{}

	tests := []struct {
		cmd   *cobra.Command
		name  string
		flags []string
	}{
		{NewUpdateSDKCommand(opts), "update-sdk", []string{"auto-accept", "pip-url", "executable", "plugin-config"}},
		{NewRefreshCommand(opts), "refresh-sdk-variants", []string{"start", "no-progress"}},
		{NewSettingsCommand(opts), "settings", []string{"yaml", "merge-with"}},
		{NewQualityCommand(opts), "quality", []string{"sdk", "usage", "responsiveness"}},
		{NewHistoryCommand(opts), "history", []string{"failed", "limit", "run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.cmd.Name())
			assert.NotEmpty(t, tt.cmd.Example)
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), flag)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	stdout, _, err := execute("--no-color", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hubctl version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
}

func TestSettingsCommand(t *testing.T) {
	h := newHubFixture(t)
	about := writeAbout(t)

	t.Run("table", func(t *testing.T) {
		stdout, _, err := h.run("settings", about)
		require.NoError(t, err)

		assert.Contains(t, stdout, "api_url")
		assert.Contains(t, stdout, "API URL")
		assert.Contains(t, stdout, "password")
		assert.Contains(t, stdout, "date_iso8601")
		assert.Contains(t, stdout, "Capabilities: catalog, discover")
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := h.run("settings", about, "--yaml")
		require.NoError(t, err)

		assert.Contains(t, stdout, "settings_group_validation:")
		assert.Contains(t, stdout, "- api_url")
		assert.Contains(t, stdout, "- access_token")
		assert.Contains(t, stdout, "name: page_size")
		assert.Contains(t, stdout, "value: 100")
		assert.NotContains(t, stdout, "required")
	})

	t.Run("merge with definition", func(t *testing.T) {
		definition := filepath.Join(t.TempDir(), "meltanolabs.yml")
		require.NoError(t, os.WriteFile(definition, []byte(`name: tap-demo
logo_url: /assets/logos/extractors/demo.png
settings:
- name: api_url
  placeholder: Ex. https://api.example.com
- name: removed_setting
  kind: string
`), 0644))

		stdout, _, err := h.run("settings", about, "--merge-with", definition)
		require.NoError(t, err)

		assert.Contains(t, stdout, "logo_url: /assets/logos/extractors/demo.png")
		assert.Contains(t, stdout, "placeholder: Ex. https://api.example.com")
		assert.Contains(t, stdout, "description: The API base URL")
		assert.NotContains(t, stdout, "removed_setting")

		// The definition file is left alone.
		data, err := os.ReadFile(definition)
		require.NoError(t, err)
		assert.Contains(t, string(data), "removed_setting")
	})

	t.Run("invalid payload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "about.json")
		require.NoError(t, os.WriteFile(path, []byte("Usage: tap-demo"), 0644))

		_, _, err := h.run("settings", path)
		assert.ErrorIs(t, err, plugin.ErrInvalidAbout)
	})
}

func TestQualityCommand(t *testing.T) {
	h := newHubFixture(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "official",
			args: []string{"quality", "meltanolabs"},
			want: []string{"Maintainer: official", "gold"},
		},
		{
			name: "responsive community variant",
			args: []string{"quality", "someone", "--usage", "3", "--responsiveness", "high"},
			want: []string{"community", "silver"},
		},
		{
			name: "unused community variant",
			args: []string{"quality", "someone"},
			want: []string{"unknown"},
		},
		{
			name:    "invalid responsiveness",
			args:    []string{"quality", "someone", "--responsiveness", "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := h.run(tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
		})
	}

	t.Run("plugin path reads the definition", func(t *testing.T) {
		ref := catalog.PluginRef{Type: "extractors", Name: "tap-demo", Variant: "someone"}
		require.NoError(t, h.store.Write(ref, &catalog.Record{Name: "tap-demo", Keywords: []string{"meltano_sdk"}}))

		stdout, _, err := h.run("quality", "extractors/tap-demo/someone")
		require.NoError(t, err)
		assert.Contains(t, stdout, "SDK based:  true")
		assert.Contains(t, stdout, "silver")
	})
}

func TestUpdateSDKCommand(t *testing.T) {
	h := newHubFixture(t)
	h.runner.outputs["tap-demo"] = demoAbout

	ref := catalog.PluginRef{Type: "extractors", Name: "tap-demo", Variant: "someone"}
	require.NoError(t, h.store.Write(ref, &catalog.Record{
		Name:     "tap-demo",
		PipURL:   "git+https://example.com/tap-demo.git",
		Keywords: []string{"meltano_sdk"},
	}))

	stdout, _, err := h.run("update-sdk", "extractors/tap-demo/someone", "--auto-accept")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated")
	assert.Contains(t, stdout, "(4 settings)")

	assert.Contains(t, h.runner.calls, "pipx install git+https://example.com/tap-demo.git --python /usr/bin/python3")
	assert.Contains(t, h.runner.calls, "tap-demo --about --format=json")
	assert.Contains(t, h.runner.calls, "tap-demo --help")

	rec, err := h.store.Read(ref)
	require.NoError(t, err)
	require.Len(t, rec.Settings, 4)
	assert.Equal(t, []string{"catalog", "discover"}, rec.Capabilities)
	assert.Equal(t, [][]string{{"api_url", "access_token"}}, rec.SettingsGroupValidation)

	stdout, _, err = h.run("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "extractors/tap-demo/someone")
	assert.Contains(t, stdout, "updated")
}

func TestUpdateSDKCommand_InvalidPath(t *testing.T) {
	h := newHubFixture(t)

	_, stderr, err := h.run("update-sdk", "extractor/tap-demo/someone", "--auto-accept")
	assert.ErrorIs(t, err, catalog.ErrInvalidPluginPath)
	assert.True(t, isReported(err))
	assert.Contains(t, stderr, "Did you mean: extractors?")
}

func TestRefreshAndHistoryCommands(t *testing.T) {
	h := newHubFixture(t)
	h.runner.outputs["tap-demo"] = demoAbout

	demo := catalog.PluginRef{Type: "extractors", Name: "tap-demo", Variant: "someone"}
	broken := catalog.PluginRef{Type: "extractors", Name: "tap-broken", Variant: "someone"}
	legacy := catalog.PluginRef{Type: "loaders", Name: "target-legacy", Variant: "someone"}
	require.NoError(t, h.store.Write(demo, &catalog.Record{Name: "tap-demo", PipURL: "tap-demo", Keywords: []string{"meltano_sdk"}}))
	require.NoError(t, h.store.Write(broken, &catalog.Record{Name: "tap-broken", PipURL: "tap-broken", Keywords: []string{"meltano_sdk"}}))
	require.NoError(t, h.store.Write(legacy, &catalog.Record{Name: "target-legacy", PipURL: "target-legacy"}))

	stdout, stderr, err := h.run("refresh-sdk-variants", "--no-progress")
	require.Error(t, err)
	assert.True(t, isReported(err))

	assert.Contains(t, stdout, "Updated: 1")
	assert.Contains(t, stdout, "Skipped: 1")
	assert.Contains(t, stdout, "Failed:  1")
	assert.Contains(t, stdout, "extractors/tap-broken/someone.yml")
	assert.Contains(t, stderr, "REFRESH INCOMPLETE")

	rec, err := h.store.Read(demo)
	require.NoError(t, err)
	assert.Len(t, rec.Settings, 4)

	stdout, _, err = h.run("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "extractors/tap-demo/someone")
	assert.Contains(t, stdout, "updated")
	assert.Contains(t, stdout, "extractors/tap-broken/someone")

	stdout, _, err = h.run("history", "--failed")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "extractors/tap-demo/someone")
	assert.Contains(t, stdout, "exit status 127")
}

func TestRefreshCommand_StartNotFound(t *testing.T) {
	h := newHubFixture(t)

	demo := catalog.PluginRef{Type: "extractors", Name: "tap-demo", Variant: "someone"}
	require.NoError(t, h.store.Write(demo, &catalog.Record{Name: "tap-demo", Keywords: []string{"meltano_sdk"}}))

	_, stderr, err := h.run("refresh-sdk-variants", "--no-progress", "--start", "extractors/tap-dmeo/someone.yml")
	require.Error(t, err)
	assert.Contains(t, stderr, "START NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: extractors/tap-demo/someone.yml?")
	assert.Empty(t, h.runner.calls)
}

func TestHistoryCommand_Disabled(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, "hubctl.yaml")
	require.NoError(t, os.WriteFile(config, []byte("history:\n  path: \"\"\nlog:\n  level: error\n"), 0644))

	_, stderr, err := execute("--config", config, "--no-color", "history")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Run history is disabled")
	assert.Contains(t, stderr, "→ Enable it: set history.path in hubctl.yaml")
	assert.NotContains(t, stderr, "Did you mean")
}

func TestOpenCache(t *testing.T) {
	h := newHubFixture(t)

	open := func(t *testing.T, redisURL string) *app {
		t.Helper()
		a, err := loadApp(&RootOptions{configPath: h.config})
		require.NoError(t, err)
		t.Cleanup(func() { a.Close() })

		a.cfg.Cache.RedisURL = redisURL
		a.openCache(context.Background())
		return a
	}

	t.Run("memory without redis", func(t *testing.T) {
		a := open(t, "")
		assert.IsType(t, &cache.MemoryCache{}, a.cache)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		a := open(t, "redis://"+mr.Addr())
		assert.IsType(t, &cache.RedisCache{}, a.cache)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		a := open(t, "redis://"+addr)
		assert.IsType(t, &cache.MemoryCache{}, a.cache)
	})
}
