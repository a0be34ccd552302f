package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers commands from a table keyed by "name arg1 arg2 ...".
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
	onRun   func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.onRun != nil {
		f.onRun(name, args)
	}

	key := strings.Join(append([]string{name}, args...), " ")
	for prefix, err := range f.errs {
		if strings.HasPrefix(key, prefix) {
			return nil, err
		}
	}
	for prefix, out := range f.outputs {
		if strings.HasPrefix(key, prefix) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func TestInstaller_Install(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{"pipx uninstall": errors.New("not installed")}}
	installer := NewInstaller(runner, WithPython("/usr/bin/python3.11"))

	err := installer.Install(context.Background(), "tap-csv", "git+https://github.com/MeltanoLabs/tap-csv.git")
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, call{name: "pipx", args: []string{"uninstall", "tap-csv"}}, runner.calls[0])
	assert.Equal(t, call{name: "pipx", args: []string{
		"install", "git+https://github.com/MeltanoLabs/tap-csv.git", "--python", "/usr/bin/python3.11",
	}}, runner.calls[1])
}

func TestInstaller_ResolvesPythonFromPath(t *testing.T) {
	runner := &fakeRunner{}
	installer := NewInstaller(runner, WithPipx("/opt/pipx"))
	installer.lookPath = func(string) (string, error) { return "/usr/local/bin/python", nil }

	require.NoError(t, installer.Install(context.Background(), "tap-csv", "tap-csv==1.0"))
	assert.Equal(t, call{name: "/opt/pipx", args: []string{"install", "tap-csv==1.0", "--python", "/usr/local/bin/python"}}, runner.calls[1])

	installer.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	require.NoError(t, installer.Install(context.Background(), "tap-csv", "tap-csv==1.0"))
	assert.Equal(t, call{name: "/opt/pipx", args: []string{"install", "tap-csv==1.0"}}, runner.calls[3])
}

func TestInstaller_Errors(t *testing.T) {
	installer := NewInstaller(&fakeRunner{errs: map[string]error{"pipx install": errors.New("exit status 1")}}, WithPython("python"))

	err := installer.Install(context.Background(), "tap-csv", "tap-csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install tap-csv")

	err = installer.Install(context.Background(), "tap-csv", "")
	assert.Error(t, err)
}

func TestIntrospector_About(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"tap-csv --about --format=json": `{"name": "tap-csv", "capabilities": ["catalog"], "settings": {"properties": {"files": {"type": "array"}}}}`,
	}}

	out, err := NewIntrospector(runner).AboutJSON(context.Background(), "tap-csv", nil)
	require.NoError(t, err)
	about, err := ParseAbout(out)
	require.NoError(t, err)

	assert.Equal(t, "tap-csv", about.Name)
	assert.Equal(t, []string{"catalog"}, about.Capabilities)
	require.Len(t, about.Settings.Properties(), 1)
}

func TestIntrospector_AboutWithConfig(t *testing.T) {
	var configPath string
	var configBody map[string]any

	runner := &fakeRunner{
		outputs: map[string]string{
			"tap-csv --about --format=json --config": "{\"settings\": {}}\nSetup Instructions:\n  run it",
		},
	}
	runner.onRun = func(_ string, args []string) {
		configPath = args[len(args)-1]
		data, err := os.ReadFile(configPath)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &configBody))
	}

	out, err := NewIntrospector(runner).AboutJSON(context.Background(), "tap-csv", map[string]any{"files": []any{}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"settings": {}}`, string(out))
	assert.Equal(t, map[string]any{"files": []any{}}, configBody)
	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr), "config file should be removed")
}

func TestIntrospector_Failures(t *testing.T) {
	t.Run("process error", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{"tap-broken": errors.New("exit status 2")}}
		_, err := NewIntrospector(runner).AboutJSON(context.Background(), "tap-broken", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to introspect tap-broken")
	})

	t.Run("non-json output", func(t *testing.T) {
		runner := &fakeRunner{outputs: map[string]string{"tap-legacy": "Usage: tap-legacy [OPTIONS]"}}
		out, err := NewIntrospector(runner).AboutJSON(context.Background(), "tap-legacy", nil)
		require.NoError(t, err)
		_, err = ParseAbout(out)
		assert.ErrorIs(t, err, ErrInvalidAbout)
	})
}

func TestIntrospector_HelpTest(t *testing.T) {
	runner := &fakeRunner{}
	require.NoError(t, NewIntrospector(runner).HelpTest(context.Background(), "tap-csv", nil))
	assert.Equal(t, []string{"--help"}, runner.calls[0].args)

	failing := &fakeRunner{errs: map[string]error{"tap-csv --help": errors.New("exit status 1")}}
	assert.Error(t, NewIntrospector(failing).HelpTest(context.Background(), "tap-csv", map[string]any{}))
}
