package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hubkit/hubctl/internal/settings"
)

// ErrInvalidAbout is returned when a plugin's --about output is not a
// JSON about payload.
var ErrInvalidAbout = errors.New("invalid about output")

// setupMarker starts the human-readable trailer some SDK versions append
// to --about output when a config file is given.
const setupMarker = "Setup Instructions:"

// Introspector runs a plugin's self-description commands.
type Introspector struct {
	runner Runner
}

// NewIntrospector creates an Introspector running commands through runner.
func NewIntrospector(runner Runner) *Introspector {
	return &Introspector{runner: runner}
}

// AboutJSON runs `<executable> --about --format=json` and returns the raw
// JSON document. A non-nil config is written to a temporary file and
// passed with --config.
func (in *Introspector) AboutJSON(ctx context.Context, executable string, config map[string]any) ([]byte, error) {
	args := []string{"--about", "--format=json"}

	if config != nil {
		path, cleanup, err := writeConfig(config)
		if err != nil {
			return nil, err
		}
		defer cleanup()

		out, err := in.runner.Run(ctx, executable, append(args, "--config", path)...)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect %s: %w", executable, err)
		}
		if i := bytes.Index(out, []byte(setupMarker)); i >= 0 {
			out = out[:i]
		}
		return out, nil
	}

	out, err := in.runner.Run(ctx, executable, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect %s: %w", executable, err)
	}
	return out, nil
}

// HelpTest checks that the executable starts by running it with --help.
func (in *Introspector) HelpTest(ctx context.Context, executable string, config map[string]any) error {
	args := []string{"--help"}

	if config != nil {
		path, cleanup, err := writeConfig(config)
		if err != nil {
			return err
		}
		defer cleanup()
		args = append(args, "--config", path)
	}

	if _, err := in.runner.Run(ctx, executable, args...); err != nil {
		return fmt.Errorf("%s failed its help test: %w", executable, err)
	}
	return nil
}

// ParseAbout decodes an about payload.
func ParseAbout(data []byte) (*settings.About, error) {
	about, err := settings.DecodeAbout(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbout, err)
	}
	return about, nil
}

func writeConfig(config map[string]any) (string, func(), error) {
	tmp, err := os.CreateTemp("", "hubctl-config-*.json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create config file: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if err := json.NewEncoder(tmp).Encode(config); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write config file: %w", err)
	}
	return tmp.Name(), cleanup, nil
}
