package plugin

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Installer installs plugin packages into isolated environments with pipx.
type Installer struct {
	runner   Runner
	pipx     string
	python   string
	lookPath func(string) (string, error)
	logger   *zap.Logger
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithPipx overrides the pipx binary.
func WithPipx(binary string) InstallerOption {
	return func(i *Installer) {
		if binary != "" {
			i.pipx = binary
		}
	}
}

// WithPython pins the interpreter pipx installs with. When unset the
// python found on PATH is used.
func WithPython(python string) InstallerOption {
	return func(i *Installer) {
		i.python = python
	}
}

// WithInstallLogger sets the installer's logger.
func WithInstallLogger(l *zap.Logger) InstallerOption {
	return func(i *Installer) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInstaller creates an Installer running commands through runner.
func NewInstaller(runner Runner, opts ...InstallerOption) *Installer {
	i := &Installer{
		runner:   runner,
		pipx:     "pipx",
		lookPath: exec.LookPath,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install reinstalls the package behind pipURL. A failing uninstall is
// expected when the plugin was never installed and is only logged.
func (i *Installer) Install(ctx context.Context, name, pipURL string) error {
	if pipURL == "" {
		return fmt.Errorf("no pip_url for %s", name)
	}

	if _, err := i.runner.Run(ctx, i.pipx, "uninstall", name); err != nil {
		i.logger.Debug("pipx uninstall failed", zap.String("plugin", name), zap.Error(err))
	}

	args := []string{"install", pipURL}
	if python := i.resolvePython(); python != "" {
		args = append(args, "--python", python)
	}

	i.logger.Info("Installing plugin", zap.String("plugin", name), zap.String("pip_url", pipURL))
	if _, err := i.runner.Run(ctx, i.pipx, args...); err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}
	return nil
}

func (i *Installer) resolvePython() string {
	if i.python != "" {
		return i.python
	}
	path, err := i.lookPath("python")
	if err != nil {
		return ""
	}
	return path
}
