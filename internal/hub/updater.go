// Package hub runs the install, introspect, flatten, merge and persist
// pipeline for hub plugins.
package hub

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hubkit/hubctl/internal/cache"
	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/history"
	"github.com/hubkit/hubctl/internal/plugin"
	"github.com/hubkit/hubctl/internal/settings"
)

// Store reads and writes plugin definition records.
type Store interface {
	Read(ref catalog.PluginRef) (*catalog.Record, error)
	ReadFile(path string) (*catalog.Record, error)
	Write(ref catalog.PluginRef, rec *catalog.Record) error
	Walk() ([]string, error)
}

// Installer makes a plugin executable available.
type Installer interface {
	Install(ctx context.Context, name, pipURL string) error
}

// Introspector runs a plugin's self-description commands.
type Introspector interface {
	HelpTest(ctx context.Context, executable string, config map[string]any) error
	AboutJSON(ctx context.Context, executable string, config map[string]any) ([]byte, error)
}

// Recorder keeps per-plugin outcomes.
type Recorder interface {
	Record(ctx context.Context, o history.Outcome) error
}

// Updater refreshes plugin records from their about output.
type Updater struct {
	store        Store
	installer    Installer
	introspector Introspector
	flattener    *settings.Flattener
	cache        cache.Cache
	cacheTTL     time.Duration
	recorder     Recorder
	logger       *zap.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithCache reuses about output across runs for unchanged packages.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(u *Updater) {
		u.cache = c
		u.cacheTTL = ttl
	}
}

// WithRecorder records the outcome of every plugin a refresh processes.
func WithRecorder(r Recorder) Option {
	return func(u *Updater) {
		u.recorder = r
	}
}

// WithLogger sets the updater's logger.
func WithLogger(l *zap.Logger) Option {
	return func(u *Updater) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewUpdater creates an Updater.
func NewUpdater(store Store, installer Installer, introspector Introspector, flattener *settings.Flattener, opts ...Option) *Updater {
	u := &Updater{
		store:        store,
		installer:    installer,
		introspector: introspector,
		flattener:    flattener,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Request selects the plugin to update. PipURL and Executable override
// the values stored in the record.
type Request struct {
	Ref        catalog.PluginRef
	PipURL     string
	Executable string
	Config     map[string]any
}

// Update installs and introspects one plugin, merges the derived settings
// into its record and writes the record back.
func (u *Updater) Update(ctx context.Context, req Request) (*catalog.Record, error) {
	existing, err := u.store.Read(req.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.Ref, err)
	}

	var current catalog.Record
	if existing != nil {
		current = *existing
	}
	pipURL := firstNonEmpty(req.PipURL, current.PipURL)
	executable := firstNonEmpty(req.Executable, current.Executable, req.Ref.Name)

	logger := u.logger.With(zap.Stringer("plugin", req.Ref))

	// Output depends on the config, so only config-less runs are cached.
	cacheKey := ""
	if u.cache != nil && req.Config == nil && pipURL != "" {
		cacheKey = cache.AboutKey(pipURL, executable)
	}

	raw, cached := u.cachedAbout(ctx, logger, cacheKey)
	if !cached {
		if err := u.installer.Install(ctx, req.Ref.Name, pipURL); err != nil {
			return nil, err
		}
		if err := u.introspector.HelpTest(ctx, executable, req.Config); err != nil {
			return nil, err
		}
		if raw, err = u.introspector.AboutJSON(ctx, executable, req.Config); err != nil {
			return nil, err
		}
	}

	about, err := plugin.ParseAbout(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Ref, err)
	}
	if !cached && cacheKey != "" {
		if err := u.cache.Set(ctx, cacheKey, raw, u.cacheTTL); err != nil {
			logger.Warn("About cache write failed", zap.Error(err))
		}
	}

	result, err := u.flattener.Flatten(about)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten settings of %s: %w", req.Ref, err)
	}

	updated := catalog.Apply(existing, result)
	if err := u.store.Write(req.Ref, updated); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", req.Ref, err)
	}

	logger.Info("Updated plugin definition",
		zap.Int("settings", len(updated.Settings)),
		zap.Strings("capabilities", updated.Capabilities))
	return updated, nil
}

// cachedAbout returns the cached about output for key, if any.
func (u *Updater) cachedAbout(ctx context.Context, logger *zap.Logger, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	raw, err := u.cache.Get(ctx, key)
	if err != nil {
		if !cache.IsCacheMiss(err) {
			logger.Warn("About cache lookup failed", zap.Error(err))
		}
		return nil, false
	}

	logger.Debug("Using cached about output")
	return raw, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
