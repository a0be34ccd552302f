package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hubkit/hubctl/internal/cache"
	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/cli/config"
	"github.com/hubkit/hubctl/internal/history"
	"github.com/hubkit/hubctl/internal/hub"
	"github.com/hubkit/hubctl/internal/logging"
	"github.com/hubkit/hubctl/internal/plugin"
	"github.com/hubkit/hubctl/internal/settings"
)

// newRunner creates the process runner commands install and introspect
// plugins with.
var newRunner = func() plugin.Runner { return plugin.ExecRunner{} }

// app carries the dependencies a command needs, built from config and the
// persistent flags.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *catalog.FileStore
	runner plugin.Runner

	cache   cache.Cache
	ledger  *history.Ledger
	closers []func() error
}

// loadApp reads the configuration and builds the logger and catalog store.
func loadApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.hubRoot != "" {
		cfg.HubRoot = opts.hubRoot
	}
	if opts.logLevel != "" {
		if !logging.ValidLevel(opts.logLevel) {
			return nil, fmt.Errorf("invalid --log-level %q", opts.logLevel)
		}
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.NewLogger(
		logging.WithLevel(cfg.Log.Level),
		logging.WithDevelopment(cfg.Log.Development),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  catalog.NewFileStore(cfg.DataPath()),
		runner: newRunner(),
	}, nil
}

// openCache connects the introspection cache. Without a reachable redis
// server, about output is only reused within this process.
func (a *app) openCache(ctx context.Context) {
	cfg := cache.DefaultCacheConfig()
	if a.cfg.Cache.TTL > 0 {
		cfg.DefaultTTL = a.cfg.Cache.TTL
	}
	if a.cfg.Cache.Prefix != "" {
		cfg.Prefix = a.cfg.Cache.Prefix
	}

	if a.cfg.Cache.RedisURL == "" {
		a.cache = cache.NewMemoryCache(cfg)
		return
	}

	c, err := cache.NewRedisCacheFromURL(ctx, a.cfg.Cache.RedisURL, cfg)
	if err != nil {
		a.logger.Warn("Introspection cache unavailable, caching in memory", zap.Error(err))
		a.cache = cache.NewMemoryCache(cfg)
		return
	}
	a.cache = c
	a.closers = append(a.closers, c.Close)
}

// openLedger opens the run history when one is configured. A relative path
// is resolved against the hub root.
func (a *app) openLedger(ctx context.Context) error {
	path := a.historyPath()
	if path == "" {
		return nil
	}

	ledger, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	a.ledger = ledger
	a.closers = append(a.closers, ledger.Close)
	return nil
}

func (a *app) historyPath() string {
	path := a.cfg.History.Path
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.cfg.HubRoot, path)
}

// updater wires the install, introspect, flatten and persist pipeline.
func (a *app) updater(flattener *settings.Flattener) *hub.Updater {
	opts := []hub.Option{hub.WithLogger(a.logger)}
	if a.cache != nil {
		opts = append(opts, hub.WithCache(a.cache, a.cfg.Cache.TTL))
	}
	if a.ledger != nil {
		opts = append(opts, hub.WithRecorder(a.ledger))
	}

	installer := plugin.NewInstaller(a.runner,
		plugin.WithPipx(a.cfg.Pipx.Binary),
		plugin.WithPython(a.cfg.Pipx.Python),
		plugin.WithInstallLogger(a.logger),
	)
	return hub.NewUpdater(a.store, installer, plugin.NewIntrospector(a.runner), flattener, opts...)
}

// Close releases every connection the app opened.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

// reportedError marks an error whose details were already rendered to the
// user, so Execute only sets the exit status.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return reportedError{err: err}
}

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
