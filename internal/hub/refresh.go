package hub

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hubkit/hubctl/internal/catalog"
	"github.com/hubkit/hubctl/internal/history"
)

// ErrStartNotFound is returned when no record file matches the start path.
var ErrStartNotFound = errors.New("start file not found")

// RefreshOptions controls a bulk refresh.
type RefreshOptions struct {
	// Start skips every record file before the one whose path ends with
	// Start, so an interrupted run can resume.
	Start string
	// RunID tags recorded outcomes. A random ID is used when empty.
	RunID string
	// Progress, when set, is called after each record file is handled.
	Progress func(done, total int, path string)
}

// Failure is a plugin a refresh could not update.
type Failure struct {
	Path string
	Err  error
}

// RefreshReport summarizes a bulk refresh.
type RefreshReport struct {
	RunID    string
	Updated  []string
	Skipped  []string
	Failures []Failure
}

// Refresh updates every SDK-based plugin in the store. A failing plugin is
// recorded in the report and the run moves on; only cancellation or an
// unreadable store stops it early.
func (u *Updater) Refresh(ctx context.Context, opts RefreshOptions) (*RefreshReport, error) {
	report := &RefreshReport{RunID: opts.RunID}
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	logger := u.logger.With(zap.String("run_id", report.RunID))

	files, err := u.store.Walk()
	if err != nil {
		return report, err
	}

	started := opts.Start == ""
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !started && matchesStart(path, opts.Start) {
			started = true
		}
		if started {
			u.refreshOne(ctx, logger, report, path)
		} else {
			logger.Debug("Skipping before start", zap.String("path", path))
			report.Skipped = append(report.Skipped, path)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(files), path)
		}
	}

	if !started {
		return report, fmt.Errorf("%w: %s", ErrStartNotFound, opts.Start)
	}
	return report, nil
}

// UpdateRun updates a single plugin as a run of its own and records the
// outcome. It returns the run ID along with the updated record.
func (u *Updater) UpdateRun(ctx context.Context, req Request) (*catalog.Record, string, error) {
	runID := uuid.NewString()
	logger := u.logger.With(zap.String("run_id", runID))

	rec, err := u.Update(ctx, req)
	if err != nil {
		u.record(ctx, logger, history.Outcome{
			RunID:  runID,
			Plugin: req.Ref.String(),
			Status: history.StatusFailed,
			Error:  err.Error(),
		})
		return nil, runID, err
	}

	u.record(ctx, logger, history.Outcome{
		RunID:  runID,
		Plugin: req.Ref.String(),
		Status: history.StatusUpdated,
	})
	return rec, runID, nil
}

func (u *Updater) refreshOne(ctx context.Context, logger *zap.Logger, report *RefreshReport, path string) {
	rec, err := u.store.ReadFile(path)
	if err != nil {
		u.fail(ctx, logger, report, path, err)
		return
	}
	if !rec.IsSDKBased() {
		report.Skipped = append(report.Skipped, path)
		return
	}

	ref, err := catalog.ParsePluginRef(path)
	if err != nil {
		u.fail(ctx, logger, report, path, err)
		return
	}

	logger.Info("Updating", zap.String("path", path))
	if _, err := u.Update(ctx, Request{Ref: ref}); err != nil {
		u.fail(ctx, logger, report, path, err)
		return
	}

	report.Updated = append(report.Updated, path)
	u.record(ctx, logger, history.Outcome{
		RunID:  report.RunID,
		Plugin: ref.String(),
		Status: history.StatusUpdated,
	})
}

func (u *Updater) fail(ctx context.Context, logger *zap.Logger, report *RefreshReport, path string, err error) {
	logger.Error("Plugin update failed", zap.String("path", path), zap.Error(err))
	report.Failures = append(report.Failures, Failure{Path: path, Err: err})

	plugin := path
	if ref, parseErr := catalog.ParsePluginRef(path); parseErr == nil {
		plugin = ref.String()
	}
	u.record(ctx, logger, history.Outcome{
		RunID:  report.RunID,
		Plugin: plugin,
		Status: history.StatusFailed,
		Error:  err.Error(),
	})
}

func (u *Updater) record(ctx context.Context, logger *zap.Logger, o history.Outcome) {
	if u.recorder == nil {
		return
	}
	if err := u.recorder.Record(ctx, o); err != nil {
		logger.Warn("Failed to record outcome", zap.String("plugin", o.Plugin), zap.Error(err))
	}
}

func matchesStart(path, start string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	start = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(start)), "/")
	return path == start || strings.HasSuffix(path, "/"+start)
}
