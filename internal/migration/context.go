package migration

import (
	"context"
	"io"
	"log/slog"

	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

// legacyDataset caches one decoded option blob for the length of a run.
type legacyDataset struct {
	value   any
	present bool
}

// RunContext carries everything scoped to a single migration run: the
// option store the legacy blobs come from, the clock and a logger tagged
// with the run id. Each legacy dataset is loaded at most once per run.
type RunContext struct {
	ID      string
	Options options.Store
	Clock   *normalize.Normalizer
	Log     *slog.Logger

	datasets map[string]legacyDataset
}

// NewRunContext builds a RunContext. A nil logger discards output and a
// nil clock uses the wall clock.
func NewRunContext(id string, opts options.Store, clock *normalize.Normalizer, log *slog.Logger) *RunContext {
	if clock == nil {
		clock = normalize.NewNormalizer()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RunContext{
		ID:       id,
		Options:  opts,
		Clock:    clock,
		Log:      log.With("run_id", id),
		datasets: make(map[string]legacyDataset),
	}
}

// Legacy returns the decoded legacy dataset stored under key. present is
// false when the option is missing, empty or not valid JSON.
func (rc *RunContext) Legacy(ctx context.Context, key string) (value any, present bool) {
	if ds, ok := rc.datasets[key]; ok {
		return ds.value, ds.present
	}
	ds := rc.load(ctx, key)
	rc.datasets[key] = ds
	return ds.value, ds.present
}

func (rc *RunContext) load(ctx context.Context, key string) legacyDataset {
	raw, ok, err := rc.Options.Get(ctx, key)
	if err != nil {
		rc.Log.Warn("legacy dataset unreadable", "option", key, "error", err)
		return legacyDataset{}
	}
	if !ok || raw == "" {
		return legacyDataset{}
	}
	v, err := normalize.DecodeValue([]byte(raw))
	if err != nil {
		rc.Log.Warn("legacy dataset is not valid JSON", "option", key, "error", err)
		return legacyDataset{}
	}
	return legacyDataset{value: v, present: v != nil}
}

// LegacyRecords returns the dataset under key as canonical records.
func (rc *RunContext) LegacyRecords(ctx context.Context, key string) []normalize.Record {
	v, ok := rc.Legacy(ctx, key)
	if !ok {
		return nil
	}
	return normalize.RecordsFrom(v)
}
