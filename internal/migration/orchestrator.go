// Package migration moves data from the legacy option blobs of pre-2.0
// installs into the relational booking tables. The pipeline runs
// locations, tables, customers and bookings in that order, remapping
// foreign keys between stages, and records completion in a persisted flag
// so it is attempted at most once per install.
package migration

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
	"github.com/iliyamo/restaurant-booking/internal/queue"
)

// Locker serialises orchestrator runs across processes.
type Locker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// Notifier is told about finished runs. Errors are logged and ignored.
type Notifier interface {
	MigrationCompleted(ctx context.Context, ev queue.MigrationCompletedEvent) error
}

// Config wires a Migrator. Options, Stores and CurrentVersion are
// required; the rest are optional.
type Config struct {
	Options        options.Store
	Stores         Stores
	CurrentVersion string
	Clock          *normalize.Normalizer
	Logger         *slog.Logger
	Locker         Locker
	Notifier       Notifier
}

// Migrator is the orchestrator. It is safe for concurrent use: runs in one
// process are serialised by runMu, runs across processes by the Locker.
type Migrator struct {
	cfg Config
	log *slog.Logger

	runMu sync.Mutex

	mu   sync.Mutex
	last *Report
}

// New returns a Migrator for cfg.
func New(cfg Config) *Migrator {
	if cfg.Clock == nil {
		cfg.Clock = normalize.NewNormalizer()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Migrator{cfg: cfg, log: log.With("component", "legacy_migration")}
}

// MaybeRun migrates legacy data when the install was on a pre-2.0
// version and the migration has not been attempted yet. previousVersion
// may be empty, in which case the stored version options are used. It
// returns whether any row was inserted and never fails: every problem
// degrades to a logged no-op or a partial result.
func (m *Migrator) MaybeRun(ctx context.Context, previousVersion string) bool {
	// held for the whole attempt so a caller waiting here sees the flag
	// written by the run it waited on
	m.runMu.Lock()
	defer m.runMu.Unlock()

	version := m.resolveVersion(ctx, previousVersion)
	if version == "" {
		m.log.Debug("legacy migration skipped: no previous version")
		return false
	}
	if VersionAtLeast(version, CutoverVersion) {
		m.log.Debug("legacy migration skipped: install already relational", "version", version)
		return false
	}
	if m.completion(ctx).Done() {
		m.log.Debug("legacy migration skipped: already attempted")
		return false
	}

	if m.cfg.Locker != nil {
		release, ok, err := m.cfg.Locker.TryLock(ctx)
		if err != nil || !ok {
			m.log.Warn("legacy migration skipped: lock not acquired", "error", err)
			return false
		}
		defer release()
		// another process may have finished while we waited for the lock
		if m.completion(ctx).Done() {
			return false
		}
	}

	rep := m.run(ctx, version)
	return rep.Migrated
}

// run executes the four stages and persists the outcome.
func (m *Migrator) run(ctx context.Context, fromVersion string) Report {
	rc := NewRunContext(uuid.NewString(), m.cfg.Options, m.cfg.Clock, m.log)
	rep := Report{
		RunID:       rc.ID,
		FromVersion: fromVersion,
		ToVersion:   m.cfg.CurrentVersion,
		StartedAt:   rc.Clock.NowString(),
	}
	rc.Log.Info("legacy migration started", "from_version", fromVersion, "to_version", m.cfg.CurrentVersion)

	s := m.cfg.Stores
	locations, stage, err := MigrateLocations(ctx, rc, s.Locations, s.LocationMeta)
	rep.Stages = append(rep.Stages, m.stageDone(rc, stage, err))

	tables, stage, err := MigrateTables(ctx, rc, s.Tables, locations)
	rep.Stages = append(rep.Stages, m.stageDone(rc, stage, err))

	customers, stage, err := MigrateCustomers(ctx, rc, s.Customers)
	rep.Stages = append(rep.Stages, m.stageDone(rc, stage, err))

	stage, err = MigrateBookings(ctx, rc, s.Bookings, locations, tables, customers)
	rep.Stages = append(rep.Stages, m.stageDone(rc, stage, err))

	for _, st := range rep.Stages {
		if st.Migrated() {
			rep.Migrated = true
		}
	}
	rep.FinishedAt = rc.Clock.NowString()

	flag := CompletionFor(rep.Migrated, rep.FinishedAt)
	if err := m.cfg.Options.Set(ctx, options.KeyMigrationFlag, flag.Value()); err != nil {
		rc.Log.Error("migration flag not saved", "error", err)
	}
	if rep.Migrated && m.cfg.CurrentVersion != "" {
		if err := m.cfg.Options.Set(ctx, options.KeyVersion, m.cfg.CurrentVersion); err != nil {
			rc.Log.Error("version not updated", "error", err)
		}
	}
	rc.Log.Info("legacy migration finished", "migrated", rep.Migrated, "completion", flag.State.String())

	m.mu.Lock()
	m.last = &rep
	m.mu.Unlock()

	m.notify(ctx, rc, rep)
	return rep
}

func (m *Migrator) stageDone(rc *RunContext, st StageReport, err error) StageReport {
	if err != nil {
		st.Error = err.Error()
		rc.Log.Error("migration stage failed", "stage", st.Stage, "error", err)
	} else if st.Guard != "" {
		rc.Log.Info("migration stage skipped", "stage", st.Stage, "guard", st.Guard)
	}
	return st
}

func (m *Migrator) notify(ctx context.Context, rc *RunContext, rep Report) {
	if m.cfg.Notifier == nil {
		return
	}
	skipped := make(map[string]int, len(rep.Stages))
	for _, st := range rep.Stages {
		skipped[st.Stage] = st.Skipped
	}
	ev := queue.MigrationCompletedEvent{
		RunID:       rep.RunID,
		Migrated:    rep.Migrated,
		FromVersion: rep.FromVersion,
		ToVersion:   rep.ToVersion,
		Inserted:    rep.Inserted(),
		Skipped:     skipped,
		CompletedAt: rep.FinishedAt,
	}
	if err := m.cfg.Notifier.MigrationCompleted(ctx, ev); err != nil {
		rc.Log.Warn("migration event not published", "error", err)
	}
}

// resolveVersion picks the explicit argument, then the stored version,
// then the legacy version option.
func (m *Migrator) resolveVersion(ctx context.Context, previous string) string {
	if v := strings.TrimSpace(previous); v != "" {
		return v
	}
	if v := strings.TrimSpace(options.GetDefault(ctx, m.cfg.Options, options.KeyVersion, "")); v != "" {
		return v
	}
	return strings.TrimSpace(options.GetDefault(ctx, m.cfg.Options, options.KeyLegacyVersion, ""))
}

// completion reads the persisted flag. An unreadable flag counts as done
// so a flaky store never causes a second run.
func (m *Migrator) completion(ctx context.Context) Completion {
	raw, ok, err := m.cfg.Options.Get(ctx, options.KeyMigrationFlag)
	if err != nil {
		m.log.Error("migration flag unreadable", "error", err)
		return Completion{State: RanNoChanges}
	}
	return ParseCompletion(raw, ok)
}

// LastReport returns the report of the most recent run in this process.
func (m *Migrator) LastReport() (Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return Report{}, false
	}
	return *m.last, true
}
