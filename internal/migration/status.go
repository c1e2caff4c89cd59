package migration

import (
	"context"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/options"
)

// TableStatus describes one target table.
type TableStatus struct {
	Exists bool  `json:"exists"`
	Rows   int64 `json:"rows"`
}

// Status is a read-only snapshot for operators.
type Status struct {
	Completion     string                 `json:"completion"`
	CompletedAt    string                 `json:"completed_at,omitempty"`
	StoredVersion  string                 `json:"stored_version"`
	LegacyVersion  string                 `json:"legacy_version"`
	CurrentVersion string                 `json:"current_version"`
	Pending        bool                   `json:"pending"`
	Tables         map[string]TableStatus `json:"tables"`
	LastRun        *Report                `json:"last_run,omitempty"`
}

// Status reads the flag, the version options and the row counts of the
// four target tables.
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	raw, ok, err := m.cfg.Options.Get(ctx, options.KeyMigrationFlag)
	if err != nil {
		return Status{}, fmt.Errorf("read migration flag: %w", err)
	}
	c := ParseCompletion(raw, ok)

	st := Status{
		Completion:     c.State.String(),
		CompletedAt:    c.At,
		StoredVersion:  options.GetDefault(ctx, m.cfg.Options, options.KeyVersion, ""),
		LegacyVersion:  options.GetDefault(ctx, m.cfg.Options, options.KeyLegacyVersion, ""),
		CurrentVersion: m.cfg.CurrentVersion,
		Tables:         make(map[string]TableStatus, 4),
	}
	from := st.StoredVersion
	if from == "" {
		from = st.LegacyVersion
	}
	st.Pending = !c.Done() && from != "" && !VersionAtLeast(from, CutoverVersion)

	targets := []struct {
		stage string
		store guarded
	}{
		{StageLocations, m.cfg.Stores.Locations},
		{StageTables, m.cfg.Stores.Tables},
		{StageCustomers, m.cfg.Stores.Customers},
		{StageBookings, m.cfg.Stores.Bookings},
	}
	for _, t := range targets {
		if t.store == nil {
			continue
		}
		exists, err := t.store.Exists(ctx)
		if err != nil {
			return Status{}, fmt.Errorf("%s status: %w", t.stage, err)
		}
		ts := TableStatus{Exists: exists}
		if exists {
			if ts.Rows, err = t.store.Count(ctx); err != nil {
				return Status{}, fmt.Errorf("%s status: %w", t.stage, err)
			}
		}
		st.Tables[t.stage] = ts
	}

	if rep, ok := m.LastReport(); ok {
		st.LastRun = &rep
	}
	return st, nil
}
