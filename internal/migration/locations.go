package migration

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

const defaultLocationStatus = "active"

// MigrateLocations copies legacy locations into store. When the table
// already has rows the returned map is the identity over existing ids and
// nothing is written. Extended settings go to meta when it exists; meta
// may be nil.
func MigrateLocations(ctx context.Context, rc *RunContext, store LocationStore, meta LocationMetaStore) (LocationMap, StageReport, error) {
	rep := StageReport{Stage: StageLocations}
	mapping := make(LocationMap)

	guard, err := checkTarget(ctx, store)
	if err != nil {
		return mapping, rep, fmt.Errorf("locations guard: %w", err)
	}
	switch guard {
	case guardMissingTable:
		rep.Guard = string(guard)
		return mapping, rep, nil
	case guardPopulated:
		rep.Guard = string(guard)
		ids, err := store.ListIDs(ctx)
		if err != nil {
			return mapping, rep, fmt.Errorf("locations identity map: %w", err)
		}
		for _, id := range ids {
			mapping[int64(id)] = id
		}
		return mapping, rep, nil
	}

	records := rc.LegacyRecords(ctx, options.KeyLegacyLocations)
	if len(records) == 0 {
		rep.Guard = string(guardNoLegacyData)
		return mapping, rep, nil
	}

	metaReady := false
	if meta != nil {
		if ok, err := meta.Exists(ctx); err == nil && ok {
			metaReady = true
		}
	}

	log := rc.Log.With("stage", StageLocations)
	for _, rec := range records {
		rep.Attempted++
		legacyID := rec.Int("id", "location_id")
		loc := locationFromRecord(rc.Clock, rec)

		if err := insertKeepingID(legacyID, func(id uint64) { loc.ID = id }, func() error { return store.Insert(ctx, &loc) }); err != nil {
			rep.Skipped++
			log.Warn("location skipped", "legacy_id", legacyID, "error", err)
			continue
		}
		rep.Inserted++
		// first record wins: a repeated legacy id keeps pointing at the row
		// that took that id
		key := legacyID
		if key <= 0 {
			key = int64(loc.ID)
		}
		if _, taken := mapping[key]; !taken {
			mapping[key] = loc.ID
		}

		if metaReady {
			for key, value := range locationMeta(rec) {
				if err := meta.Set(ctx, loc.ID, key, value); err != nil {
					log.Warn("location meta not saved", "location_id", loc.ID, "key", key, "error", err)
				}
			}
		}
	}
	log.Info("locations migrated", "inserted", rep.Inserted, "skipped", rep.Skipped)
	return mapping, rep, nil
}

func locationFromRecord(clock *normalize.Normalizer, rec normalize.Record) model.Location {
	status := normalize.Key(rec.String("status"))
	if status == "" {
		status = defaultLocationStatus
	}
	capacity := rec.Int("capacity", "max_capacity")
	created := clock.DateTime(rec.String("created_at", "created"))
	updated := created
	if raw := rec.String("updated_at", "updated"); raw != "" {
		updated = clock.DateTime(raw)
	}
	return model.Location{
		Name:      normalize.Text(rec.String("name", "title")),
		Address:   normalize.Text(rec.String("address")),
		Phone:     normalize.Text(rec.String("phone", "telephone")),
		Email:     normalize.Email(rec.String("email")),
		Capacity:  clampUint32(capacity),
		Status:    status,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// locationMeta extracts the sidecar values present on a legacy record.
func locationMeta(rec normalize.Record) map[string]string {
	out := make(map[string]string, 2)
	if hours, ok := rec.Raw("hours", "opening_hours"); ok {
		switch h := hours.(type) {
		case string:
			if h != "" {
				out[model.LocationMetaHours] = h
			}
		default:
			if b, err := json.Marshal(h); err == nil {
				out[model.LocationMetaHours] = string(b)
			}
		}
	}
	if _, ok := rec.Raw("waitlist_enabled", "waitlist"); ok {
		flag := "0"
		if rec.Bool("waitlist_enabled", "waitlist") {
			flag = "1"
		}
		out[model.LocationMetaWaitlistEnabled] = flag
	}
	return out
}
