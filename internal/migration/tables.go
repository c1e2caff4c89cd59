package migration

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

// legacyTable is one table layout entry with the legacy location it was
// filed under.
type legacyTable struct {
	locationID int64
	rec        normalize.Record
}

// MigrateTables copies legacy table layouts into store, translating each
// location through locations. When the table already has rows the
// returned map indexes the existing rows instead.
func MigrateTables(ctx context.Context, rc *RunContext, store TableStore, locations LocationMap) (TableMap, StageReport, error) {
	rep := StageReport{Stage: StageTables}
	mapping := make(TableMap)

	guard, err := checkTarget(ctx, store)
	if err != nil {
		return mapping, rep, fmt.Errorf("tables guard: %w", err)
	}
	switch guard {
	case guardMissingTable:
		rep.Guard = string(guard)
		return mapping, rep, nil
	case guardPopulated:
		rep.Guard = string(guard)
		rows, err := store.List(ctx)
		if err != nil {
			return mapping, rep, fmt.Errorf("tables identity map: %w", err)
		}
		for _, t := range rows {
			mapping.add(t.LocationID, t.TableNumber, t.ID)
		}
		return mapping, rep, nil
	}

	raw, ok := rc.Legacy(ctx, options.KeyLegacyTables)
	entries := legacyTables(raw)
	if !ok || len(entries) == 0 {
		rep.Guard = string(guardNoLegacyData)
		return mapping, rep, nil
	}

	log := rc.Log.With("stage", StageTables)
	for _, e := range entries {
		rep.Attempted++
		legacyID := e.rec.Int("id", "table_id")
		t := tableFromRecord(rc.Clock, e.rec)
		if t.TableNumber == "" {
			rep.Skipped++
			log.Warn("table skipped: no table number", "legacy_id", legacyID, "legacy_location_id", e.locationID)
			continue
		}
		t.LocationID = locations.Remap(e.locationID)

		if err := insertKeepingID(legacyID, func(id uint64) { t.ID = id }, func() error { return store.Insert(ctx, &t) }); err != nil {
			rep.Skipped++
			log.Warn("table skipped", "legacy_id", legacyID, "table_number", t.TableNumber, "error", err)
			continue
		}
		rep.Inserted++
		mapping.add(t.LocationID, t.TableNumber, t.ID)
	}
	log.Info("tables migrated", "inserted", rep.Inserted, "skipped", rep.Skipped)
	return mapping, rep, nil
}

// legacyTables flattens the stored layouts. The usual shape is an object
// keyed by legacy location id whose values are lists (or objects) of
// tables; a flat list where each table carries location_id is also read.
func legacyTables(v any) []legacyTable {
	var out []legacyTable
	switch t := v.(type) {
	case []any:
		for _, rec := range normalize.RecordsFrom(t) {
			out = append(out, legacyTable{locationID: rec.Int("location_id", "location"), rec: rec})
		}
	case map[string]any:
		for _, key := range normalize.SortedKeys(t) {
			group := t[key]
			keyID, keyErr := strconv.ParseInt(key, 10, 64)
			if m, ok := group.(map[string]any); ok && looksLikeTable(m) {
				// a single table object filed directly under its location id
				rec := normalize.NewRecord(m)
				loc := rec.Int("location_id", "location")
				if loc <= 0 && keyErr == nil && keyID > 0 {
					loc = keyID
				}
				out = append(out, legacyTable{locationID: loc, rec: rec})
				continue
			}
			for _, rec := range normalize.RecordsFrom(group) {
				loc := keyID
				if keyErr != nil || keyID <= 0 {
					loc = rec.Int("location_id", "location")
				}
				out = append(out, legacyTable{locationID: loc, rec: rec})
			}
		}
	}
	return out
}

func looksLikeTable(m map[string]any) bool {
	rec := normalize.NewRecord(m)
	_, ok := rec.Raw("table_number", "number")
	return ok
}

func tableFromRecord(clock *normalize.Normalizer, rec normalize.Record) model.Table {
	status := normalize.Key(rec.String("status"))
	if status == "" {
		status = model.DefaultTableStatus
	}
	shape := normalize.Key(rec.String("shape"))
	if shape == "" {
		shape = model.DefaultTableShape
	}
	capacity := rec.Int("capacity", "seats")
	created := clock.DateTime(rec.String("created_at", "created"))
	updated := created
	if raw := rec.String("updated_at", "updated"); raw != "" {
		updated = clock.DateTime(raw)
	}
	return model.Table{
		TableNumber: normalize.Text(rec.String("table_number", "number", "name", "label")),
		Capacity:    clampUint32(capacity),
		Status:      status,
		PositionX:   int(rec.Int("position_x", "x")),
		PositionY:   int(rec.Int("position_y", "y")),
		Shape:       shape,
		Width:       positiveOr(rec.Int("width"), model.DefaultTableWidth),
		Height:      positiveOr(rec.Int("height"), model.DefaultTableHeight),
		Rotation:    int(rec.Int("rotation")),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

func positiveOr(v int64, def int) int {
	if v > 0 {
		return int(v)
	}
	return def
}
