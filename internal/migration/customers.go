package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

const guestName = "Guest"

// MigrateCustomers copies legacy customers into store. When the table
// already has rows the indexes are built from those rows and no legacy
// data is read.
func MigrateCustomers(ctx context.Context, rc *RunContext, store CustomerStore) (CustomerMap, StageReport, error) {
	rep := StageReport{Stage: StageCustomers}
	mapping := NewCustomerMap()

	guard, err := checkTarget(ctx, store)
	if err != nil {
		return mapping, rep, fmt.Errorf("customers guard: %w", err)
	}
	switch guard {
	case guardMissingTable:
		rep.Guard = string(guard)
		return mapping, rep, nil
	case guardPopulated:
		rep.Guard = string(guard)
		rows, err := store.List(ctx)
		if err != nil {
			return mapping, rep, fmt.Errorf("customers identity map: %w", err)
		}
		for _, c := range rows {
			mapping.add(int64(c.ID), c.ID, normalize.EmailKey(c.Email), strings.TrimSpace(c.Phone))
		}
		return mapping, rep, nil
	}

	records := rc.LegacyRecords(ctx, options.KeyLegacyCustomers)
	if len(records) == 0 {
		rep.Guard = string(guardNoLegacyData)
		return mapping, rep, nil
	}

	log := rc.Log.With("stage", StageCustomers)
	for _, rec := range records {
		rep.Attempted++
		legacyID := rec.Int("id", "customer_id")
		c := customerFromRecord(rc.Clock, rec)

		if err := insertKeepingID(legacyID, func(id uint64) { c.ID = id }, func() error { return store.Insert(ctx, &c) }); err != nil {
			rep.Skipped++
			log.Warn("customer skipped", "legacy_id", legacyID, "error", err)
			continue
		}
		rep.Inserted++
		key := legacyID
		if key <= 0 {
			key = int64(c.ID)
		}
		mapping.add(key, c.ID, strings.ToLower(c.Email), c.Phone)
	}
	log.Info("customers migrated", "inserted", rep.Inserted, "skipped", rep.Skipped)
	return mapping, rep, nil
}

func customerFromRecord(clock *normalize.Normalizer, rec normalize.Record) model.Customer {
	first := normalize.Text(rec.String("first_name", "firstname"))
	last := normalize.Text(rec.String("last_name", "lastname"))
	if first == "" && last == "" {
		first, last = splitName(normalize.Text(rec.String("name", "full_name", "customer_name")))
	}
	if first == "" {
		first = guestName
	}

	status := normalize.Key(rec.String("status"))
	switch status {
	case model.CustomerVIP, model.CustomerRegular, model.CustomerBlacklist:
	default:
		status = model.CustomerRegular
	}

	created := clock.DateTime(rec.String("created_at", "created"))
	updated := created
	if raw := rec.String("updated_at", "updated"); raw != "" {
		updated = clock.DateTime(raw)
	}

	return model.Customer{
		FirstName:   first,
		LastName:    last,
		Email:       normalize.Email(rec.String("email", "customer_email")),
		Phone:       normalize.Text(rec.String("phone", "customer_phone", "telephone")),
		Status:      status,
		Notes:       customerNotes(rec),
		Preferences: customerPreferences(rec),
		CreatedAt:   created,
		UpdatedAt:   updated,
	}
}

// splitName cuts a full name at the first run of whitespace.
func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if i := strings.IndexAny(full, " \t"); i >= 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}

func customerNotes(rec normalize.Record) string {
	raw, ok := rec.Raw("notes", "note")
	if !ok {
		return ""
	}
	switch raw.(type) {
	case []any, map[string]any:
		return normalize.RichText(strings.Join(normalize.Strings(raw), "\n"))
	}
	return normalize.RichText(rec.String("notes", "note"))
}

// customerPreferences collapses the legacy value into a JSON array of
// non-empty strings, or "" when nothing is left.
func customerPreferences(rec normalize.Record) string {
	raw, ok := rec.Raw("preferences", "preference")
	if !ok {
		return ""
	}
	var items []string
	if s, isString := raw.(string); isString {
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") {
			if v, err := normalize.DecodeValue([]byte(s)); err == nil {
				items = normalize.Strings(v)
			}
		} else {
			items = strings.Split(s, ",")
		}
	} else {
		items = normalize.Strings(raw)
	}

	clean := make([]string, 0, len(items))
	for _, it := range items {
		if t := normalize.Text(it); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return ""
	}
	return string(b)
}
