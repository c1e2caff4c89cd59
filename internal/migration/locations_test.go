package migration

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

func TestMigrateLocations_PreservesLegacyIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setLegacy(t, options.KeyLegacyLocations, `[
		{"id": 42, "Name": "<b>Harbour</b> View", "capacity": "-4", "Email": "HELLO@harbour.example.com",
		 "hours": {"mon": "12-22"}, "waitlist_enabled": "yes", "created_at": "2023-05-01 10:00"},
		{"name": "No Id", "status": "Closed"}
	]`)

	m, rep, err := MigrateLocations(ctx, f.runContext(), f.locations, f.meta)
	require.NoError(t, err)
	assert.True(t, rep.Migrated())
	assert.Equal(t, 2, rep.Inserted)
	assert.Equal(t, uint64(42), m[42])
	require.Len(t, m, 2)

	loc, err := f.locations.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Harbour View", loc.Name)
	assert.Equal(t, uint32(0), loc.Capacity)
	assert.Equal(t, "active", loc.Status)
	assert.Equal(t, "HELLO@harbour.example.com", loc.Email)
	assert.Equal(t, "2023-05-01 10:00:00", loc.CreatedAt)
	assert.Equal(t, loc.CreatedAt, loc.UpdatedAt)

	hours, err := f.meta.Get(ctx, 42, model.LocationMetaHours)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mon":"12-22"}`, hours)
	waitlist, err := f.meta.Get(ctx, 42, model.LocationMetaWaitlistEnabled)
	require.NoError(t, err)
	assert.Equal(t, "1", waitlist)

	// the record without an id is keyed by its new id
	for legacy, id := range m {
		if legacy != 42 {
			assert.Equal(t, int64(id), legacy)
			other, err := f.locations.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "closed", other.Status)
			assert.Equal(t, testNow, other.CreatedAt)
		}
	}
}

func TestMigrateLocations_PopulatedTableBuildsIdentityMap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []uint64{3, 8} {
		require.NoError(t, f.locations.Insert(ctx, &model.Location{ID: id, Name: "x", Status: "active", CreatedAt: testNow, UpdatedAt: testNow}))
	}
	f.setLegacy(t, options.KeyLegacyLocations, `[{"id": 1, "name": "Ignored"}]`)

	m, rep, err := MigrateLocations(ctx, f.runContext(), f.locations, f.meta)
	require.NoError(t, err)
	assert.False(t, rep.Migrated())
	assert.Equal(t, string(guardPopulated), rep.Guard)
	assert.Equal(t, LocationMap{3: 3, 8: 8}, m)
	assert.Equal(t, int64(2), f.count(t, f.tables.Locations))
}

func TestMigrateLocations_MissingTable(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Exec("DROP TABLE " + f.tables.Locations)
	require.NoError(t, err)
	f.setLegacy(t, options.KeyLegacyLocations, `[{"id": 1, "name": "Main"}]`)

	m, rep, err := MigrateLocations(context.Background(), f.runContext(), f.locations, f.meta)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.Equal(t, string(guardMissingTable), rep.Guard)
	assert.Zero(t, rep.Attempted)
}

func TestMigrateLocations_NoLegacyData(t *testing.T) {
	f := newFixture(t)
	for _, raw := range []string{"", "not json", "[]", "null"} {
		if raw != "" {
			f.setLegacy(t, options.KeyLegacyLocations, raw)
		}
		m, rep, err := MigrateLocations(context.Background(), f.runContext(), f.locations, f.meta)
		require.NoError(t, err)
		assert.Empty(t, m)
		assert.Equal(t, string(guardNoLegacyData), rep.Guard, "blob %q", raw)
	}
}

func TestMigrateLocations_WithoutMetaTable(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Exec("DROP TABLE " + f.tables.LocationMeta)
	require.NoError(t, err)
	f.setLegacy(t, options.KeyLegacyLocations, `[{"id": 2, "name": "Main", "hours": "9-5"}]`)

	m, rep, err := MigrateLocations(context.Background(), f.runContext(), f.locations, f.meta)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, uint64(2), m[2])
}

func TestMigrateLocations_RepeatedLegacyIDKeepsFirstRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setLegacy(t, options.KeyLegacyLocations, `[
		{"id": 5, "name": "A", "capacity": 5000000000},
		{"id": 5, "name": "B"}
	]`)

	m, rep, err := MigrateLocations(ctx, f.runContext(), f.locations, f.meta)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Inserted)
	assert.Equal(t, LocationMap{5: 5}, m)

	a, err := f.locations.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, uint32(math.MaxUint32), a.Capacity)
	assert.Equal(t, int64(2), f.count(t, f.tables.Locations))
}
