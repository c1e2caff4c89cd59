package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

func TestMigrateTables_GroupedByLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setLegacy(t, options.KeyLegacyTables, `{
		"5": [
			{"id": 11, "table_number": "T1", "capacity": 4, "shape": "Circle", "width": 0, "position_x": 30},
			{"id": 12, "table_number": "  ", "capacity": 2}
		],
		"7": {"table_number": "C3", "capacity": 2},
		"9": {"a": {"Table_Number": "B2", "seats": 6}}
	}`)
	locations := LocationMap{5: 50, 7: 70}

	m, rep, err := MigrateTables(ctx, f.runContext(), f.tableRepo, locations)
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Attempted)
	assert.Equal(t, 3, rep.Inserted)
	assert.Equal(t, 1, rep.Skipped, "blank table number")

	assert.Equal(t, Resolved(11), m.Resolve(50, "t1"))
	// a lone table object takes its location from the key
	assert.True(t, m.Resolve(70, "c3").IsResolved())
	// location 9 has no mapping entry, so the legacy id is kept
	b2 := m.Resolve(9, "b2")
	require.True(t, b2.IsResolved())

	t1, err := f.tableRepo.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), t1.LocationID)
	assert.Equal(t, uint32(4), t1.Capacity)
	assert.Equal(t, "circle", t1.Shape)
	assert.Equal(t, model.DefaultTableStatus, t1.Status)
	assert.Equal(t, model.DefaultTableWidth, t1.Width)
	assert.Equal(t, model.DefaultTableHeight, t1.Height)
	assert.Equal(t, 30, t1.PositionX)

	id, _ := b2.ID()
	tb, err := f.tableRepo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), tb.Capacity)
}

func TestMigrateTables_FlatList(t *testing.T) {
	f := newFixture(t)
	f.setLegacy(t, options.KeyLegacyTables, `[{"id": 0, "location_id": 5, "table_number": "A1"}]`)

	m, rep, err := MigrateTables(context.Background(), f.runContext(), f.tableRepo, LocationMap{5: 5})
	require.NoError(t, err)
	assert.True(t, rep.Migrated())
	assert.True(t, m.Resolve(5, "A1").IsResolved())
}

func TestMigrateTables_PopulatedTableIndexesExistingRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tableRepo.Insert(ctx, &model.Table{
		ID: 7, LocationID: 2, TableNumber: "Patio-1", Status: "available", Shape: "rectangle",
		Width: 120, Height: 120, CreatedAt: testNow, UpdatedAt: testNow,
	}))
	f.setLegacy(t, options.KeyLegacyTables, `[{"location_id": 2, "table_number": "X"}]`)

	m, rep, err := MigrateTables(ctx, f.runContext(), f.tableRepo, LocationMap{})
	require.NoError(t, err)
	assert.Equal(t, string(guardPopulated), rep.Guard)
	assert.Equal(t, Resolved(7), m.Resolve(2, "PATIO-1"))
	assert.False(t, m.Resolve(2, "x").IsResolved())
	assert.Equal(t, int64(1), f.count(t, f.tables.Tables))
}

func TestMigrateTables_NoLegacyData(t *testing.T) {
	f := newFixture(t)
	m, rep, err := MigrateTables(context.Background(), f.runContext(), f.tableRepo, LocationMap{})
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.Equal(t, string(guardNoLegacyData), rep.Guard)
}
