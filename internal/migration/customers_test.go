package migration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

func TestMigrateCustomers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.setLegacy(t, options.KeyLegacyCustomers, `{
		"3": {"id": 3, "name": "Ada  Lovelace", "Email": "Ada@Example.com", "phone": "555-1",
		      "status": "VIP", "notes": ["allergic to nuts", "<b>birthday</b>"],
		      "preferences": "window, quiet ,"},
		"4": {"first_name": "Bo", "email": "bogus", "status": "gold", "preferences": ["booth"]},
		"5": {"email": "", "phone": ""}
	}`)

	m, rep, err := MigrateCustomers(ctx, f.runContext(), f.customers)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Inserted)

	ada, err := f.customers.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Ada", ada.FirstName)
	assert.Equal(t, "Lovelace", ada.LastName)
	assert.Equal(t, model.CustomerVIP, ada.Status)
	assert.Equal(t, `["window","quiet"]`, ada.Preferences)
	assert.Contains(t, ada.Notes, "allergic to nuts")
	assert.Contains(t, ada.Notes, "<b>birthday</b>")

	assert.Equal(t, Resolved(3), m.Resolve("ada@example.com", ""))
	assert.Equal(t, Resolved(3), m.Resolve("", "555-1"))
	assert.Equal(t, uint64(3), m.ByID[3])

	rows, err := f.customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	var bo, guest *model.Customer
	for _, c := range rows {
		switch c.FirstName {
		case "Bo":
			bo = c
		case guestName:
			guest = c
		}
	}
	require.NotNil(t, bo)
	assert.Equal(t, "", bo.Email, "invalid e-mail is dropped")
	assert.Equal(t, model.CustomerRegular, bo.Status)
	assert.Equal(t, `["booth"]`, bo.Preferences)

	require.NotNil(t, guest)
	assert.Equal(t, "", guest.Preferences)
	assert.Equal(t, testNow, guest.CreatedAt)
}

func TestMigrateCustomers_PopulatedTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.customers.Insert(ctx, &model.Customer{
		ID: 20, FirstName: "Existing", Email: "Old@Example.com", Phone: "999",
		Status: model.CustomerRegular, CreatedAt: testNow, UpdatedAt: testNow,
	}))
	f.setLegacy(t, options.KeyLegacyCustomers, `[{"id": 1, "email": "new@example.com"}]`)

	m, rep, err := MigrateCustomers(ctx, f.runContext(), f.customers)
	require.NoError(t, err)
	assert.Equal(t, string(guardPopulated), rep.Guard)
	assert.Equal(t, Resolved(20), m.Resolve("old@example.com", ""))
	assert.Equal(t, Resolved(20), m.Resolve("", "999"))
	assert.False(t, m.Resolve("new@example.com", "").IsResolved())
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Grace Brewster Hopper")
	assert.Equal(t, "Grace", first)
	assert.Equal(t, "Brewster Hopper", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Equal(t, "", last)
}

func TestMigrateCustomers_RepeatedLegacyIDKeepsFirstRow(t *testing.T) {
	f := newFixture(t)
	f.setLegacy(t, options.KeyLegacyCustomers, `[
		{"id": 5, "email": "first@example.com"},
		{"id": 5, "email": "second@example.com"}
	]`)

	m, rep, err := MigrateCustomers(context.Background(), f.runContext(), f.customers)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Inserted)
	assert.Equal(t, uint64(5), m.ByID[5])
	assert.Equal(t, Resolved(5), m.Resolve("first@example.com", ""))
	assert.True(t, m.Resolve("second@example.com", "").IsResolved())
	assert.NotEqual(t, Resolved(5), m.Resolve("second@example.com", ""))
}
