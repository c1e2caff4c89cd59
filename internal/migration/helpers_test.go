package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

const testNow = "2025-03-10 14:05:09"

// fixture is an in-memory SQLite install with every table created.
type fixture struct {
	db     *sql.DB
	tables database.Tables
	opts   *repository.OptionRepo
	clock  *normalize.Normalizer

	locations *repository.LocationRepo
	meta      *repository.LocationMetaRepo
	tableRepo *repository.TableRepo
	customers *repository.CustomerRepo
	bookings  *repository.BookingRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.SQLite})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := database.NewTables("wp_")
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.SQLite, tables))

	return &fixture{
		db:     db,
		tables: tables,
		opts:   repository.NewOptionRepo(db, database.SQLite, tables.Options),
		clock: &normalize.Normalizer{Now: func() time.Time {
			return time.Date(2025, time.March, 10, 14, 5, 9, 0, time.UTC)
		}},
		locations: repository.NewLocationRepo(db, database.SQLite, tables.Locations),
		meta:      repository.NewLocationMetaRepo(db, database.SQLite, tables.LocationMeta),
		tableRepo: repository.NewTableRepo(db, database.SQLite, tables.Tables),
		customers: repository.NewCustomerRepo(db, database.SQLite, tables.Customers),
		bookings:  repository.NewBookingRepo(db, database.SQLite, tables.Bookings),
	}
}

func (f *fixture) stores() Stores {
	return NewSQLStores(f.db, database.SQLite, f.tables)
}

// setLegacy stores v as the JSON blob under key; strings are stored as is.
func (f *fixture) setLegacy(t *testing.T, key string, v any) {
	t.Helper()
	raw, ok := v.(string)
	if !ok {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		raw = string(b)
	}
	require.NoError(t, f.opts.Set(context.Background(), key, raw))
}

func (f *fixture) runContext() *RunContext {
	return NewRunContext("test-run", f.opts, f.clock, nil)
}

func (f *fixture) migrator(cfg Config) *Migrator {
	if cfg.Options == nil {
		cfg.Options = f.opts
	}
	if cfg.Stores == (Stores{}) {
		cfg.Stores = f.stores()
	}
	if cfg.CurrentVersion == "" {
		cfg.CurrentVersion = "2.1.0"
	}
	if cfg.Clock == nil {
		cfg.Clock = f.clock
	}
	return New(cfg)
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func (f *fixture) option(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := f.opts.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}
