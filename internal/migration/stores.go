package migration

import (
	"context"
	"database/sql"
	"math"

	"github.com/iliyamo/restaurant-booking/internal/database"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// guarded is the part of every target store the "table exists and is
// empty" guards need.
type guarded interface {
	Exists(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// LocationStore is the target of the location mapper.
type LocationStore interface {
	guarded
	ListIDs(ctx context.Context) ([]uint64, error)
	Insert(ctx context.Context, l *model.Location) error
}

// LocationMetaStore receives extended location settings.
type LocationMetaStore interface {
	Exists(ctx context.Context) (bool, error)
	Set(ctx context.Context, locationID uint64, key, value string) error
}

// TableStore is the target of the table mapper.
type TableStore interface {
	guarded
	List(ctx context.Context) ([]*model.Table, error)
	Insert(ctx context.Context, t *model.Table) error
}

// CustomerStore is the target of the customer mapper.
type CustomerStore interface {
	guarded
	List(ctx context.Context) ([]*model.Customer, error)
	Insert(ctx context.Context, c *model.Customer) error
}

// BookingStore is the target of the booking mapper.
type BookingStore interface {
	guarded
	Insert(ctx context.Context, b *model.Booking) error
}

// Stores bundles the targets of one migration.
type Stores struct {
	Locations    LocationStore
	LocationMeta LocationMetaStore
	Tables       TableStore
	Customers    CustomerStore
	Bookings     BookingStore
}

// NewSQLStores wires the SQL repositories for an install.
func NewSQLStores(db *sql.DB, dialect string, t database.Tables) Stores {
	return Stores{
		Locations:    repository.NewLocationRepo(db, dialect, t.Locations),
		LocationMeta: repository.NewLocationMetaRepo(db, dialect, t.LocationMeta),
		Tables:       repository.NewTableRepo(db, dialect, t.Tables),
		Customers:    repository.NewCustomerRepo(db, dialect, t.Customers),
		Bookings:     repository.NewBookingRepo(db, dialect, t.Bookings),
	}
}

// guardState describes why a mapper did or did not migrate.
type guardState string

const (
	guardNone         guardState = ""
	guardMissingTable guardState = "missing_table"
	guardPopulated    guardState = "populated"
	guardNoLegacyData guardState = "no_legacy_data"
)

// checkTarget reports missing_table, populated or none for a target.
func checkTarget(ctx context.Context, s guarded) (guardState, error) {
	ok, err := s.Exists(ctx)
	if err != nil {
		return guardNone, err
	}
	if !ok {
		return guardMissingTable, nil
	}
	n, err := s.Count(ctx)
	if err != nil {
		return guardNone, err
	}
	if n > 0 {
		return guardPopulated, nil
	}
	return guardNone, nil
}

// insertKeepingID tries to write the row with its legacy id first and
// falls back to a store-assigned id when the explicit write fails.
func insertKeepingID(legacyID int64, setID func(uint64), insert func() error) error {
	if legacyID > 0 {
		setID(uint64(legacyID))
		if err := insert(); err == nil {
			return nil
		}
	}
	setID(0)
	return insert()
}

// clampUint32 bounds a legacy count to the column range; negatives become 0.
func clampUint32(v int64) uint32 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}
