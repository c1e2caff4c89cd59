// Package options provides the key/value option stores the migration
// reads legacy datasets and bookkeeping flags from. Two backends exist:
// the SQL options table (repository.OptionRepo) and Redis.
package options

import "context"

// Store is a string key/value store. Get reports whether the key was
// present so callers can tell an empty value from a missing one.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Well-known option keys.
const (
	KeyLegacyLocations = "rb_locations"
	KeyLegacyTables    = "rb_tables"
	KeyLegacyCustomers = "rb_customers"
	KeyLegacyBookings  = "rb_bookings"

	KeyVersion       = "rb_version"
	KeyLegacyVersion = "restaurant_booking_version"
	KeyMigrationFlag = "rb_legacy_migration_complete"
)

// GetDefault returns the stored value or def when the key is missing or
// unreadable.
func GetDefault(ctx context.Context, s Store, key, def string) string {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return v
}
