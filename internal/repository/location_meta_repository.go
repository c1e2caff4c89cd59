package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/database"
)

// LocationMetaRepo stores extended per-location settings (opening hours,
// waitlist flag) as key/value rows next to the locations table.
type LocationMetaRepo struct {
	tableStore
}

// NewLocationMetaRepo constructs a LocationMetaRepo.
func NewLocationMetaRepo(db *sql.DB, dialect, table string) *LocationMetaRepo {
	return &LocationMetaRepo{tableStore{db: db, dialect: dialect, table: table}}
}

// Set writes or replaces one meta value for a location.
func (r *LocationMetaRepo) Set(ctx context.Context, locationID uint64, key, value string) error {
	var q string
	switch r.dialect {
	case database.SQLite:
		q = "INSERT INTO " + r.table + ` (location_id, meta_key, meta_value) VALUES (?, ?, ?)
		     ON CONFLICT (location_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`
	default:
		q = "INSERT INTO " + r.table + ` (location_id, meta_key, meta_value) VALUES (?, ?, ?)
		     ON DUPLICATE KEY UPDATE meta_value = VALUES(meta_value)`
	}
	if _, err := r.db.ExecContext(ctx, q, locationID, key, value); err != nil {
		return fmt.Errorf("set %s %d/%s: %w", r.table, locationID, key, err)
	}
	return nil
}

// Get returns one meta value, or ErrNotFound.
func (r *LocationMetaRepo) Get(ctx context.Context, locationID uint64, key string) (string, error) {
	var v sql.NullString
	q := "SELECT meta_value FROM " + r.table + " WHERE location_id = ? AND meta_key = ?"
	if err := r.db.QueryRowContext(ctx, q, locationID, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v.String, nil
}
