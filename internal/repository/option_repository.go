package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/database"
)

// OptionRepo reads and writes the key/value options table. Legacy
// datasets, version strings and the migration flag all live here.
type OptionRepo struct {
	tableStore
}

// NewOptionRepo constructs an OptionRepo.
func NewOptionRepo(db *sql.DB, dialect, table string) *OptionRepo {
	return &OptionRepo{tableStore{db: db, dialect: dialect, table: table}}
}

// Get returns the raw value of an option and whether it was present.
func (r *OptionRepo) Get(ctx context.Context, name string) (string, bool, error) {
	var v string
	q := "SELECT option_value FROM " + r.table + " WHERE option_name = ? LIMIT 1"
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get option %s: %w", name, err)
	}
	return v, true, nil
}

// Set creates or replaces an option value.
func (r *OptionRepo) Set(ctx context.Context, name, value string) error {
	var q string
	switch r.dialect {
	case database.SQLite:
		q = "INSERT INTO " + r.table + ` (option_name, option_value) VALUES (?, ?)
		     ON CONFLICT (option_name) DO UPDATE SET option_value = excluded.option_value`
	default:
		q = "INSERT INTO " + r.table + ` (option_name, option_value) VALUES (?, ?)
		     ON DUPLICATE KEY UPDATE option_value = VALUES(option_value)`
	}
	if _, err := r.db.ExecContext(ctx, q, name, value); err != nil {
		return fmt.Errorf("set option %s: %w", name, err)
	}
	return nil
}

// Delete removes an option. Deleting a missing option is not an error.
func (r *OptionRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE option_name = ?", name); err != nil {
		return fmt.Errorf("delete option %s: %w", name, err)
	}
	return nil
}
