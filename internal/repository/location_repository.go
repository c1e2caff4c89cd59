// Package repository contains data access logic for the booking tables.
// This file defines the location repository used by the migration engine
// to guard, read and populate the locations table.
package repository

import (
	"context"      // context carries deadlines to DB operations
	"database/sql" // sql provides generic database operations
	"errors"       // errors is used to detect sql.ErrNoRows
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct {
	tableStore
}

// NewLocationRepo constructs a LocationRepo for the given dialect and
// prefixed table name.
func NewLocationRepo(db *sql.DB, dialect, table string) *LocationRepo {
	return &LocationRepo{tableStore{db: db, dialect: dialect, table: table}}
}

// ListIDs returns every location id ordered ascending.
func (r *LocationRepo) ListIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM "+r.table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert writes a location. When l.ID is non-zero the row is written
// with that id; on success l.ID holds the stored id.
func (r *LocationRepo) Insert(ctx context.Context, l *model.Location) error {
	id, err := r.insert(ctx, l.ID,
		[]string{"name", "address", "phone", "email", "capacity", "status", "created_at", "updated_at"},
		[]any{l.Name, l.Address, l.Phone, l.Email, l.Capacity, l.Status, l.CreatedAt, l.UpdatedAt},
	)
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// GetByID fetches a location by id. It returns ErrNotFound if no row
// matches.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	q := "SELECT id, name, address, phone, email, capacity, status, created_at, updated_at FROM " + r.table + " WHERE id = ?"
	var (
		l       model.Location
		address sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.Name, &address, &l.Phone, &l.Email, &l.Capacity, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	l.Address = address.String
	return &l, nil
}
