package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/database"
)

// tableStore holds what every entity repository needs: a DB handle, the
// dialect for catalog queries and the prefixed table name.
type tableStore struct {
	db      *sql.DB
	dialect string
	table   string
}

// Exists reports whether the backing table has been created.
func (s tableStore) Exists(ctx context.Context) (bool, error) {
	return database.TableExists(ctx, s.db, s.dialect, s.table)
}

// Count returns the number of rows in the backing table.
func (s tableStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return n, nil
}

// insert writes one row and returns its id. When id is non-zero the
// row is written with that explicit primary key.
func (s tableStore) insert(ctx context.Context, id uint64, cols []string, args []any) (uint64, error) {
	if id > 0 {
		cols = append([]string{"id"}, cols...)
		args = append([]any{id}, args...)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(cols, ", "), marks)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", s.table, err)
	}
	newID, err := res.LastInsertId()
	if err != nil || newID <= 0 {
		if id > 0 {
			return id, nil
		}
		if err == nil {
			err = errors.New("no id assigned")
		}
		return 0, fmt.Errorf("insert %s: %w", s.table, err)
	}
	return uint64(newID), nil
}
