package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// TableRepo provides reads and inserts for restaurant tables.
type TableRepo struct {
	tableStore
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB, dialect, table string) *TableRepo {
	return &TableRepo{tableStore{db: db, dialect: dialect, table: table}}
}

const tableColumns = "id, location_id, table_number, capacity, status, position_x, position_y, shape, width, height, rotation, created_at, updated_at"

func scanTable(sc interface{ Scan(...any) error }, t *model.Table) error {
	return sc.Scan(&t.ID, &t.LocationID, &t.TableNumber, &t.Capacity, &t.Status,
		&t.PositionX, &t.PositionY, &t.Shape, &t.Width, &t.Height, &t.Rotation,
		&t.CreatedAt, &t.UpdatedAt)
}

// List returns all tables ordered by id.
func (r *TableRepo) List(ctx context.Context) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tableColumns+" FROM "+r.table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []*model.Table
	for rows.Next() {
		t := new(model.Table)
		if err := scanTable(rows, t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert writes a table row, keeping t.ID when it is non-zero.
func (r *TableRepo) Insert(ctx context.Context, t *model.Table) error {
	id, err := r.insert(ctx, t.ID,
		[]string{"location_id", "table_number", "capacity", "status", "position_x", "position_y", "shape", "width", "height", "rotation", "created_at", "updated_at"},
		[]any{t.LocationID, t.TableNumber, t.Capacity, t.Status, t.PositionX, t.PositionY, t.Shape, t.Width, t.Height, t.Rotation, t.CreatedAt, t.UpdatedAt},
	)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// GetByID retrieves a table by its id or returns ErrNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	var t model.Table
	err := scanTable(r.db.QueryRowContext(ctx, "SELECT "+tableColumns+" FROM "+r.table+" WHERE id = ?", id), &t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
