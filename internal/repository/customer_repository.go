package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// CustomerRepo provides reads and inserts for customers.
type CustomerRepo struct {
	tableStore
}

// NewCustomerRepo constructs a CustomerRepo.
func NewCustomerRepo(db *sql.DB, dialect, table string) *CustomerRepo {
	return &CustomerRepo{tableStore{db: db, dialect: dialect, table: table}}
}

const customerColumns = "id, first_name, last_name, email, phone, status, notes, preferences, created_at, updated_at"

func scanCustomer(sc interface{ Scan(...any) error }, c *model.Customer) error {
	var notes, prefs sql.NullString
	if err := sc.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Status, &notes, &prefs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.Notes = notes.String
	c.Preferences = prefs.String
	return nil
}

// List returns all customers ordered by id.
func (r *CustomerRepo) List(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+customerColumns+" FROM "+r.table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c := new(model.Customer)
		if err := scanCustomer(rows, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert writes a customer row, keeping c.ID when it is non-zero.
func (r *CustomerRepo) Insert(ctx context.Context, c *model.Customer) error {
	id, err := r.insert(ctx, c.ID,
		[]string{"first_name", "last_name", "email", "phone", "status", "notes", "preferences", "created_at", "updated_at"},
		[]any{c.FirstName, c.LastName, c.Email, c.Phone, c.Status, c.Notes, c.Preferences, c.CreatedAt, c.UpdatedAt},
	)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// GetByID fetches a customer by id or returns ErrNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	err := scanCustomer(r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM "+r.table+" WHERE id = ?", id), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
