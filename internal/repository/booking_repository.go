package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// BookingRepo provides reads and inserts for bookings. All date and
// time columns hold canonical UTC strings.
type BookingRepo struct {
	tableStore
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB, dialect, table string) *BookingRepo {
	return &BookingRepo{tableStore{db: db, dialect: dialect, table: table}}
}

const bookingColumns = `id, customer_id, location_id, table_id, booking_date, booking_time, booking_datetime,
	party_size, status, total_amount, special_requests, customer_name, customer_email, customer_phone,
	created_at, updated_at`

func scanBooking(sc interface{ Scan(...any) error }, b *model.Booking) error {
	var requests sql.NullString
	err := sc.Scan(&b.ID, &b.CustomerID, &b.LocationID, &b.TableID, &b.BookingDate, &b.BookingTime, &b.BookingDatetime,
		&b.PartySize, &b.Status, &b.TotalAmount, &requests, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.SpecialRequests = requests.String
	return nil
}

// Insert writes a booking row, keeping b.ID when it is non-zero.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	id, err := r.insert(ctx, b.ID,
		[]string{"customer_id", "location_id", "table_id", "booking_date", "booking_time", "booking_datetime",
			"party_size", "status", "total_amount", "special_requests", "customer_name", "customer_email", "customer_phone",
			"created_at", "updated_at"},
		[]any{b.CustomerID, b.LocationID, b.TableID, b.BookingDate, b.BookingTime, b.BookingDatetime,
			b.PartySize, b.Status, b.TotalAmount.StringFixed(2), b.SpecialRequests, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
			b.CreatedAt, b.UpdatedAt},
	)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// List returns all bookings ordered by booking_datetime then id.
func (r *BookingRepo) List(ctx context.Context) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+bookingColumns+" FROM "+r.table+" ORDER BY booking_datetime, id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		b := new(model.Booking)
		if err := scanBooking(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a booking by id or returns ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM "+r.table+" WHERE id = ?", id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
