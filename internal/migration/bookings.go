package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/normalize"
	"github.com/iliyamo/restaurant-booking/internal/options"
)

// bookingRefs is the outcome of resolving a legacy booking's references.
type bookingRefs struct {
	location uint64
	customer Lookup
	table    Lookup
}

// MigrateBookings copies legacy bookings into store. Unlike the other
// mappers it does nothing at all once the table holds a single row:
// bookings cannot be rebuilt from a partial mapping.
func MigrateBookings(ctx context.Context, rc *RunContext, store BookingStore, locations LocationMap, tables TableMap, customers CustomerMap) (StageReport, error) {
	rep := StageReport{Stage: StageBookings}

	guard, err := checkTarget(ctx, store)
	if err != nil {
		return rep, fmt.Errorf("bookings guard: %w", err)
	}
	if guard != guardNone {
		rep.Guard = string(guard)
		return rep, nil
	}

	records := rc.LegacyRecords(ctx, options.KeyLegacyBookings)
	if len(records) == 0 {
		rep.Guard = string(guardNoLegacyData)
		return rep, nil
	}

	log := rc.Log.With("stage", StageBookings)
	unlinked := 0
	for _, rec := range records {
		rep.Attempted++
		legacyID := rec.Int("id", "booking_id")
		b := bookingFromRecord(rc.Clock, rec)
		refs := resolveBooking(rec, b, locations, tables, customers)
		b.LocationID = refs.location
		b.CustomerID = refs.customer.OrZero()
		b.TableID = refs.table.OrZero()
		if !refs.customer.IsResolved() || !refs.table.IsResolved() {
			unlinked++
		}

		if err := insertKeepingID(legacyID, func(id uint64) { b.ID = id }, func() error { return store.Insert(ctx, &b) }); err != nil {
			rep.Skipped++
			log.Warn("booking skipped", "legacy_id", legacyID, "booking_date", b.BookingDate, "error", err)
			continue
		}
		rep.Inserted++
	}
	log.Info("bookings migrated", "inserted", rep.Inserted, "skipped", rep.Skipped, "partially_linked", unlinked)
	return rep, nil
}

func resolveBooking(rec normalize.Record, b model.Booking, locations LocationMap, tables TableMap, customers CustomerMap) bookingRefs {
	loc := locations.Remap(rec.Int("location_id", "location"))
	return bookingRefs{
		location: loc,
		customer: customers.Resolve(strings.ToLower(b.CustomerEmail), b.CustomerPhone),
		table:    tables.Resolve(loc, normalize.Text(rec.String("table_number", "table"))),
	}
}

func bookingFromRecord(clock *normalize.Normalizer, rec normalize.Record) model.Booking {
	date := clock.Date(rec.String("booking_date", "date"))
	clockTime := clock.Time(rec.String("booking_time", "time"))

	party := rec.Int("party_size", "guests", "people")
	if party < 1 {
		party = 1
	}
	status := normalize.Key(rec.String("status"))
	if status == "" {
		status = model.DefaultBookingStatus
	}

	created := clock.DateTime(rec.String("created_at", "created"))
	updated := created
	if raw := rec.String("updated_at", "updated"); raw != "" {
		updated = clock.DateTime(raw)
	}

	return model.Booking{
		BookingDate:     date,
		BookingTime:     clockTime,
		BookingDatetime: clock.Combine(date, clockTime),
		PartySize:       clampUint32(party),
		Status:          status,
		TotalAmount:     amount(rec.String("total_amount", "amount", "total")),
		SpecialRequests: normalize.RichText(rec.String("special_requests", "requests")),
		CustomerName:    bookingName(rec),
		CustomerEmail:   normalize.Email(rec.String("customer_email", "email")),
		CustomerPhone:   normalize.Text(rec.String("customer_phone", "phone")),
		CreatedAt:       created,
		UpdatedAt:       updated,
	}
}

// bookingName prefers an explicit name, then first + last, then Guest.
func bookingName(rec normalize.Record) string {
	if name := normalize.Text(rec.String("customer_name", "name")); name != "" {
		return name
	}
	first := normalize.Text(rec.String("customer_first_name", "first_name"))
	last := normalize.Text(rec.String("customer_last_name", "last_name"))
	if full := strings.TrimSpace(first + " " + last); full != "" {
		return full
	}
	return guestName
}

// amount parses a money value, returning zero for anything negative or
// unparseable.
func amount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
