package model

import "github.com/shopspring/decimal"

// DefaultBookingStatus is used when a booking carries no status.
const DefaultBookingStatus = "pending"

// Booking is a table reservation. CustomerID and TableID are 0 when the
// booking could not be linked to a customer or table. The customer
// columns are a snapshot taken at booking time.
//
// Fields:
//  ID              – primary key identifier.
//  CustomerID      – linked customer, 0 for guests.
//  LocationID      – location of the booking.
//  TableID         – assigned table, 0 when unassigned.
//  BookingDate     – YYYY-MM-DD.
//  BookingTime     – HH:MM:SS.
//  BookingDatetime – combined UTC "YYYY-MM-DD HH:MM:SS".
//  PartySize       – number of guests, at least 1.
//  Status          – key such as pending, confirmed, cancelled.
//  TotalAmount     – non-negative amount.
//  SpecialRequests – sanitized rich text.
//  CustomerName    – display name snapshot.
//  CustomerEmail   – e-mail snapshot.
//  CustomerPhone   – phone snapshot.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
    ID              uint64          // rb_bookings.id
    CustomerID      uint64          // rb_bookings.customer_id
    LocationID      uint64          // rb_bookings.location_id
    TableID         uint64          // rb_bookings.table_id
    BookingDate     string          // rb_bookings.booking_date
    BookingTime     string          // rb_bookings.booking_time
    BookingDatetime string          // rb_bookings.booking_datetime
    PartySize       uint32          // rb_bookings.party_size
    Status          string          // rb_bookings.status
    TotalAmount     decimal.Decimal // rb_bookings.total_amount
    SpecialRequests string          // rb_bookings.special_requests
    CustomerName    string          // rb_bookings.customer_name
    CustomerEmail   string          // rb_bookings.customer_email
    CustomerPhone   string          // rb_bookings.customer_phone
    CreatedAt       string          // rb_bookings.created_at
    UpdatedAt       string          // rb_bookings.updated_at
}
