package model

// Location represents one restaurant venue. Tables and bookings
// reference a location by id. This struct corresponds to a row in the
// `rb_locations` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the venue.
//  Address   – free text postal address.
//  Phone     – contact phone number.
//  Email     – contact e-mail (empty when invalid).
//  Capacity  – total covers, never negative.
//  Status    – key such as "active" or "closed".
//  CreatedAt – canonical UTC timestamp of creation.
//  UpdatedAt – canonical UTC timestamp of last update.
type Location struct {
    ID        uint64 // rb_locations.id
    Name      string // rb_locations.name
    Address   string // rb_locations.address
    Phone     string // rb_locations.phone
    Email     string // rb_locations.email
    Capacity  uint32 // rb_locations.capacity
    Status    string // rb_locations.status
    CreatedAt string // rb_locations.created_at
    UpdatedAt string // rb_locations.updated_at
}

// Location meta keys kept in the `rb_location_meta` sidecar.
const (
    LocationMetaHours           = "hours"
    LocationMetaWaitlistEnabled = "waitlist_enabled"
)
