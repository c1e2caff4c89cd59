package database

// Tables holds the fully prefixed names of every table the service touches.
type Tables struct {
	Locations    string
	LocationMeta string
	Tables       string
	Customers    string
	Bookings     string
	Options      string
}

// NewTables builds table names for an install prefix such as "wp_".
func NewTables(prefix string) Tables {
	return Tables{
		Locations:    prefix + "rb_locations",
		LocationMeta: prefix + "rb_location_meta",
		Tables:       prefix + "rb_tables",
		Customers:    prefix + "rb_customers",
		Bookings:     prefix + "rb_bookings",
		Options:      prefix + "options",
	}
}
