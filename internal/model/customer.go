package model

// Customer statuses accepted by the customers table.
const (
    CustomerVIP       = "vip"
    CustomerRegular   = "regular"
    CustomerBlacklist = "blacklist"
)

// Customer is a guest known to the restaurant. Customers are matched
// by e-mail first and phone second.
//
// Fields:
//  ID          – primary key identifier.
//  FirstName   – given name ("Guest" when unknown).
//  LastName    – family name.
//  Email       – e-mail address, may be empty.
//  Phone       – phone number, may be empty.
//  Status      – one of vip, regular, blacklist.
//  Notes       – staff notes, sanitized rich text.
//  Preferences – JSON array of strings, or "" when none.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Customer struct {
    ID          uint64 // rb_customers.id
    FirstName   string // rb_customers.first_name
    LastName    string // rb_customers.last_name
    Email       string // rb_customers.email
    Phone       string // rb_customers.phone
    Status      string // rb_customers.status
    Notes       string // rb_customers.notes
    Preferences string // rb_customers.preferences
    CreatedAt   string // rb_customers.created_at
    UpdatedAt   string // rb_customers.updated_at
}
