package model

// Table is a physical table inside a location, with its position on the
// floor-plan canvas. TableNumber is unique per location when compared
// case-insensitively.
//
// Fields:
//  ID          – primary key identifier.
//  LocationID  – location the table belongs to.
//  TableNumber – label printed on the table (e.g. "A1").
//  Capacity    – seats at the table.
//  Status      – key such as "available" or "maintenance".
//  PositionX   – canvas x coordinate.
//  PositionY   – canvas y coordinate.
//  Shape       – "rectangle", "circle", ...
//  Width       – canvas width.
//  Height      – canvas height.
//  Rotation    – rotation in degrees.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
    ID          uint64 // rb_tables.id
    LocationID  uint64 // rb_tables.location_id
    TableNumber string // rb_tables.table_number
    Capacity    uint32 // rb_tables.capacity
    Status      string // rb_tables.status
    PositionX   int    // rb_tables.position_x
    PositionY   int    // rb_tables.position_y
    Shape       string // rb_tables.shape
    Width       int    // rb_tables.width
    Height      int    // rb_tables.height
    Rotation    int    // rb_tables.rotation
    CreatedAt   string // rb_tables.created_at
    UpdatedAt   string // rb_tables.updated_at
}

// Defaults applied to tables whose legacy layout omits a field.
const (
    DefaultTableStatus = "available"
    DefaultTableShape  = "rectangle"
    DefaultTableWidth  = 120
    DefaultTableHeight = 120
)
