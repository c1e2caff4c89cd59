package database

import (
	"context"
	"database/sql"
	"fmt"
)

// tableDDL is a CREATE TABLE statement with a %s placeholder for the
// prefixed table name. No foreign keys are declared: legacy rows may carry
// unresolved references, stored as 0.
type tableDDL struct {
	name func(Tables) string
	ddl  string
}

var mysqlSchema = []tableDDL{
	{func(t Tables) string { return t.Locations }, `CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(191) NOT NULL DEFAULT '',
		address TEXT NULL,
		phone VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(191) NOT NULL DEFAULT '',
		capacity INT UNSIGNED NOT NULL DEFAULT 0,
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	) DEFAULT CHARSET=utf8mb4`},
	{func(t Tables) string { return t.LocationMeta }, `CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		location_id BIGINT UNSIGNED NOT NULL,
		meta_key VARCHAR(191) NOT NULL,
		meta_value LONGTEXT NULL,
		UNIQUE KEY location_meta (location_id, meta_key)
	) DEFAULT CHARSET=utf8mb4`},
	{func(t Tables) string { return t.Tables }, `CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		location_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		table_number VARCHAR(50) NOT NULL,
		capacity INT UNSIGNED NOT NULL DEFAULT 0,
		status VARCHAR(50) NOT NULL DEFAULT 'available',
		position_x INT NOT NULL DEFAULT 0,
		position_y INT NOT NULL DEFAULT 0,
		shape VARCHAR(50) NOT NULL DEFAULT 'rectangle',
		width INT NOT NULL DEFAULT 120,
		height INT NOT NULL DEFAULT 120,
		rotation INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY location_id (location_id)
	) DEFAULT CHARSET=utf8mb4`},
	{func(t Tables) string { return t.Customers }, `CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		email VARCHAR(191) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'regular',
		notes TEXT NULL,
		preferences TEXT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY email (email),
		KEY phone (phone)
	) DEFAULT CHARSET=utf8mb4`},
	{func(t Tables) string { return t.Bookings }, `CREATE TABLE IF NOT EXISTS %s (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customer_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		location_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		table_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		booking_date DATE NOT NULL,
		booking_time TIME NOT NULL,
		booking_datetime DATETIME NOT NULL,
		party_size INT UNSIGNED NOT NULL DEFAULT 1,
		status VARCHAR(50) NOT NULL DEFAULT 'pending',
		total_amount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		special_requests TEXT NULL,
		customer_name VARCHAR(191) NOT NULL DEFAULT '',
		customer_email VARCHAR(191) NOT NULL DEFAULT '',
		customer_phone VARCHAR(50) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY booking_datetime (booking_datetime),
		KEY location_id (location_id)
	) DEFAULT CHARSET=utf8mb4`},
	{func(t Tables) string { return t.Options }, `CREATE TABLE IF NOT EXISTS %s (
		option_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		option_name VARCHAR(191) NOT NULL,
		option_value LONGTEXT NOT NULL,
		autoload VARCHAR(20) NOT NULL DEFAULT 'yes',
		UNIQUE KEY option_name (option_name)
	) DEFAULT CHARSET=utf8mb4`},
}

var sqliteSchema = []tableDDL{
	{func(t Tables) string { return t.Locations }, `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		address TEXT,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{func(t Tables) string { return t.LocationMeta }, `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location_id INTEGER NOT NULL,
		meta_key TEXT NOT NULL,
		meta_value TEXT,
		UNIQUE (location_id, meta_key)
	)`},
	{func(t Tables) string { return t.Tables }, `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		location_id INTEGER NOT NULL DEFAULT 0,
		table_number TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'available',
		position_x INTEGER NOT NULL DEFAULT 0,
		position_y INTEGER NOT NULL DEFAULT 0,
		shape TEXT NOT NULL DEFAULT 'rectangle',
		width INTEGER NOT NULL DEFAULT 120,
		height INTEGER NOT NULL DEFAULT 120,
		rotation INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{func(t Tables) string { return t.Customers }, `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'regular',
		notes TEXT,
		preferences TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{func(t Tables) string { return t.Bookings }, `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id INTEGER NOT NULL DEFAULT 0,
		location_id INTEGER NOT NULL DEFAULT 0,
		table_id INTEGER NOT NULL DEFAULT 0,
		booking_date TEXT NOT NULL,
		booking_time TEXT NOT NULL,
		booking_datetime TEXT NOT NULL,
		party_size INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'pending',
		total_amount TEXT NOT NULL DEFAULT '0.00',
		special_requests TEXT,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`},
	{func(t Tables) string { return t.Options }, `CREATE TABLE IF NOT EXISTS %s (
		option_id INTEGER PRIMARY KEY AUTOINCREMENT,
		option_name TEXT NOT NULL UNIQUE,
		option_value TEXT NOT NULL,
		autoload TEXT NOT NULL DEFAULT 'yes'
	)`},
}

// EnsureSchema creates every table that does not exist yet. Calling it
// again is a no-op.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect string, t Tables) error {
	var stmts []tableDDL
	switch dialect {
	case MySQL:
		stmts = mysqlSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}
	for _, s := range stmts {
		name := s.name(t)
		if _, err := db.ExecContext(ctx, fmt.Sprintf(s.ddl, name)); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}
