package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported dialects.
const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

// Options describes how to reach the store. For MySQL the network fields
// are used, for SQLite only Path.
type Options struct {
	Driver string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
	Path   string
}

// Open connects to MySQL (or SQLite) and verifies the connection.
func Open(o Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch o.Driver {
	case "", MySQL:
		auth := o.User
		if o.Pass != "" {
			auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
		}
		// no parseTime: DATETIME columns scan into canonical "YYYY-MM-DD HH:MM:SS" strings
		dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&loc=UTC",
			auth, o.Host, o.Port, o.Name)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	case SQLite:
		path := o.Path
		if path == "" {
			path = ":memory:"
		}
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		// one connection: ":memory:" databases are per-connection
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", o.Driver)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// TableExists reports whether the named table is present in the current
// database.
func TableExists(ctx context.Context, db *sql.DB, dialect, table string) (bool, error) {
	var (
		q string
		n int
	)
	switch dialect {
	case SQLite:
		q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	default:
		q = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
	}
	if err := db.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
		return false, fmt.Errorf("table exists %s: %w", table, err)
	}
	return n > 0, nil
}
