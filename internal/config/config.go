package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
    "time"

    "github.com/iliyamo/restaurant-booking/internal/database"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    LogLevel      string // debug, info, warn, error
    DBDriver      string // mysql or sqlite
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host address
    DBPort        string // database port number
    DBName        string // database name
    DBPath        string // sqlite file path
    TablePrefix   string // install table prefix, e.g. "wp_"
    PluginVersion string // version of the running code; written to rb_version after a migration
    OptionStore   string // sql or redis
    RabbitURL     string // broker URL for migration events; empty disables publishing
    MigrateOnBoot bool   // run the legacy migration when the server starts
    LockTTL       time.Duration

    JWTSecret         string // secret used to sign JWTs
    AccessTTLMin      int    // access token time-to-live in minutes
    AdminUser         string // admin login name
    AdminPasswordHash string // bcrypt hash of the admin password
    BcryptCost        int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config. Connection settings for MySQL are enforced by must(); everything
// else has a default.
func Load() Config {
    c := Config{
        Env:           envStr("APP_ENV", "dev"),
        Port:          envStr("APP_PORT", "8080"),
        LogLevel:      envStr("LOG_LEVEL", "info"),
        DBDriver:      envStr("DB_DRIVER", database.MySQL),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBPath:        envStr("DB_PATH", "restaurant-booking.db"),
        TablePrefix:   envStr("TABLE_PREFIX", "wp_"),
        PluginVersion: envStr("PLUGIN_VERSION", "2.1.0"),
        OptionStore:   envStr("OPTION_STORE", "sql"),
        RabbitURL:     rabbitURL(),
        MigrateOnBoot: envBool("MIGRATE_ON_BOOT", false),
        LockTTL:       envDur("MIGRATION_LOCK_TTL", 10*time.Minute),

        JWTSecret:         os.Getenv("JWT_SECRET"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 15),
        AdminUser:         envStr("ADMIN_USER", "admin"),
        AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
        BcryptCost:        envInt("BCRYPT_COST", 12),
    }
    if c.DBDriver == database.MySQL {
        c.DBUser = must("DB_USER")
        c.DBHost = must("DB_HOST")
        c.DBPort = envStr("DB_PORT", "3306")
        c.DBName = must("DB_NAME")
    }
    return c
}

// DatabaseOptions returns the connection settings for database.Open.
func (c Config) DatabaseOptions() database.Options {
    return database.Options{
        Driver: c.DBDriver,
        User:   c.DBUser,
        Pass:   c.DBPass,
        Host:   c.DBHost,
        Port:   c.DBPort,
        Name:   c.DBName,
        Path:   c.DBPath,
    }
}

// rabbitURL honours RABBITMQ_URL, then AMQP_URL.
func rabbitURL() string {
    if url := os.Getenv("RABBITMQ_URL"); url != "" {
        return url
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
