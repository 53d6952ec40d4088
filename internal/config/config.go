package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	defaultPort      = 8000
	defaultStaticDir = "./static"
)

// ErrMissingDSN is returned when no database connection string can be found
// in the environment.
var ErrMissingDSN = errors.New("database connection string is not set (DATABASE_URL or MYSQL_URI)")

// Config holds everything the process reads from its environment at startup.
type Config struct {
	Port        int
	StaticDir   string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
	Database    Database
}

// Database configures the pooled connection handle.
type Database struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// Overrides holds command line values. A non-empty field wins over its
// environment variable and is validated in its place.
type Overrides struct {
	Port      string
	StaticDir string
	LogLevel  string
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadWith(Overrides{})
}

// LoadWith reads the environment, letting o take precedence.
func LoadWith(o Overrides) (Config, error) {
	cfg := Config{
		StaticDir:   firstSet(o.StaticDir, getEnv("STATIC_DIR", defaultStaticDir)),
		LogLevel:    firstSet(o.LogLevel, getEnv("LOG_LEVEL", "info")),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "https://*,http://*")),
	}

	port, err := ParsePort(firstSet(o.Port, os.Getenv("PORT")))
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port

	db, err := loadDatabase()
	if err != nil {
		return Config{}, err
	}
	cfg.Database = db

	return cfg, nil
}

// ParsePort validates a listening port, returning the default for an empty value.
func ParsePort(s string) (int, error) {
	if s == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT %q: must be an integer between 1 and 65535", s)
	}
	return port, nil
}

// Addr is the listen address on all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func loadDatabase() (Database, error) {
	db := Database{
		LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
	}

	db.DSN = os.Getenv("DATABASE_URL")
	if db.DSN == "" {
		db.DSN = os.Getenv("MYSQL_URI")
	}
	if db.DSN == "" {
		db.DSN = blueprintDSN()
	}
	if db.DSN == "" {
		return Database{}, ErrMissingDSN
	}

	db.Driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if db.Driver == "" {
		db.Driver = InferDriver(db.DSN)
	}
	switch db.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return Database{}, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	var err error
	if db.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return Database{}, err
	}
	if db.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 100); err != nil {
		return Database{}, err
	}
	if db.ConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour); err != nil {
		return Database{}, err
	}

	return db, nil
}

// InferDriver picks a driver from the scheme of a connection string.
// Keyword/value DSNs ("host=... user=...") are treated as postgres.
func InferDriver(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "mysql://"):
		return DriverMySQL
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// blueprintDSN assembles a postgres keyword DSN from the BLUEPRINT_DB_* variables.
func blueprintDSN() string {
	host := os.Getenv("BLUEPRINT_DB_HOST")
	if host == "" {
		return ""
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host,
		os.Getenv("BLUEPRINT_DB_USERNAME"),
		os.Getenv("BLUEPRINT_DB_PASSWORD"),
		os.Getenv("BLUEPRINT_DB_DATABASE"),
		getEnv("BLUEPRINT_DB_PORT", "5432"),
	)
	if schema := os.Getenv("BLUEPRINT_DB_SCHEMA"); schema != "" {
		dsn += " search_path=" + schema
	}
	return dsn
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstSet(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
