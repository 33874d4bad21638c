// Package db handles database connections and schema migration.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Options selects the backing database. SQLite is the default and only
// needs Path; MySQL needs user/host/port/database.
type Options struct {
	Driver   string
	Path     string // sqlite file path, or ":memory:"
	User     string
	Host     string
	Port     int
	Database string
}

// MySQLDSN builds the DSN for a MySQL connection.
func MySQLDSN(user, host string, port int, database string) string {
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", user, host, port, database)
}

// Open opens a GORM connection for the given options.
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Key conflicts must surface as gorm.ErrDuplicatedKey; the
		// proposal ledger maps them to its duplicate-proposal error.
		TranslateError: true,
	}

	switch opts.Driver {
	case DriverSQLite, "":
		path := opts.Path
		if path == "" {
			path = "snay3ia.db"
		}
		gormDB, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
		}
		return gormDB, nil
	case DriverMySQL:
		dsn := MySQLDSN(opts.User, opts.Host, opts.Port, opts.Database)
		gormDB, err := gorm.Open(mysql.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", opts.Host, opts.Port, opts.Database, err)
		}
		return gormDB, nil
	default:
		return nil, fmt.Errorf("db: unknown driver %q", opts.Driver)
	}
}
