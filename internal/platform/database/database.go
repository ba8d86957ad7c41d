package database

import (
	"car_rental/internal/platform/config"
	"car_rental/internal/platform/logger"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var DB *bun.DB

// Connect opens the database described by config.AppConfig into DB.
func Connect() error {
	db, err := Open(config.AppConfig.DBDriver, config.AppConfig.DSN())
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
		logger.Infof("Database connection closed.")
	}
}

// Open opens and pings a database for one of the supported drivers and wraps
// it in a bun.DB with the matching dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	driverName := driver
	// The pgx stdlib registers driver name "pgx".
	if driver == config.DriverPostgres {
		driverName = "pgx"
	}

	if driver == config.DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Every connection to an in-memory SQLite database sees its own empty
	// database unless the cache is shared, so pin those to one connection.
	if driver == config.DriverSQLite && strings.Contains(dsn, "memory") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	var db *bun.DB
	switch driver {
	case config.DriverPostgres:
		db = bun.NewDB(sqlDB, pgdialect.New())
	case config.DriverMySQL:
		db = bun.NewDB(sqlDB, mysqldialect.New())
	case config.DriverSQLite:
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	default:
		sqlDB.Close()
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	logger.L.Info("database connected", "driver", driver)
	return db, nil
}

// sqliteDSN adds the per-connection settings every pooled SQLite connection
// needs: foreign key enforcement (off by default), a busy timeout, and
// BEGIN IMMEDIATE so concurrent writers queue on the lock instead of failing
// with SQLITE_BUSY when a read lock is upgraded. Settings already present in
// dsn are kept.
func sqliteDSN(dsn string) string {
	params := []struct{ key, value string }{
		{"foreign_keys", "_pragma=foreign_keys(1)"},
		{"busy_timeout", "_pragma=busy_timeout(5000)"},
		{"_txlock", "_txlock=immediate"},
	}
	for _, p := range params {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.value
	}
	return dsn
}
