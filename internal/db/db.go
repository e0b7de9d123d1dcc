package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mandapam/portal/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

const DuplicateEntry = 1062

func New(cfg config.Database) (*sqlx.DB, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time load location failed: %w", err)
	}
	conf := mysql.NewConfig()
	conf.Net = cfg.Net
	conf.Addr = cfg.Server
	conf.User = cfg.User
	conf.Passwd = cfg.Password
	conf.DBName = cfg.DBName
	conf.Timeout = cfg.Timeout
	conf.Loc = location
	conf.ParseTime = true

	dbConn, err := sqlx.Connect("mysql", conf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	if err := dbConn.Ping(); err != nil {
		return nil, err
	}

	return dbConn, nil
}

// Migrate applies the goose migrations in dir that the database has not seen
// yet and returns how many it applied.
func Migrate(ctx context.Context, db *sqlx.DB, dir string) (int, error) {
	dialect, err := gooseDialect(db.DriverName())
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(dialect, db.DB, os.DirFS(dir))
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) && partial.Failed != nil && partial.Failed.Source != nil {
			return len(partial.Applied), fmt.Errorf("apply migration %s: %w", partial.Failed.Source.Path, partial.Err)
		}
		return len(results), fmt.Errorf("apply migrations: %w", err)
	}

	return len(results), nil
}

func gooseDialect(driver string) (database.Dialect, error) {
	switch driver {
	case "mysql":
		return database.DialectMySQL, nil
	case "sqlite3":
		return database.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}
