package database

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the driver and location of the catalog database.
type Options struct {
	Driver   string // "sqlite" (default) or "postgres"
	Path     string // sqlite file path
	URL      string // postgres DSN
	LogLevel logger.LogLevel
}

// Database is the explicitly opened persistence handle shared by the
// repositories. Open it once at start-up and Close it on shutdown.
type Database struct {
	DB     *gorm.DB
	driver string
}

func NewDatabase(opts Options) (*Database, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Referential integrity is enforced by the delete guard, not by the store.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.SetupJoinTable(&entities.Book{}, "Genres", &entities.BookGenre{}); err != nil {
		return nil, fmt.Errorf("failed to set up book genres: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookGenre{},
		&entities.BookInstance{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db, driver: driverName(opts.Driver)}, nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch driverName(opts.Driver) {
	case DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite database path is not set")
		}
		return sqlite.Open(opts.Path + "?_busy_timeout=5000"), nil
	case DriverPostgres:
		if opts.URL == "" {
			return nil, fmt.Errorf("postgres database url is not set")
		}
		return postgres.Open(opts.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}

// Driver returns the name of the driver the handle was opened with.
func (d *Database) Driver() string {
	return d.driver
}

// SQLDB exposes the underlying connection pool.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

// Ping checks that the store is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
