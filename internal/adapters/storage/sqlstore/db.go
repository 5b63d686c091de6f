package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB es el pool + el builder con el placeholder del driver.
type DB struct {
	*sql.DB
	driver string
	sb     squirrel.StatementBuilderType
}

type Config struct {
	Driver string
	DSN    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Open abre el pool (pgx para postgres, modernc para sqlite) y hace ping.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	var sqlDriver string
	var ph squirrel.PlaceholderFormat
	switch driver {
	case DriverPostgres, "pgx":
		driver, sqlDriver, ph = DriverPostgres, "pgx", squirrel.Dollar
	case DriverSQLite:
		sqlDriver, ph = "sqlite", squirrel.Question
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite: una sola conexión evita SQLITE_BUSY y comparte las bases :memory:
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 10))
		db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))
		db.SetConnMaxIdleTime(orDuration(cfg.ConnMaxIdleTime, 5*time.Minute))
		db.SetConnMaxLifetime(orDuration(cfg.ConnMaxLifetime, 30*time.Minute))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", translate(err))
	}

	return &DB{
		DB:     db,
		driver: driver,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(ph),
	}, nil
}

func (db *DB) Driver() string { return db.driver }

// Migrate aplica las migraciones embebidas con goose.
func (db *DB) Migrate(ctx context.Context) error {
	dialect := goose.DialectPostgres
	if db.driver == DriverSQLite {
		dialect = goose.DialectSQLite3
	}

	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db.DB, dir)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
