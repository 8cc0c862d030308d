package database

import (
	"context"
	"database/sql"
	"fmt"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/schema"
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

// DB wraps the bun database connection with additional functionality
type DB struct {
	*bun.DB
	retry RetryConfig
}

// Connect establishes a connection to the database selected by cfg.Driver
func Connect(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, dialect, err := open(cfg)
	if err != nil {
		return nil, err
	}

	// Apply pool settings from configuration
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	retry := DefaultRetryConfig()
	retry.EnableRetry = cfg.RetryEnabled

	db := newDB(sqldb, dialect, logger, retry)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("driver", cfg.Driver),
		gecho.Field("host", cfg.Host),
		gecho.Field("database", cfg.Name),
	)

	return db, nil
}

// OpenDSN connects with a raw DSN. Used by tooling and integration tests.
func OpenDSN(driver, dsn string, logger *gecho.Logger) (*DB, error) {
	var (
		sqldb   *sql.DB
		dialect schema.Dialect
		err     error
	)

	switch driver {
	case DriverPostgres:
		sqldb = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		dialect = pgdialect.New()
	case DriverPgx:
		sqldb, err = sql.Open("pgx", dsn)
		dialect = pgdialect.New()
	case DriverMySQL:
		sqldb, err = sql.Open("mysql", dsn)
		dialect = mysqldialect.New()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := newDB(sqldb, dialect, logger, DefaultRetryConfig())
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func newDB(sqldb *sql.DB, dialect schema.Dialect, logger *gecho.Logger, retry RetryConfig) *DB {
	bdb := bun.NewDB(sqldb, dialect)
	bdb.RegisterModel(tables.Models()...)

	// Add query hook to log slow queries and dropped connections
	bdb.AddQueryHook(&connectionHealthHook{logger: logger, slowThreshold: time.Second})

	return &DB{DB: bdb, retry: retry}
}

func open(cfg *structs.DatabaseConfig) (*sql.DB, schema.Dialect, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres, "":
		connector := pgdriver.NewConnector(
			pgdriver.WithAddr(addr),
			pgdriver.WithUser(cfg.User),
			pgdriver.WithPassword(cfg.Password),
			pgdriver.WithDatabase(cfg.Name),
			pgdriver.WithInsecure(cfg.SSLMode == "disable"),
			pgdriver.WithReadTimeout(cfg.ReadTimeout),
			pgdriver.WithWriteTimeout(cfg.WriteTimeout),
			pgdriver.WithApplicationName("modfy_server"),
		)
		return sql.OpenDB(connector), pgdialect.New(), nil

	case DriverPgx:
		dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
			cfg.User, cfg.Password, addr, cfg.Name, cfg.SSLMode)
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pgx connection: %w", err)
		}
		return sqldb, pgdialect.New(), nil

	case DriverMySQL:
		mcfg := mysql.NewConfig()
		mcfg.User = cfg.User
		mcfg.Passwd = cfg.Password
		mcfg.Net = "tcp"
		mcfg.Addr = addr
		mcfg.DBName = cfg.Name
		mcfg.ParseTime = true
		mcfg.ClientFoundRows = true
		mcfg.ReadTimeout = cfg.ReadTimeout
		mcfg.WriteTimeout = cfg.WriteTimeout
		sqldb, err := sql.Open("mysql", mcfg.FormatDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mysql connection: %w", err)
		}
		return sqldb, mysqldialect.New(), nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// GetStats returns connection pool statistics for monitoring
func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

// connectionHealthHook implements bun.QueryHook to monitor connection health
type connectionHealthHook struct {
	logger        *gecho.Logger
	slowThreshold time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if duration > h.slowThreshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	// Handle EOF errors specifically
	if event.Err != nil {
		if msg := event.Err.Error(); msg == "EOF" || msg == "unexpected EOF" {
			h.logger.Error("Database connection EOF error - connection may have been closed by server",
				gecho.Field("error", event.Err),
				gecho.Field("query", event.Query),
			)
		}
	}
}
