package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryConfig controls how queries are re-run after transient failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	EnableRetry  bool
}

// DefaultRetryConfig is opt-in; DB_RETRY_ENABLED flips it on.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

func (c RetryConfig) next(delay time.Duration) time.Duration {
	return min(time.Duration(float64(delay)*c.Multiplier), c.MaxDelay)
}

// Postgres SQLSTATEs worth another attempt: serialization and deadlock
// conflicts, class 08 connection failures, and server resource exhaustion.
var pgTransient = map[string]bool{
	"40001": true, "40P01": true,
	"08000": true, "08001": true, "08003": true, "08004": true, "08006": true,
	"53000": true, "53300": true, "57P03": true,
}

// MySQL lock wait timeout, deadlock, too many connections.
var mysqlTransient = map[uint16]bool{1205: true, 1213: true, 1040: true}

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection closed",
	"bad connection",
	"broken pipe",
	"i/o timeout",
	"too many clients",
	"eof",
}

func isRetryableError(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, sql.ErrNoRows),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, mysql.ErrInvalidConn):
		return true
	}

	var bunErr pgdriver.Error
	if errors.As(err, &bunErr) {
		return pgTransient[bunErr.Field('C')]
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgTransient[pgxErr.Code]
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlTransient[myErr.Number]
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// RetryWithBackoff runs op, re-running it with exponential backoff while
// it keeps failing with transient errors.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, op func() error) error {
	if !cfg.EnableRetry || cfg.MaxAttempts <= 1 {
		return op()
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil || !isRetryableError(err) || attempt == cfg.MaxAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = cfg.next(delay)
	}
}
