package lib

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
)

// Domain errors
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidParent           = errors.New("invalid parent category")
	ErrUnsupportedFile         = errors.New("unsupported file type")
	ErrInvalidInput            = errors.New("invalid input")
)

const (
	pgUniqueViolation = "23505"
	pgNoDataFound     = "P0002"
	mysqlDuplicateKey = 1062
)

// MapDBError translates driver specific errors into the package sentinels.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgdErr pgdriver.Error
	if errors.As(err, &pgdErr) {
		switch pgdErr.Field('C') { // SQLSTATE
		case pgUniqueViolation:
			return ErrConflict
		case pgNoDataFound:
			return ErrNotFound
		}
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		switch pgxErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgNoDataFound:
			return ErrNotFound
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateKey {
		return ErrConflict
	}

	return err
}
