// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
)

// Wrap inspects a database error and classifies it into an [apperr.AppError].
//
// resource names the entity for NOT_FOUND messages; action is recorded on the
// internal cause for logs (e.g. "update entry").
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream.
	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			field := pgErr.ColumnName
			if field == "" {
				field = pgErr.ConstraintName
			}
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   field,
				Message: pgErr.Message,
			})
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return constraintError("", sqliteErr.Error())
		}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlCheckViolation, mysqlNotNullViolation:
			return constraintError("", mysqlErr.Message)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// MySQL server error numbers (ER_CHECK_CONSTRAINT_VIOLATED, ER_BAD_NULL_ERROR).
const (
	mysqlCheckViolation   = 3819
	mysqlNotNullViolation = 1048
)

func constraintError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
