// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/filmarchive/internal/platform/apperr"
	"github.com/taibuivan/filmarchive/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"pgx_no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"sql_no_rows", fmt.Errorf("scan: %w", sql.ErrNoRows), apperr.CodeNotFound},
		{"pg_check", &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "catalog_entry_rating_check"}, apperr.CodeValidation},
		{"pg_unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apperr.CodeInternal},
		{"mysql_check", &mysql.MySQLError{Number: 3819, Message: "Check constraint violated"}, apperr.CodeValidation},
		{"other", errors.New("connection refused"), apperr.CodeInternal},
		{"already_classified", apperr.Conflict("changed"), apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Entry", "test")
			assert.True(t, apperr.HasCode(wrapped, tt.code), "got %v", wrapped)
		})
	}

	assert.Nil(t, dberr.Wrap(nil, "Entry", "test"))
}

func TestWrap_NotFoundMessage(t *testing.T) {
	assert.Equal(t, "Entry not found", dberr.Wrap(pgx.ErrNoRows, "Entry", "find").Error())
}

func TestWrap_FieldFromConstraint(t *testing.T) {
	ae := apperr.As(dberr.Wrap(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "catalog_entry_category_check"}, "Entry", "create"))
	if assert.NotNil(t, ae) && assert.Len(t, ae.Details, 1) {
		assert.Equal(t, "catalog_entry_category_check", ae.Details[0].Field)
	}
}
