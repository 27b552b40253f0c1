package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// StorageErrorKind distinguishes the two failure classes callers care about.
type StorageErrorKind string

const (
	// StorageIO covers connection failures, timeouts and other I/O trouble.
	StorageIO StorageErrorKind = "io"
	// StorageConstraint covers integrity violations (SQLSTATE class 23).
	StorageConstraint StorageErrorKind = "constraint"
)

// StorageError wraps an underlying storage failure. For write paths, seeing
// a StorageError means no partial state was committed.
type StorageError struct {
	Kind StorageErrorKind
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr classifies err by SQLSTATE and wraps it with the operation name.
func storageErr(op string, err error) error {
	kind := StorageIO

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		kind = StorageConstraint
	}

	return &StorageError{Kind: kind, Op: op, Err: err}
}

// IsConstraintViolation reports whether err is a StorageError caused by an
// integrity constraint.
func IsConstraintViolation(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == StorageConstraint
}
