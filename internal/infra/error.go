package infra

import (
	"errors"

	"saverly/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindConflict           RepositoryErrorKind = "CONFLICT"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type RepositoryError struct {
	Kind       RepositoryErrorKind
	Constraint string
	msg        string
	err        error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func NewRepoErr(kind RepositoryErrorKind, msg string) error {
	return RepositoryError{Kind: kind, msg: msg}
}

// NewConstraintErr reports a violated constraint detected outside the database driver.
func NewConstraintErr(kind RepositoryErrorKind, constraint, msg string) error {
	return RepositoryError{Kind: kind, Constraint: constraint, msg: msg}
}

// ConstraintOf returns the constraint name carried by a repository error, or "".
func ConstraintOf(err error) string {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Constraint
	}
	return ""
}

// WrapRepoErr classifies a driver error. Already-classified errors pass through unchanged.
func WrapRepoErr(msg string, err error) error {
	if err == nil {
		return nil
	}

	var existing RepositoryError
	if errors.As(err, &existing) {
		return err
	}

	kind := KindDBFailure
	constraint := ""

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		kind = KindNotFound
	case errors.As(err, &pgErr):
		constraint = pgErr.ConstraintName
		switch pgErr.Code {
		case pgUniqueViolation:
			kind = KindDuplicateKey
		case pgForeignKeyViolation:
			kind = KindForeignKeyViolated
		}
	}

	return RepositoryError{Kind: kind, Constraint: constraint, msg: msg, err: errs.Wrap(err, msg)}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
