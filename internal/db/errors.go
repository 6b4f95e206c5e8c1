package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrCheckViolation      = errors.New("check constraint violation")
	ErrNotNullViolation    = errors.New("not null violation")
	ErrInvalidEnum         = errors.New("invalid enum value")
	// ErrUnavailable - СУБД недоступна (подключение, ping)
	ErrUnavailable = errors.New("database unavailable")
)

// SQLSTATE класса 23 (integrity constraint violation)
var constraintKinds = map[string]error{
	"23505": ErrUniqueViolation,
	"23503": ErrForeignKeyViolation,
	"23514": ErrCheckViolation,
	"23502": ErrNotNullViolation,
}

// ConstraintError - нарушение ограничения, о котором сообщила СУБД.
// errors.Is срабатывает и на Kind, и на исходную *pgconn.PgError через errors.As.
type ConstraintError struct {
	Kind       error
	Table      string
	Constraint string
	Err        *pgconn.PgError
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v on %s (constraint %s): %s", e.Kind, e.Table, e.Constraint, e.Err.Message)
}

func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify оборачивает ошибки ограничений СУБД в ConstraintError, остальные возвращает как есть
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	kind, ok := constraintKinds[pgErr.Code]
	if !ok {
		return err
	}
	return &ConstraintError{
		Kind:       kind,
		Table:      pgErr.TableName,
		Constraint: pgErr.ConstraintName,
		Err:        pgErr,
	}
}

// ConstraintName возвращает имя нарушенного ограничения или пустую строку
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

func fmtInvalid(what, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidEnum, what, value)
}

func notFound(what string, key any) error {
	return fmt.Errorf("%s %v: %w", what, key, ErrNotFound)
}
