package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ErrBusy: ingredient rows were locked by another reservation longer than the
// configured lock timeout. The whole reservation may be retried from scratch
// after a backoff; the demand must be recomputed.
var ErrBusy = errors.New("stock is locked by another order, try again")

// ValidationError: malformed input, rejected before any lock is taken.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Shortage: one ingredient the order cannot be covered by.
type Shortage struct {
	IngredientID uint            `json:"ingredient_id"`
	Name         string          `json:"name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
}

// ShortageError carries the complete shortage list, never just the first
// failing ingredient.
type ShortageError struct {
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: need %s, have %s", s.Name, s.Required, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// ConsistencyError: the defensive re-check during lot deduction failed even
// though the shortage gate passed under the same locks. This is a bug signal,
// not a user error; the transaction is rolled back and the caller sees an
// opaque internal error.
type ConsistencyError struct {
	IngredientID uint
	Msg          string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("stock consistency violation for ingredient %d: %s", e.IngredientID, e.Msg)
}

const (
	pgCodeLockNotAvailable = "55P03"
	pgCodeUniqueViolation  = "23505"
)

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeLockNotAvailable
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}
