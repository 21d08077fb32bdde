package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Business-rule sentinels. Typed errors below match them through errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient inventory")
	ErrNoDebt            = errors.New("no outstanding debt")
	ErrOverpayment       = errors.New("amount exceeds debt")
	ErrCapacityExceeded  = errors.New("daily reception capacity exceeded")
	ErrInUse             = errors.New("record is in use")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInvalidCredential = errors.New("invalid username or password")
)

// Postgres SQLSTATE codes mapped onto the taxonomy
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ValidationError reports invalid input detected before any database call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError names the entity and key that did not resolve.
type NotFoundError struct {
	Entity  string
	Key     string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity, key, message string) error {
	return &NotFoundError{Entity: entity, Key: key, Message: message}
}

type InsufficientStockError struct {
	SupplyName string
	Current    int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Vật tư %s không đủ tồn kho. Hiện có: %d, cần: %d", e.SupplyName, e.Current, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type OverpaymentError struct {
	Amount decimal.Decimal
	Debt   decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("Số tiền thu (%s) vượt quá số tiền nợ (%s). Quy định không cho phép thu quá nợ.",
		FormatMoney(e.Amount), FormatMoney(e.Debt))
}

func (e *OverpaymentError) Is(target error) bool {
	return target == ErrOverpayment
}

type CapacityError struct {
	Limit   int
	Current int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Đã đạt giới hạn tiếp nhận xe trong ngày (%d xe)", e.Limit)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// BusinessError is a rule violation with a user-facing message, wrapping one of the sentinels.
type BusinessError struct {
	Kind    error
	Message string
}

func (e *BusinessError) Error() string { return e.Message }
func (e *BusinessError) Unwrap() error { return e.Kind }

func rejected(kind error, message string) error {
	return &BusinessError{Kind: kind, Message: message}
}

// PersistenceError wraps a database failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Lỗi khi %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// persistence classifies a raw database error. Constraint violations become
// business errors; everything else is wrapped as a persistence failure.
// Errors that are already classified pass through unchanged.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return rejected(ErrDuplicate, "Dữ liệu đã tồn tại")
		case pgForeignKeyViolation:
			return rejected(ErrInUse, "Dữ liệu đang được sử dụng hoặc tham chiếu không hợp lệ")
		case pgCheckViolation:
			return rejected(checkViolationKind(pgErr.ConstraintName), "Dữ liệu vi phạm ràng buộc: "+pgErr.ConstraintName)
		}
	}

	return &PersistenceError{Op: op, Err: err}
}

func checkViolationKind(constraint string) error {
	switch {
	case strings.Contains(constraint, "inventory_number"):
		return ErrInsufficientStock
	case strings.Contains(constraint, "debt"):
		return ErrOverpayment
	}
	return ErrInUse
}

func isClassified(err error) bool {
	var (
		v  *ValidationError
		p  *PersistenceError
		b  *BusinessError
		nf *NotFoundError
		is *InsufficientStockError
		op *OverpaymentError
		ce *CapacityError
	)
	return errors.As(err, &v) || errors.As(err, &p) || errors.As(err, &b) ||
		errors.As(err, &nf) || errors.As(err, &is) || errors.As(err, &op) || errors.As(err, &ce)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// FormatMoney renders an amount with no decimals and comma thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
