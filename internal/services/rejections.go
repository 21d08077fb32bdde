package services

import (
	"errors"

	"garage-backend/internal/metrics"
)

// recordRejection counts business-rule and validation failures by reason
func recordRejection(operation string, err error) {
	if reason := rejectionReason(err); reason != "" {
		metrics.OperationsRejected.WithLabelValues(operation, reason).Inc()
	}
}

func rejectionReason(err error) string {
	var v *ValidationError
	switch {
	case errors.As(err, &v):
		return "validation"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrOverpayment):
		return "overpayment"
	case errors.Is(err, ErrNoDebt):
		return "no_debt"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInUse):
		return "in_use"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	}
	return ""
}
