package service

import (
	"fmt"
	"strings"
)

// ValidationError is a malformed request shape: empty item list, duplicate
// product ids, non-positive quantity, out-of-range discount. Always the
// caller's fault, never retried.
type ValidationError struct {
	Reason string
	// ProductIDs carries the offending ids when the violation concerns
	// specific lines (duplicates).
	ProductIDs []int64
}

func (e *ValidationError) Error() string {
	if len(e.ProductIDs) == 0 {
		return e.Reason
	}
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(ids, ", "))
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// BusinessRuleError is a caller-correctable rule violation: product
// unavailable or insufficient stock.
type BusinessRuleError struct {
	Reason    string
	ProductID int64
	Requested int
	Available int
}

func (e *BusinessRuleError) Error() string {
	if e.Requested > 0 {
		return fmt.Sprintf("%s: product %d, requested %d, available %d",
			e.Reason, e.ProductID, e.Requested, e.Available)
	}
	return fmt.Sprintf("%s: product %d", e.Reason, e.ProductID)
}

// ConcurrencyConflictError means another placement invalidated the stock
// snapshot between read and commit. The engine does not retry; the caller
// may repeat the whole call against fresh state.
type ConcurrencyConflictError struct {
	ProductID int64
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent stock update on product %d, retry the order", e.ProductID)
}

// InternalError hides storage details from the caller; the cause is logged,
// not exposed.
type InternalError struct {
	cause error
}

func (e *InternalError) Error() string { return "internal error" }
func (e *InternalError) Unwrap() error { return e.cause }
