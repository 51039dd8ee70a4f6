package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientInventory marks a sale quantity above a batch's current inventory.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrDuplicateSale marks a sale whose idempotency key was already processed.
	ErrDuplicateSale = errors.New("sale already processed")
)

// ValidationKind classifies validation failures.
type ValidationKind string

const (
	KindInvalidArgument ValidationKind = "InvalidArgument"
	KindMissingField    ValidationKind = "MissingField"
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds an InvalidArgument validation error.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Kind: KindInvalidArgument, Field: field, Reason: reason}
}

// Missing builds a MissingField validation error.
func Missing(field string) *ValidationError {
	return &ValidationError{Kind: KindMissingField, Field: field, Reason: "is required"}
}

// NotFoundError reports a missing record in a collection.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientInventoryError reports a sale line that exceeds the batch stock.
type InsufficientInventoryError struct {
	BatchID   string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("batch %s: requested %d but only %d in inventory", e.BatchID, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }

// UnderpaymentWarning is attached to a completed sale when less than the total was tendered.
type UnderpaymentWarning struct {
	TotalAmount    float64 `bson:"totalAmount" json:"totalAmount"`
	AmountTendered float64 `bson:"amountTendered" json:"amountTendered"`
	Shortfall      float64 `bson:"shortfall" json:"shortfall"`
}

func (w UnderpaymentWarning) String() string {
	return fmt.Sprintf("underpaid: tendered %.2f against %.2f (short %.2f)", w.AmountTendered, w.TotalAmount, w.Shortfall)
}
