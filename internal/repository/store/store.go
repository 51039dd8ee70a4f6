// Package store defines the document persistence contract shared by the
// MongoDB and in-memory backends.
package store

import (
	"context"
	"errors"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

// Collection names.
const (
	Plants               = "plants"
	Batches              = "batches"
	Inventory            = "inventory"
	Customers            = "customers"
	Orders               = "orders"
	OrderItems           = "orderItems"
	SaleKeys             = "saleKeys"
	Invoices             = "invoices"
	Chemicals            = "chemicals"
	ChemicalApplications = "chemicalApplications"
	Suppliers            = "suppliers"
	PurchaseOrders       = "purchaseOrders"
	IncomingGoods        = "incomingGoods"
	Inspections          = "inspections"
	Products             = "products"
	DailyReports         = "dailyReports"
)

// Filter matches documents whose fields equal every given value. A nil or
// empty filter matches all documents.
type Filter map[string]any

// Store is a document store keyed by collection and id.
type Store interface {
	// Get decodes the document into out or returns a *models.NotFoundError.
	Get(ctx context.Context, collection, id string, out any) error
	// Set inserts or replaces the document.
	Set(ctx context.Context, collection, id string, doc any) error
	// Query decodes every matching document into out, a pointer to a slice.
	Query(ctx context.Context, collection string, filter Filter, out any) error
	// RunTransaction runs fn against a transactional view; nothing fn wrote
	// is visible when it returns an error.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Load reads one document of type T.
func Load[T any](ctx context.Context, s Store, collection, id string) (*T, error) {
	var out T
	if err := s.Get(ctx, collection, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List reads every document of type T matching filter.
func List[T any](ctx context.Context, s Store, collection string, filter Filter) ([]T, error) {
	out := []T{}
	if err := s.Query(ctx, collection, filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether a document is present.
func Exists(ctx context.Context, s Store, collection, id string) (bool, error) {
	var doc map[string]any
	err := s.Get(ctx, collection, id, &doc)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
