// Package memory provides an in-memory document store used by tests and by
// the server when no MongoDB URI is configured. Documents are kept BSON
// encoded so callers never share memory with stored state.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

var _ store.Store = (*Store)(nil)

type collection struct {
	docs  map[string]bson.Raw
	order []string
}

func (c *collection) clone() *collection {
	docs := make(map[string]bson.Raw, len(c.docs))
	for id, raw := range c.docs {
		docs[id] = raw
	}
	order := make([]string, len(c.order))
	copy(order, c.order)
	return &collection{docs: docs, order: order}
}

// Store is a mutex-guarded map of collections.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	inTx        bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Get decodes the document into out.
func (s *Store) Get(_ context.Context, coll, id string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[coll]
	if !ok {
		return &models.NotFoundError{Collection: coll, ID: id}
	}
	raw, ok := c.docs[id]
	if !ok {
		return &models.NotFoundError{Collection: coll, ID: id}
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", coll, id, err)
	}
	return nil
}

// Set encodes and stores the document, replacing any previous version.
func (s *Store) Set(_ context.Context, coll, id string, doc any) error {
	if id == "" {
		return models.Missing("id")
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", coll, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[coll]
	if !ok {
		c = &collection{docs: make(map[string]bson.Raw)}
		s.collections[coll] = c
	}
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = raw
	return nil
}

// Query scans the collection in insertion order.
func (s *Store) Query(_ context.Context, coll string, filter store.Filter, out any) error {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("query %s: out must be a pointer to a slice, got %T", coll, out)
	}
	slice := target.Elem()
	elemType := slice.Type().Elem()

	wanted, err := encodeFilter(filter)
	if err != nil {
		return fmt.Errorf("query %s: %w", coll, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := reflect.MakeSlice(slice.Type(), 0, 0)
	c, ok := s.collections[coll]
	if ok {
		for _, id := range c.order {
			raw := c.docs[id]
			if !matches(raw, wanted) {
				continue
			}
			item := reflect.New(elemType)
			if err := bson.Unmarshal(raw, item.Interface()); err != nil {
				return fmt.Errorf("decode %s/%s: %w", coll, id, err)
			}
			result = reflect.Append(result, item.Elem())
		}
	}
	slice.Set(result)
	return nil
}

// RunTransaction runs fn against a copy of the store and publishes the copy
// only when fn succeeds. Transactions are serialized.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{collections: make(map[string]*collection, len(s.collections)), inTx: true}
	for name, c := range s.collections {
		tx.collections[name] = c.clone()
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.collections = tx.collections
	return nil
}

type encodedValue struct {
	kind byte
	data []byte
}

func encodeFilter(filter store.Filter) (map[string]encodedValue, error) {
	wanted := make(map[string]encodedValue, len(filter))
	for field, value := range filter {
		t, data, err := bson.MarshalValue(value)
		if err != nil {
			return nil, fmt.Errorf("encode filter %s: %w", field, err)
		}
		wanted[field] = encodedValue{kind: byte(t), data: data}
	}
	return wanted, nil
}

func matches(raw bson.Raw, wanted map[string]encodedValue) bool {
	for field, want := range wanted {
		got, err := raw.LookupErr(field)
		if err != nil {
			return false
		}
		if byte(got.Type) != want.kind || !bytes.Equal(got.Value, want.data) {
			return false
		}
	}
	return true
}
