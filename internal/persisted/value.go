// Package persisted mirrors a single string value to a key-value store so
// that it survives restarts.
package persisted

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hnstories/internal/kvstore"
)

// storeTimeout bounds each store round trip
const storeTimeout = 2 * time.Second

// Value is a string kept in memory and written through to a store on
// every change. The in-memory copy is authoritative: a failed write is
// reported but never rolls the value back.
type Value struct {
	mu    sync.RWMutex
	store kvstore.Store
	key   string
	value string
}

// New reads key from store, falling back to def when the key is absent
// or empty. A store error is returned alongside a usable Value holding def.
func New(ctx context.Context, store kvstore.Store, key, def string) (*Value, error) {
	v := &Value{store: store, key: key, value: def}

	readCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	stored, err := store.Get(readCtx, key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return v, nil
	case err != nil:
		return v, fmt.Errorf("failed to read %q: %w", key, err)
	}
	// A stored empty string counts as unset (getItem(key) || initial), so a cleared term restarts on def
	if stored != "" {
		v.value = stored
	}
	return v, nil
}

// Key returns the store key
func (v *Value) Key() string {
	return v.key
}

// Get returns the current value
func (v *Value) Get() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set updates the value and writes it to the store immediately
func (v *Value) Set(ctx context.Context, value string) error {
	// Holding the lock across the write keeps store order equal to call order
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value

	writeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := v.store.Set(writeCtx, v.key, value); err != nil {
		return fmt.Errorf("failed to persist %q: %w", v.key, err)
	}
	return nil
}
