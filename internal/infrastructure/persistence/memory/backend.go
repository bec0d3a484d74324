// Package memory implements an in-process transcript backend.
// Data lives only as long as the process; used for development and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/alem-hub/transcripts/internal/domain/transcript"
)

var _ transcript.Backend = (*Backend)(nil)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory: backend is closed")

// Backend stores values in a map guarded by a RWMutex.
type Backend struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, false, ErrClosed
	}

	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.values[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored keys.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

// Ping fails only after Close.
func (b *Backend) Ping(context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	return nil
}

// Close drops all values. Later calls return ErrClosed.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.values = nil
	return nil
}
