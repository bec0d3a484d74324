package persistence

import (
	"context"
	"errors"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/pkg/circuitbreaker"
)

var _ transcript.Backend = (*GuardedBackend)(nil)

// GuardedBackend routes every call through a circuit breaker so that a
// backend that keeps failing is not hit on every request. Errors from the
// inner backend pass through unchanged.
type GuardedBackend struct {
	inner   transcript.Backend
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedBackend wraps inner with cb.
func NewGuardedBackend(inner transcript.Backend, cb *circuitbreaker.CircuitBreaker) *GuardedBackend {
	return &GuardedBackend{inner: inner, breaker: cb}
}

func (g *GuardedBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		value, found, err = g.inner.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, false, g.rejected("Get", err)
	}
	return value, found, nil
}

func (g *GuardedBackend) Set(ctx context.Context, key string, value []byte) error {
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Set(ctx, key, value)
	})
	return g.rejected("Set", err)
}

// Breaker exposes the breaker for health reporting.
func (g *GuardedBackend) Breaker() *circuitbreaker.CircuitBreaker {
	return g.breaker
}

// rejected marks breaker rejections as storage errors; anything else is
// returned as is.
func (g *GuardedBackend) rejected(op string, err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return shared.WrapError(g.breaker.Name(), op, shared.ErrStorage, "backend unavailable", err)
	}
	return err
}
