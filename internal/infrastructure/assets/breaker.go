package assets

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/pkg/circuitbreaker"
)

// breakerTransferor decorates an AssetTransferor with a circuit breaker, so
// a misbehaving settlement system trips open instead of failing every
// operation mid-flight.
type breakerTransferor struct {
	inner ports.AssetTransferor
	cb    *gobreaker.CircuitBreaker
}

// WithCircuitBreaker wraps the given transferor with a circuit breaker.
func WithCircuitBreaker(inner ports.AssetTransferor) ports.AssetTransferor {
	return &breakerTransferor{
		inner: inner,
		cb:    circuitbreaker.NewCircuitBreaker(),
	}
}

func (t *breakerTransferor) TransferIn(
	ctx context.Context, asset, from string, amount uint64,
) (uint64, error) {
	res, err := t.cb.Execute(func() (interface{}, error) {
		return t.inner.TransferIn(ctx, asset, from, amount)
	})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (t *breakerTransferor) TransferOut(
	ctx context.Context, asset, to string, amount uint64,
) error {
	_, err := t.cb.Execute(func() (interface{}, error) {
		return nil, t.inner.TransferOut(ctx, asset, to, amount)
	})
	return err
}
