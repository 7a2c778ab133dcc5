package cart

import (
	"context"
	"errors"
)

// ErrNoSession is returned when a context carries no cart engine.
var ErrNoSession = errors.New("cart: no session in context")

type ctxKey struct{}

// WithEngine returns a context carrying e.
func WithEngine(ctx context.Context, e *Engine) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

// FromContext returns the engine attached by WithEngine.
func FromContext(ctx context.Context) (*Engine, error) {
	e, ok := ctx.Value(ctxKey{}).(*Engine)
	if !ok || e == nil {
		return nil, ErrNoSession
	}
	return e, nil
}

// MustFromContext is FromContext for code that only runs inside a session;
// it panics otherwise.
func MustFromContext(ctx context.Context) *Engine {
	e, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return e
}
