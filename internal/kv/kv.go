// Package kv is the string key-value store the cart engine and checkout
// persist into. Values are opaque strings; callers own their encoding.
package kv

import (
	"context"
	"errors"
)

// Key names shared by the storefront. Only the cart engine writes CartKey
// and only checkout writes LastOrderKey.
const (
	CartKey      = "demo-store-cart-v1"
	LastOrderKey = "demo-store-last-order-id"
)

// ErrUnavailable is returned by stores that cannot serve requests.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store reads and writes string values by key. A missing key is reported
// as ok=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type scoped struct {
	store  Store
	prefix string
}

// Scoped returns a view of store whose keys live under session:<id>:.
func Scoped(store Store, sessionID string) Store {
	return &scoped{store: store, prefix: SessionPrefix(sessionID)}
}

// SessionPrefix is the key prefix used by Scoped for sessionID.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}
