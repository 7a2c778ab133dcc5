// Package cart holds the shopping cart of one session: line items clamped to
// stock, totals derived on every read, and best-effort persistence into a
// kv.Store under a fixed key.
package cart

import (
	"context"
	"io"
	"log"
	"slices"
	"sync"
	"time"

	"demo-storefront/internal/domain"
	"demo-storefront/internal/kv"
)

// Shipping is always free.
const Shipping = 0.0

const defaultStoreTimeout = 2 * time.Second

// Engine is the cart of one session. Operations apply one at a time; each
// mutation is written to the store before the call returns, and a failed
// write leaves memory authoritative.
type Engine struct {
	mu      sync.Mutex
	items   []domain.CartItem
	open    bool
	store   kv.Store
	logger  *log.Logger
	label   string
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for swallowed store failures.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLabel tags log lines, typically with the session id.
func WithLabel(label string) Option {
	return func(e *Engine) { e.label = label }
}

// WithStoreTimeout bounds every store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an engine and rehydrates it from store. A nil store keeps the
// cart in memory only.
func New(ctx context.Context, store kv.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		logger:  log.New(io.Discard, "", 0),
		timeout: defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.items = e.load(ctx)
	return e
}

func (e *Engine) must() {
	if e == nil {
		panic("cart: engine used outside of an initialized session")
	}
}

// AddItem adds quantity units of product, clamping the line to the stock of
// the product passed in. An existing line keeps its product reference.
// Non-positive quantities and products without stock are ignored.
func (e *Engine) AddItem(ctx context.Context, product *domain.Product, quantity int) {
	e.must()
	if product == nil || quantity < 1 || product.Stock <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexLocked(product.ID); i >= 0 {
		line := &e.items[i]
		line.Quantity = min(line.Quantity+quantity, product.Stock)
	} else {
		e.items = append(e.items, domain.CartItem{Product: product, Quantity: min(quantity, product.Stock)})
	}
	e.persistLocked(ctx)
}

// RemoveItem drops the line for productID if there is one.
func (e *Engine) RemoveItem(ctx context.Context, productID string) {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(ctx, productID)
}

func (e *Engine) removeLocked(ctx context.Context, productID string) {
	i := e.indexLocked(productID)
	if i < 0 {
		return
	}
	e.items = slices.Delete(e.items, i, i+1)
	e.persistLocked(ctx)
}

// UpdateQuantity sets the line for productID to quantity clamped to stock.
// A non-positive quantity removes the line; an unknown id is ignored.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	if quantity <= 0 {
		e.removeLocked(ctx, productID)
		return
	}
	i := e.indexLocked(productID)
	if i < 0 {
		return
	}
	line := &e.items[i]
	line.Quantity = min(quantity, line.Product.Stock)
	e.persistLocked(ctx)
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = nil
	e.persistLocked(ctx)
}

func (e *Engine) Open() {
	e.must()
	e.mu.Lock()
	e.open = true
	e.mu.Unlock()
}

func (e *Engine) Close() {
	e.must()
	e.mu.Lock()
	e.open = false
	e.mu.Unlock()
}

func (e *Engine) Toggle() {
	e.must()
	e.mu.Lock()
	e.open = !e.open
	e.mu.Unlock()
}

// IsOpen reports whether the cart panel is visible. It is never persisted.
func (e *Engine) IsOpen() bool {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Items returns a copy of the lines in insertion order.
func (e *Engine) Items() []domain.CartItem {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// Quantity returns the quantity held for productID, or 0.
func (e *Engine) Quantity(productID string) int {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(productID); i >= 0 {
		return e.items[i].Quantity
	}
	return 0
}

func (e *Engine) ItemCount() int {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return itemCount(e.items)
}

func (e *Engine) Subtotal() float64 {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(e.items)
}

func (e *Engine) Shipping() float64 {
	e.must()
	return Shipping
}

func (e *Engine) Total() float64 {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return subtotal(e.items) + Shipping
}

// Snapshot is every derived value of the cart read under one lock.
type Snapshot struct {
	Items     []domain.CartItem
	ItemCount int
	Subtotal  float64
	Shipping  float64
	Total     float64
	IsOpen    bool
}

func (e *Engine) Snapshot() Snapshot {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Drain returns the snapshot of the cart and empties it in the same step.
// Nothing added concurrently can be cleared without appearing in the result.
// An empty cart is returned as is and not written.
func (e *Engine) Drain(ctx context.Context) Snapshot {
	e.must()
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.snapshotLocked()
	if len(e.items) == 0 {
		return snap
	}
	e.items = nil
	e.persistLocked(ctx)
	return snap
}

func (e *Engine) snapshotLocked() Snapshot {
	sub := subtotal(e.items)
	return Snapshot{
		Items:     slices.Clone(e.items),
		ItemCount: itemCount(e.items),
		Subtotal:  sub,
		Shipping:  Shipping,
		Total:     sub + Shipping,
		IsOpen:    e.open,
	}
}

func (e *Engine) indexLocked(productID string) int {
	return slices.IndexFunc(e.items, func(it domain.CartItem) bool {
		return it.Product.ID == productID
	})
}

func itemCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func subtotal(items []domain.CartItem) float64 {
	sum := 0.0
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}

func (e *Engine) load(ctx context.Context) []domain.CartItem {
	if e.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	raw, ok, err := e.store.Get(ctx, kv.CartKey)
	if err != nil {
		e.logger.Printf("cart: load session=%s error=%v", e.label, err)
		return nil
	}
	if !ok {
		return nil
	}
	return Decode(raw)
}

func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}
	raw, err := Encode(e.items)
	if err != nil {
		e.logger.Printf("cart: encode session=%s error=%v", e.label, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()
	if err := e.store.Set(ctx, kv.CartKey, raw); err != nil {
		e.logger.Printf("cart: persist session=%s error=%v", e.label, err)
	}
}
