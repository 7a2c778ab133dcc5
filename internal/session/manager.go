// Package session maps opaque session ids to the per-visitor state of the
// storefront: one cart engine and one catalog listing each.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"demo-storefront/internal/cart"
	"demo-storefront/internal/catalog"
	"demo-storefront/internal/domain"
	"demo-storefront/internal/kv"

	"github.com/google/uuid"
)

// ErrInvalidID is returned for ids that are not UUIDs.
var ErrInvalidID = errors.New("session: invalid id")

// DefaultIdleTTL is how long an untouched session stays in memory.
const DefaultIdleTTL = 30 * time.Minute

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Session is the state owned by one visitor. Store is already scoped to ID.
type Session struct {
	ID      string
	Cart    *cart.Engine
	Listing *catalog.Listing
	Store   kv.Store

	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    kv.Store
	products productLister
	idleTTL  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewManager builds a registry whose carts persist into store.
func NewManager(store kv.Store, products productLister, idleTTL time.Duration, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		products: products,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// New mints a session with a fresh random id.
func (m *Manager) New(ctx context.Context) (*Session, error) {
	return m.Get(ctx, uuid.NewString())
}

// Get returns the session for id, building it on first use or after it was
// evicted. A rebuilt session rehydrates its cart from the store; its cart
// panel starts closed and its listing starts from defaults.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	id = parsed.String()
	now := m.now()

	m.mu.Lock()
	m.evictLocked(now)
	if s, ok := m.sessions[id]; ok {
		s.lastSeen = now
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s, err := m.build(ctx, id)
	if err != nil {
		return nil, err
	}
	s.lastSeen = now

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		existing.lastSeen = now
		return existing, nil
	}
	m.sessions[id] = s
	return s, nil
}

func (m *Manager) build(ctx context.Context, id string) (*Session, error) {
	products, err := m.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	store := kv.Scoped(m.store, id)
	return &Session{
		ID:      id,
		Cart:    cart.New(ctx, store, cart.WithLogger(m.logger), cart.WithLabel(id)),
		Listing: catalog.NewListing(products),
		Store:   store,
	}, nil
}

func (m *Manager) evictLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
		}
	}
}

// Len reports the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
