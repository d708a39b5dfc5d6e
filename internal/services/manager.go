package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Sentinel errors callers are expected to branch on.
var (
	// ErrNoCatalogue means no catalogue has been activated yet.
	ErrNoCatalogue = errors.New("session: no active catalogue")
	// ErrUnknownCatalogue means the requested catalogue id does not exist.
	ErrUnknownCatalogue = errors.New("session: unknown catalogue")
)

// Manager owns the active session. One catalogue is active at a time;
// activating another one swaps favorites, settings, pins, plan, and the
// override namespace wholesale, never merging state across catalogues.
type Manager struct {
	mu       sync.Mutex
	source   ports.CatalogSource
	store    ports.KVStore
	resolver *Resolver
	cfg      Config
	active   *Session
}

func NewManager(source ports.CatalogSource, store ports.KVStore, resolver *Resolver, cfg Config) *Manager {
	return &Manager{source: source, store: store, resolver: resolver, cfg: cfg}
}

// Activate makes a catalogue the active one, loading its persisted
// state. Re-activating the current catalogue keeps the live session.
func (m *Manager) Activate(ctx context.Context, catalogID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.Catalog().ID == catalogID {
		return m.active, nil
	}

	cat, ok := m.source.Catalog(catalogID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCatalogue, catalogID)
	}
	sess, err := NewSession(ctx, cat, m.store, m.resolver, m.cfg)
	if err != nil {
		return nil, err
	}
	m.active = sess
	return sess, nil
}

// Active returns the current session.
func (m *Manager) Active() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil, ErrNoCatalogue
	}
	return m.active, nil
}

// Source exposes the catalogue source for listing and lookups.
func (m *Manager) Source() ports.CatalogSource { return m.source }
