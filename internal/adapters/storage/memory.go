package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jcmacallan-svg/ww1/internal/ports"
)

// Memory is an in-process ports.KVStore. State does not survive a
// restart; it backs tests and the -ephemeral server mode.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func memKey(namespace, key string) string { return namespace + "\x00" + key }

func (m *Memory) Get(_ context.Context, namespace, key string, out any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[memKey(namespace, key)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("memory store: decode %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

func (m *Memory) Put(_ context.Context, namespace, key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("memory store: encode %s/%s: %w", namespace, key, err)
	}
	m.mu.Lock()
	m.data[memKey(namespace, key)] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	delete(m.data, memKey(namespace, key))
	m.mu.Unlock()
	return nil
}

// MemoryOverrides is an in-process ports.OverrideCache.
type MemoryOverrides struct {
	mu   sync.RWMutex
	data map[string]ports.ResolvedOverride
}

func NewMemoryOverrides() *MemoryOverrides {
	return &MemoryOverrides{data: make(map[string]ports.ResolvedOverride)}
}

func (m *MemoryOverrides) Get(_ context.Context, namespace, poiID string) (ports.ResolvedOverride, bool, error) {
	m.mu.RLock()
	o, ok := m.data[memKey(namespace, poiID)]
	m.mu.RUnlock()
	return o, ok, nil
}

func (m *MemoryOverrides) Put(_ context.Context, namespace, poiID string, o ports.ResolvedOverride) error {
	m.mu.Lock()
	m.data[memKey(namespace, poiID)] = o
	m.mu.Unlock()
	return nil
}

var (
	_ ports.KVStore       = (*Memory)(nil)
	_ ports.OverrideCache = (*MemoryOverrides)(nil)
)
