// Package store provides RecordStore implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps each record list as a marshaled JSON document, the same
// shape the SQLite store persists, so tests exercise the real round-trip.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string, out any) error {
	m.mu.RLock()
	doc, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (m *Memory) Save(_ context.Context, key string, records any) error {
	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.docs[key] = doc
	m.mu.Unlock()
	return nil
}

// Raw returns the stored document for a key, for test assertions.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	return doc, ok
}
