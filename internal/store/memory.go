package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"todolists/internal/model"
)

type memoryEntry struct {
	doc     *model.Document
	updated time.Time
}

// MemoryStore keeps documents for the lifetime of the process.
// The mutex only guards the map; documents are copied in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*model.Document, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.doc.Clone(), nil
}

func (m *MemoryStore) Put(ctx context.Context, id string, doc *model.Document) error {
	c := doc.Clone()
	m.mu.Lock()
	m.sessions[id] = memoryEntry{doc: c, updated: m.now().UTC()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]SessionInfo, error) {
	m.mu.RLock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for id, e := range m.sessions {
		out = append(out, infoFor(id, e.doc, e.updated))
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.updated.Before(olderThan) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Close() error { return nil }
