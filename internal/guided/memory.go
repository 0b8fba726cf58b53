package guided

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session Session
	seq     uint64
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*memoryEntry
	seq     uint64
}

// NewMemoryStore returns a process-local Store. Sessions with equal creation
// times are ordered by insertion.
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[uuid.UUID]*memoryEntry),
	}
}

func (m *memoryStore) Create(ctx context.Context, s *Session) (uuid.UUID, error) {
	id, err := newID()
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	stored := s.Clone()
	stored.ID = id
	m.entries[id] = &memoryEntry{session: stored, seq: m.seq}
	return id, nil
}

func (m *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	s := e.session.Clone()
	return &s, nil
}

func (m *memoryStore) Patch(ctx context.Context, id uuid.UUID, version int, p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return ErrNotFound
	}
	if e.session.Version != version {
		return ErrVersionMismatch
	}
	e.session.Apply(p)
	return nil
}

func (m *memoryStore) List(ctx context.Context) ([]Session, error) {
	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, memoryEntry{session: e.session.Clone(), seq: e.seq})
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.session.CreatedAt.Equal(b.session.CreatedAt) {
			return a.session.CreatedAt.After(b.session.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]Session, len(entries))
	for i, e := range entries {
		out[i] = e.session
	}
	return out, nil
}
