package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript persists chat exchanges. Implementations must be safe for
// concurrent use.
type Transcript interface {
	// Append stores entries in the given order.
	Append(ctx context.Context, entries ...Entry) error

	// List returns the newest limit entries, oldest first.
	List(ctx context.Context, limit int) ([]Entry, error)
}

func newEntry(role, content, mode string, at time.Time) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:        id,
		Role:      role,
		Content:   content,
		Mode:      mode,
		CreatedAt: at,
	}, nil
}

type memoryTranscript struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryTranscript returns a process-local Transcript.
func NewMemoryTranscript() Transcript {
	return &memoryTranscript{}
}

func (m *memoryTranscript) Append(ctx context.Context, entries ...Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memoryTranscript) List(ctx context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if limit > 0 && len(m.entries) > limit {
		start = len(m.entries) - limit
	}
	out := make([]Entry, len(m.entries)-start)
	copy(out, m.entries[start:])
	return out, nil
}
