package guided

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when no session has the requested id.
var ErrNotFound = errors.New("record not found")

// ErrVersionMismatch is returned by Store.Patch when the stored version differs
// from the expected one.
var ErrVersionMismatch = errors.New("version mismatch")

// Store persists sessions. Implementations assign ids on Create, reject stale
// patches with ErrVersionMismatch, and list sessions newest first.
type Store interface {
	Create(ctx context.Context, s *Session) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Patch(ctx context.Context, id uuid.UUID, version int, p Patch) error
	List(ctx context.Context) ([]Session, error)
}

// Backend names accepted by the guided.store setting.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

func newID() (uuid.UUID, error) {
	return uuid.NewV7()
}
