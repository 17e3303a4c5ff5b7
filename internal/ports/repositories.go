package ports

import (
	"context"

	"github.com/savingsboard/core/internal/domain/entities"
)

// KeyValueStore defines the interface for the local key-value store the board
// state is mirrored to. Get returns entities.ErrStateNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StateRepository defines the interface for reading and writing the single
// persisted board record
type StateRepository interface {
	Load(ctx context.Context) (*entities.PersistedState, error)
	Save(ctx context.Context, state entities.PersistedState) error
	Delete(ctx context.Context) error
}
