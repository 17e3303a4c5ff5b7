package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/savingsboard/core/internal/domain/entities"
	"github.com/savingsboard/core/internal/ports"
)

// StateRepositoryImpl implements the StateRepository interface by storing the
// board record as JSON under a single key
type StateRepositoryImpl struct {
	store ports.KeyValueStore
	key   string
}

// NewStateRepository creates a new state repository
func NewStateRepository(store ports.KeyValueStore, key string) ports.StateRepository {
	if key == "" {
		key = entities.DefaultStateKey
	}
	return &StateRepositoryImpl{store: store, key: key}
}

// Load returns ErrStateNotFound when nothing is stored and ErrInvalidState
// when the stored record does not have the expected shape
func (r *StateRepositoryImpl) Load(ctx context.Context) (*entities.PersistedState, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, entities.ErrStateNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load state: %w", err)
	}

	state, err := entities.DecodeState(data)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

func (r *StateRepositoryImpl) Save(ctx context.Context, state entities.PersistedState) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (r *StateRepositoryImpl) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

// Key returns the key the record is stored under
func (r *StateRepositoryImpl) Key() string {
	return r.key
}
