package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/hamed0406/pingme/internal/domain"
	"github.com/hamed0406/pingme/internal/repo"
)

type Store struct {
	mu       sync.RWMutex
	targets  map[string]string
	statuses map[string]string
}

func New() *Store {
	return &Store{
		targets:  make(map[string]string),
		statuses: make(map[string]string),
	}
}

// ---- Registry ----

func (m *Store) Add(ctx context.Context, t domain.Target) error {
	if err := repo.ValidateTarget(t); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[t.Name] = t.URL
	return nil
}

func (m *Store) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.targets[name]; !ok {
		return repo.ErrNotFound
	}
	delete(m.targets, name)
	return nil
}

func (m *Store) List(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.targets), nil
}

// ---- StatusStore ----

func (m *Store) GetAll(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.statuses), nil
}

func (m *Store) Set(ctx context.Context, name, record string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[name] = record
	return nil
}

func (m *Store) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.statuses, name)
	return nil
}
