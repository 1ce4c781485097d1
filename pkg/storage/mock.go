package storage

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MockStorage is an in-memory Store, used by tests and the "memory" backend.
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[uuid.UUID]map[string]string
	pingError error
	failError error
	sets      int
}

// Ensure MockStorage implements Store interface
var _ Store = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[uuid.UUID]map[string]string),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetFailError makes every Get, Set and Clear fail with err; nil restores normal behavior.
func (m *MockStorage) SetFailError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) Get(ctx context.Context, session uuid.UUID, slot string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failError != nil {
		return "", false, m.failError
	}
	v, ok := m.saves[session][slot]
	return v, ok, nil
}

func (m *MockStorage) Set(ctx context.Context, session uuid.UUID, slot, value string) error {
	if slot == "" {
		return errors.New("slot cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failError != nil {
		return m.failError
	}
	save, ok := m.saves[session]
	if !ok {
		save = make(map[string]string)
		m.saves[session] = save
	}
	save[slot] = value
	m.sets++
	return nil
}

func (m *MockStorage) Clear(ctx context.Context, session uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failError != nil {
		return m.failError
	}
	delete(m.saves, session)
	return nil
}

// Slots returns a copy of every stored slot of a session (for testing)
func (m *MockStorage) Slots(session uuid.UUID) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.saves[session])
}

// SetCount returns how many Set calls have succeeded (for testing)
func (m *MockStorage) SetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}
