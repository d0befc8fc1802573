package otp

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store for tests and local development
// without Redis.
type MockStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{codes: make(map[string]string)}
}

func (m *MockStore) Issue(_ context.Context, phone string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code := generateCode()
	m.codes[phone] = code
	return code, nil
}

func (m *MockStore) Verify(_ context.Context, phone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.codes[phone]
	if !ok {
		return ErrCodeExpired
	}
	if stored != code {
		return ErrCodeInvalid
	}
	delete(m.codes, phone)
	return nil
}
