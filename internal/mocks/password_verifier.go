package mocks

import (
	"errors"
	"sync"

	"github.com/phrazzld/squad-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier for testing.
// Hash returns "hashed:" + password; Compare accepts exactly that form unless
// CompareFn says otherwise.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	mu               sync.Mutex
	HashCallCount    int
	CompareCallCount int
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.mu.Lock()
	m.HashCallCount++
	m.mu.Unlock()

	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.CompareCallCount++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
