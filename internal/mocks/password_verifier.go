package mocks

import "github.com/taskboard/taskboard-api/internal/service/auth"

// MockPasswordVerifier implements auth.PasswordVerifier and
// auth.PasswordHasher for testing.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
	HashFn    func(password string) (string, error)

	// Default values used when functions aren't explicitly defined
	CompareErr error
	Hashed     string
	HashErr    error
}

// Ensure MockPasswordVerifier implements both password interfaces
var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordHasher   = (*MockPasswordVerifier)(nil)
)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return m.CompareErr
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return m.Hashed, m.HashErr
}
