package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	secrets map[Secret]string
}

func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[Secret]string)}
}

func (m *MockStore) SetSecret(name Secret, value string) error {
	m.secrets[name] = value
	return nil
}

func (m *MockStore) GetSecret(name Secret) (string, error) {
	value, ok := m.secrets[name]
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

func (m *MockStore) DeleteSecret(name Secret) error {
	if _, ok := m.secrets[name]; !ok {
		return ErrSecretNotFound
	}
	delete(m.secrets, name)
	return nil
}
