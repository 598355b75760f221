// file: client/storage.go

package client

import "sync"

// TokenStorage is the client-side persistence boundary for the token pair.
// Implementations may be backed by anything from process memory to a device
// keychain; reads happen on every outgoing request.
type TokenStorage interface {
	AccessToken() (string, error)
	RefreshToken() (string, error)
	SetAccessToken(token string) error
	SetTokens(accessToken, refreshToken string) error
	Clear() error
}

// MemoryStorage is a TokenStorage backed by process memory. It is safe for
// concurrent use.
type MemoryStorage struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, nil
}

func (s *MemoryStorage) RefreshToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken, nil
}

func (s *MemoryStorage) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
	return nil
}

func (s *MemoryStorage) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	return nil
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	return nil
}
