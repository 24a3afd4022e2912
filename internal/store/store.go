package store

import "sync"

// Credentials holds the identity artifacts discovered during a conversation.
// Either field may be empty; requests proceed unauthenticated without them.
type Credentials struct {
	UserID        string
	Token         string
	Authenticated bool
}

// CredentialStore is the external credential store contract. The core reads
// through Credentials and writes only through SetUserID/SetToken.
type CredentialStore interface {
	Credentials() (Credentials, error)
	SetUserID(id string) error
	SetToken(token string) error
	Clear() error
}

// LocationStore caches the last known device location.
type LocationStore interface {
	Location() (lat, lon float64, ok bool)
	SetLocation(lat, lon float64) error
}

// MemoryCredentialStore keeps credentials in process memory.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	creds Credentials
}

// NewMemoryCredentialStore creates an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

// Credentials returns a copy of the stored credentials.
func (s *MemoryCredentialStore) Credentials() (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

// SetUserID stores the user id. The token is left untouched.
func (s *MemoryCredentialStore) SetUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.UserID = id
	return nil
}

// SetToken stores the token and marks the session authenticated.
// The user id is left untouched.
func (s *MemoryCredentialStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Token = token
	s.creds.Authenticated = true
	return nil
}

// Clear resets the store to its initial state.
func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}

// MemoryLocationStore keeps the last known location in process memory.
type MemoryLocationStore struct {
	mu       sync.RWMutex
	lat, lon float64
	set      bool
}

// NewMemoryLocationStore creates an empty in-memory location store.
func NewMemoryLocationStore() *MemoryLocationStore {
	return &MemoryLocationStore{}
}

// Location returns the cached location, if any.
func (s *MemoryLocationStore) Location() (float64, float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lat, s.lon, s.set
}

// SetLocation caches a location pair.
func (s *MemoryLocationStore) SetLocation(lat, lon float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lat, s.lon, s.set = lat, lon, true
	return nil
}
