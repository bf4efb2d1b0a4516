package store

import (
	"sync"

	"toyexchange/internal/domain"
)

// apiKeyRecord links an API key id to its owner and the bcrypt hash of the
// key secret. The raw secret is only ever returned once, at registration.
type apiKeyRecord struct {
	userID     string
	secretHash []byte
}

// UserStore is a thread-safe in-memory store for users and their API keys.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	keys  map[string]apiKeyRecord // key_id → record
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*domain.User),
		keys:  make(map[string]apiKeyRecord),
	}
}

// Create adds a user to the store.
func (s *UserStore) Create(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
}

// Get retrieves a user by ID. It returns domain.ErrUserNotFound if the
// user does not exist.
func (s *UserStore) Get(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// Delete removes a user and all API keys attached to them. It returns
// domain.ErrUserNotFound if the user does not exist.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	for keyID, rec := range s.keys {
		if rec.userID == id {
			delete(s.keys, keyID)
		}
	}
	return nil
}

// AttachKey stores an API key record for a user.
func (s *UserStore) AttachKey(keyID, userID string, secretHash []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[keyID] = apiKeyRecord{userID: userID, secretHash: secretHash}
}

// KeyOwner resolves an API key id to its owning user and the stored secret
// hash. It returns domain.ErrUnauthorized for unknown key ids, including
// keys whose owner has since been deleted.
func (s *UserStore) KeyOwner(keyID string) (*domain.User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.keys[keyID]
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}
	u, ok := s.users[rec.userID]
	if !ok {
		return nil, nil, domain.ErrUnauthorized
	}
	return u, rec.secretHash, nil
}
