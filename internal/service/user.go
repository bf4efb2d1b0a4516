package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"toyexchange/internal/domain"
	"toyexchange/internal/ledger"
	"toyexchange/internal/store"
)

// UserService handles registration, API key authentication, and balance
// queries.
type UserService struct {
	users  *store.UserStore
	ledger *ledger.Ledger
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(users *store.UserStore, led *ledger.Ledger) *UserService {
	return &UserService{
		users:  users,
		ledger: led,
	}
}

// Register creates a user with role USER and issues their API key. The raw
// key is returned exactly once; only its bcrypt hash is stored.
func (s *UserService) Register(name string) (*domain.User, string, error) {
	if len(strings.TrimSpace(name)) < 3 {
		return nil, "", &domain.ValidationError{
			Message: "name must be at least 3 characters",
		}
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Role:      domain.UserRoleUser,
		CreatedAt: time.Now(),
	}

	key, err := s.issueKey(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.users.Create(user)
	return user, key, nil
}

// issueKey generates an API key "<key_id>.<secret>", stores the bcrypt
// hash of the secret under the key id, and returns the raw key. Lookup by
// key id keeps authentication to a single bcrypt comparison.
func (s *UserService) issueKey(userID string) (string, error) {
	secretBytes := make([]byte, 24)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	secret := hex.EncodeToString(secretBytes)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing api key: %w", err)
	}

	keyID := uuid.NewString()
	s.users.AttachKey(keyID, userID, hash)
	return keyID + "." + secret, nil
}

// Authenticate resolves an API key to its owning user. Any malformed,
// unknown, or non-matching key yields domain.ErrUnauthorized.
func (s *UserService) Authenticate(key string) (*domain.User, error) {
	keyID, secret, ok := strings.Cut(key, ".")
	if !ok || keyID == "" || secret == "" {
		return nil, domain.ErrUnauthorized
	}

	user, hash, err := s.users.KeyOwner(keyID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(secret)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// BootstrapAdmin seeds an administrator whose API key is supplied via
// configuration. The key must be in "<key_id>.<secret>" form.
func (s *UserService) BootstrapAdmin(name, key string) (*domain.User, error) {
	keyID, secret, ok := strings.Cut(key, ".")
	if !ok || keyID == "" || secret == "" {
		return nil, fmt.Errorf("admin api key must be in '<key_id>.<secret>' form")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin api key: %w", err)
	}

	admin := &domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      domain.UserRoleAdmin,
		CreatedAt: time.Now(),
	}
	s.users.Create(admin)
	s.users.AttachKey(keyID, admin.ID, hash)
	return admin, nil
}

// Balances returns the caller's per-ticker balance map. The cash ticker is
// always present.
func (s *UserService) Balances(userID string) map[string]int64 {
	return s.ledger.Balances(userID)
}
