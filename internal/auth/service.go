package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// KeyPrefix starts every generated API key.
const KeyPrefix = "roster_"

// ErrInvalidKey is returned when the provided API key does not match the configured hash.
var ErrInvalidKey = errors.New("invalid API key")

// Service generates API keys and checks them against a single configured bcrypt hash.
type Service struct {
	keyHash    []byte
	bcryptCost int
}

// NewService creates a new auth Service. keyHash may be empty, in which case
// Enabled reports false and Authenticate rejects every key.
func NewService(keyHash string, bcryptCost int) *Service {
	return &Service{
		keyHash:    []byte(keyHash),
		bcryptCost: bcryptCost,
	}
}

// Enabled reports whether a key hash is configured.
func (s *Service) Enabled() bool {
	return len(s.keyHash) > 0
}

// GenerateKey creates a new API key and its bcrypt hash. The raw key is:
// 32 random bytes -> base64url -> prepend "roster_".
func (s *Service) GenerateKey() (rawKey, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = KeyPrefix + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return rawKey, string(hashBytes), nil
}

// Authenticate checks rawKey against the configured hash.
func (s *Service) Authenticate(rawKey string) error {
	if !s.Enabled() || rawKey == "" {
		return ErrInvalidKey
	}
	if bcrypt.CompareHashAndPassword(s.keyHash, []byte(rawKey)) != nil {
		return ErrInvalidKey
	}
	return nil
}
