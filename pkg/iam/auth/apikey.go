package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

// APIKey is a service credential. Only the bcrypt hash of the secret is
// stored; the plaintext is shown once at creation.
type APIKey struct {
	ID       string
	Name     string
	KeyHash  string
	TenantID kernel.TenantID
	Scopes   []string
	Revoked  bool
}

// APIKeyRepository looks up keys by their public identifier
type APIKeyRepository interface {
	FindByID(ctx context.Context, id string) (*APIKey, error)
}

// APIKeyService verifies presented API keys. Keys are transmitted as
// "<id>.<secret>"; the id locates the record, the secret is checked
// against the stored hash.
type APIKeyService struct {
	repo APIKeyRepository
}

func NewAPIKeyService(repo APIKeyRepository) *APIKeyService {
	return &APIKeyService{repo: repo}
}

// HashSecret hashes a plaintext key secret for storage
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify validates a presented key and returns its grants
func (s *APIKeyService) Verify(ctx context.Context, presented string) (*APIKey, error) {
	id, secret, ok := splitKey(presented)
	if !ok {
		return nil, ErrRegistry.New(CodeInvalidKey)
	}
	key, err := s.repo.FindByID(ctx, id)
	if err != nil || key == nil || key.Revoked {
		return nil, ErrRegistry.New(CodeInvalidKey)
	}
	if bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(secret)) != nil {
		return nil, ErrRegistry.New(CodeInvalidKey)
	}
	return key, nil
}

func splitKey(presented string) (id, secret string, ok bool) {
	id, secret, found := strings.Cut(presented, ".")
	return id, secret, found && id != "" && secret != ""
}
