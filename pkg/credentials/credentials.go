// Package credentials resolves per-user service credentials through an
// explicit ordered chain of resolvers. The first resolver that yields a
// credential wins; implicit fallbacks are not allowed.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// ErrNoCredential indicates no resolver produced a credential for the
// owner+service pair.
var ErrNoCredential = errors.New("no credential configured")

// Resolver yields a credential for one owner+service pair, or
// persistence.ErrCredentialNotFound to let the chain continue.
type Resolver interface {
	Resolve(ctx context.Context, userID, serviceName string) (*models.Credential, error)
}

// Store tries its resolvers in order and returns the first success.
type Store struct {
	repo      persistence.CredentialRepository
	resolvers []Resolver
}

func NewStore(repo persistence.CredentialRepository, resolvers ...Resolver) *Store {
	return &Store{repo: repo, resolvers: resolvers}
}

func (s *Store) Resolve(ctx context.Context, userID, serviceName string) (*models.Credential, error) {
	for _, resolver := range s.resolvers {
		credential, err := resolver.Resolve(ctx, userID, serviceName)
		if err == nil {
			return credential, nil
		}

		if !persistence.IsCredentialNotFound(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w for user %s and service %s", ErrNoCredential, userID, serviceName)
}

// SaveRefreshed writes a refreshed access token back for the owner so
// subsequent runs skip the refresh round trip.
func (s *Store) SaveRefreshed(ctx context.Context, credential *models.Credential, accessToken string, expiresIn int) error {
	credential.AccessToken = accessToken
	credential.UpdatedAt = time.Now()

	if expiresIn > 0 {
		expiry := time.Now().Add(time.Duration(expiresIn) * time.Second)
		credential.ExpiresAt = &expiry
	}

	return s.repo.SaveCredential(ctx, credential)
}

// UserResolver reads the owner's own credential from the repository.
type UserResolver struct {
	repo persistence.CredentialRepository
}

func NewUserResolver(repo persistence.CredentialRepository) *UserResolver {
	return &UserResolver{repo: repo}
}

func (r *UserResolver) Resolve(ctx context.Context, userID, serviceName string) (*models.Credential, error) {
	return r.repo.CredentialByUserAndService(ctx, userID, serviceName)
}

// SharedResolver serves service-level tokens configured for the whole
// deployment, used when a user has no credential of their own.
type SharedResolver struct {
	tokens map[string]string // service name -> token
}

func NewSharedResolver(tokens map[string]string) *SharedResolver {
	return &SharedResolver{tokens: tokens}
}

func (r *SharedResolver) Resolve(_ context.Context, userID, serviceName string) (*models.Credential, error) {
	token, ok := r.tokens[serviceName]
	if !ok || token == "" {
		return nil, persistence.ErrCredentialNotFound
	}

	return &models.Credential{
		UserID:      userID,
		ServiceName: serviceName,
		APIKey:      token,
	}, nil
}
