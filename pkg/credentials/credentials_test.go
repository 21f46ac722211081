package credentials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

type memoryRepo struct {
	credentials map[string]*models.Credential
	failWith    error
}

func repoKey(userID, serviceName string) string {
	return userID + "/" + serviceName
}

func (m *memoryRepo) CredentialByUserAndService(_ context.Context, userID, serviceName string) (*models.Credential, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	credential, ok := m.credentials[repoKey(userID, serviceName)]
	if !ok {
		return nil, persistence.ErrCredentialNotFound
	}

	return credential, nil
}

func (m *memoryRepo) SaveCredential(_ context.Context, credential *models.Credential) error {
	if m.credentials == nil {
		m.credentials = make(map[string]*models.Credential)
	}

	m.credentials[repoKey(credential.UserID, credential.ServiceName)] = credential

	return nil
}

func TestStore_Resolve_UserCredentialWinsOverShared(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{credentials: map[string]*models.Credential{
		repoKey("user-1", "notion"): {UserID: "user-1", ServiceName: "notion", AccessToken: "own-token"},
	}}

	store := NewStore(repo,
		NewUserResolver(repo),
		NewSharedResolver(map[string]string{"notion": "shared-token"}),
	)

	credential, err := store.Resolve(context.Background(), "user-1", "notion")

	require.NoError(t, err)
	assert.Equal(t, "own-token", credential.Token())
}

func TestStore_Resolve_FallsBackToShared(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{}

	store := NewStore(repo,
		NewUserResolver(repo),
		NewSharedResolver(map[string]string{"notion": "shared-token"}),
	)

	credential, err := store.Resolve(context.Background(), "user-1", "notion")

	require.NoError(t, err)
	assert.Equal(t, "shared-token", credential.Token())
	assert.Equal(t, "user-1", credential.UserID)
}

func TestStore_Resolve_NoCredentialAnywhere(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{}

	store := NewStore(repo,
		NewUserResolver(repo),
		NewSharedResolver(nil),
	)

	_, err := store.Resolve(context.Background(), "user-1", "telegram")

	require.ErrorIs(t, err, ErrNoCredential)
}

func TestStore_Resolve_RepositoryFailureStopsChain(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection refused")
	repo := &memoryRepo{failWith: repoErr}

	store := NewStore(repo,
		NewUserResolver(repo),
		NewSharedResolver(map[string]string{"notion": "shared-token"}),
	)

	_, err := store.Resolve(context.Background(), "user-1", "notion")

	require.ErrorIs(t, err, repoErr)
}

func TestStore_SaveRefreshed(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{}
	store := NewStore(repo, NewUserResolver(repo))

	credential := &models.Credential{
		UserID:      "user-1",
		ServiceName: "gmail",
		AccessToken: "stale",
	}

	require.NoError(t, store.SaveRefreshed(context.Background(), credential, "fresh", 3600))

	saved, err := repo.CredentialByUserAndService(context.Background(), "user-1", "gmail")
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)
	require.NotNil(t, saved.ExpiresAt)
	assert.True(t, saved.ExpiresAt.After(time.Now()))
}

func TestCredential_Token(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "access", (&models.Credential{AccessToken: "access", APIKey: "key"}).Token())
	assert.Equal(t, "key", (&models.Credential{APIKey: "key"}).Token())
	assert.Empty(t, (&models.Credential{}).Token())
}