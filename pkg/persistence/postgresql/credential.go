package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// CredentialRepository handles credential-related database operations.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new credential repository.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) CredentialByUserAndService(ctx context.Context, userID, serviceName string) (*models.Credential, error) {
	query := `
		SELECT
			id
		  , user_id
		  , service_name
		  , access_token
		  , refresh_token
		  , api_key
		  , expires_at
		  , updated_at
		FROM credentials
		WHERE user_id = $1 AND service_name = $2
	`

	var (
		credential   models.Credential
		accessToken  sql.NullString
		refreshToken sql.NullString
		apiKey       sql.NullString
		expiresAt    sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, userID, serviceName).Scan(
		&credential.ID, &credential.UserID, &credential.ServiceName,
		&accessToken, &refreshToken, &apiKey, &expiresAt, &credential.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewCredentialError("fetch", userID, serviceName, persistence.ErrCredentialNotFound)
		}

		return nil, persistence.NewCredentialError("fetch", userID, serviceName, err)
	}

	credential.AccessToken = accessToken.String
	credential.RefreshToken = refreshToken.String
	credential.APIKey = apiKey.String

	if expiresAt.Valid {
		credential.ExpiresAt = &expiresAt.Time
	}

	return &credential, nil
}

func (r *CredentialRepository) SaveCredential(ctx context.Context, credential *models.Credential) error {
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}

	credential.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO credentials (
			id, user_id, service_name, access_token, refresh_token,
			api_key, expires_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, service_name) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			api_key = EXCLUDED.api_key,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		credential.ID, credential.UserID, credential.ServiceName,
		nullableString(credential.AccessToken), nullableString(credential.RefreshToken),
		nullableString(credential.APIKey), credential.ExpiresAt, credential.UpdatedAt)
	if err != nil {
		return persistence.NewCredentialError("save", credential.UserID, credential.ServiceName, err)
	}

	return nil
}
