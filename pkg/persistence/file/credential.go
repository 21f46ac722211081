package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// CredentialRepository stores each credential as
// credentials/<user>_<service>.json.
type CredentialRepository struct {
	root string
}

func NewCredentialRepository(root string) *CredentialRepository {
	return &CredentialRepository{root: root}
}

func (cr *CredentialRepository) dir() string {
	return filepath.Join(cr.root, "credentials")
}

func (cr *CredentialRepository) path(userID, serviceName string) string {
	return filepath.Join(cr.dir(), userID+"_"+serviceName+".json")
}

func (cr *CredentialRepository) CredentialByUserAndService(_ context.Context, userID, serviceName string) (*models.Credential, error) {
	data, err := os.ReadFile(cr.path(userID, serviceName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewCredentialError("fetch", userID, serviceName, persistence.ErrCredentialNotFound)
		}

		return nil, persistence.NewCredentialError("fetch", userID, serviceName, err)
	}

	var credential models.Credential
	if err := json.Unmarshal(data, &credential); err != nil {
		return nil, persistence.NewCredentialError("decode", userID, serviceName, err)
	}

	return &credential, nil
}

func (cr *CredentialRepository) SaveCredential(_ context.Context, credential *models.Credential) error {
	if err := os.MkdirAll(cr.dir(), dirPerm); err != nil {
		return persistence.NewCredentialError("save", credential.UserID, credential.ServiceName, err)
	}

	credential.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(credential, "", "  ")
	if err != nil {
		return persistence.NewCredentialError("encode", credential.UserID, credential.ServiceName, err)
	}

	if err := os.WriteFile(cr.path(credential.UserID, credential.ServiceName), data, 0o600); err != nil {
		return persistence.NewCredentialError("save", credential.UserID, credential.ServiceName, err)
	}

	return nil
}
