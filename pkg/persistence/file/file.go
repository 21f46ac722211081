// Package file provides file-based persistence for workflows,
// credentials and chat registrations.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/autofy/autofy/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the
// file system. Intended for development and tests.
type Persistence struct {
	root           string
	workflowRepo   *WorkflowRepository
	credentialRepo *CredentialRepository
	chatRepo       *ChatRepository
}

// NewPersistence creates a file persistence rooted at the given
// directory. A file:// prefix is stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		workflowRepo:   NewWorkflowRepository(cleanRoot),
		credentialRepo: NewCredentialRepository(cleanRoot),
		chatRepo:       NewChatRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence,
// there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) CredentialRepository() persistence.CredentialRepository {
	return fp.credentialRepo
}

func (fp *Persistence) ChatRepository() persistence.ChatRepository {
	return fp.chatRepo
}
