// Package persistence provides the storage abstraction layer for
// workflows, credentials and chat registrations.
package persistence

import (
	"context"

	"github.com/autofy/autofy/pkg/models"
)

// WorkflowRepository reads workflows with their ordered steps and writes
// back per-run statistics. The engine never deletes workflows.
type WorkflowRepository interface {
	ActiveWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	UpdateRunStats(ctx context.Context, id string, stats models.RunStats) error
}

// CredentialRepository reads and writes per-user, per-service credentials.
type CredentialRepository interface {
	CredentialByUserAndService(ctx context.Context, userID, serviceName string) (*models.Credential, error)
	SaveCredential(ctx context.Context, credential *models.Credential) error
}

// ChatRepository reads the chat destinations a user registered.
type ChatRepository interface {
	ActiveChats(ctx context.Context, userID string) ([]*models.ChatChannel, error)
	ChatByID(ctx context.Context, userID, chatID string) (*models.ChatChannel, error)
}

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	CredentialRepository() CredentialRepository
	ChatRepository() ChatRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
