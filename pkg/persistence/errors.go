// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrCredentialNotFound indicates no credential exists for the owner+service pair.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrChatNotFound indicates a chat is not registered for the owner.
	ErrChatNotFound = errors.New("chat not found")
)

// WorkflowError wraps workflow-related errors with additional context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g., "WorkflowByID", "UpdateRunStats")
	WorkflowID string
	Err        error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewWorkflowError(op, workflowID string, err error) *WorkflowError {
	return &WorkflowError{Op: op, WorkflowID: workflowID, Err: err}
}

// CredentialError wraps credential-related errors with additional context.
type CredentialError struct {
	Op          string
	UserID      string
	ServiceName string
	Err         error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s operation failed for %s/%s: %v", e.Op, e.UserID, e.ServiceName, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

func (e *CredentialError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewCredentialError(op, userID, serviceName string, err error) *CredentialError {
	return &CredentialError{Op: op, UserID: userID, ServiceName: serviceName, Err: err}
}

func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

func IsCredentialNotFound(err error) bool {
	return errors.Is(err, ErrCredentialNotFound)
}

func IsChatNotFound(err error) bool {
	return errors.Is(err, ErrChatNotFound)
}
