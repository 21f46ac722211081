package web

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/registry"
	"github.com/autofy/autofy/pkg/workflow"
)

type APIHandlers struct {
	persistence persistence.Persistence
	runner      *workflow.Runner
	executor    *workflow.Executor
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewAPIHandlers(
	p persistence.Persistence,
	runner *workflow.Runner,
	executor *workflow.Executor,
	reg *registry.Registry,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		persistence: p,
		runner:      runner,
		executor:    executor,
		registry:    reg,
		validator:   validate,
	}
}

// TriggerRun starts a single or batch run and responds with every
// run's outcome. Partial failures come back with success=false and a
// 200 status: the invocation itself worked.
func (h *APIHandlers) TriggerRun(c fiber.Ctx) error {
	var req RunRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "Invalid run request: "+err.Error())
	}

	switch req.Mode {
	case "single":
		result, err := h.executor.Execute(c.Context(), req.WorkflowID)
		if err != nil && persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		batch := models.NewBatchResult([]*models.RunResult{result})

		return c.JSON(toRunResponse(batch))
	default:
		batch, err := h.runner.RunActive(c.Context(), req.UserID)
		if err != nil {
			return internalError(c, err)
		}

		return c.JSON(toRunResponse(batch))
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.persistence.WorkflowRepository().ActiveWorkflows(c.Context(), c.Query("user_id"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.persistence.WorkflowRepository().WorkflowByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(wf)
}

// GetAdapters lists the trigger and action identifiers a workflow step
// can be configured with.
func (h *APIHandlers) GetAdapters(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"triggers": h.registry.AvailableTriggers(),
		"actions":  h.registry.AvailableActions(),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}

func toRunResponse(batch *models.BatchResult) RunResponse {
	return RunResponse{
		Success: batch.Summary.Failed == 0,
		Summary: batch.Summary,
		Results: batch.Results,
	}
}
