package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofy/autofy/pkg/cmd"
	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence/file"
	"github.com/autofy/autofy/pkg/web"
)

func setupTestApp(t *testing.T, tempDir string) (*fiber.App, *file.Persistence) {
	t.Helper()

	p := file.NewPersistence(tempDir)
	bus := cmd.NewEventBus("gochannel", slog.Default())

	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Logf("Failed to close event bus: %v", err)
		}
	})

	api, err := NewAPI(context.Background(), slog.Default(), p, &config.Providers{}, bus)
	require.NoError(t, err)

	return api.App(), p
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func seedWorkflow(t *testing.T, p *file.Persistence, id, userID string) {
	t.Helper()

	workflow := &models.Workflow{
		ID:     id,
		UserID: userID,
		Name:   "Workflow " + id,
		Status: models.WorkflowStatusActive,
		Steps: []*models.WorkflowStep{
			{
				ID:          id + "-trigger",
				StepOrder:   0,
				StepType:    models.StepTypeTrigger,
				ServiceName: "gmail",
				ActionName:  "new_email",
			},
		},
	}
	require.NoError(t, p.WorkflowRepository().SaveWorkflow(context.Background(), workflow))
}

func TestAPI_RootEndpoint(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Autofy API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_HealthCheck(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestAPI_GetWorkflows_Empty(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/workflows", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Workflows []*models.Workflow `json:"workflows"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Workflows)
}

func TestAPI_GetWorkflows_FiltersByUser(t *testing.T) {
	tempDir := t.TempDir()
	app, p := setupTestApp(t, tempDir)

	seedWorkflow(t, p, "wf-1", "user-1")
	seedWorkflow(t, p, "wf-2", "user-2")

	req := httptest.NewRequest(http.MethodGet, "/workflows?user_id=user-1", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Workflows []*models.Workflow `json:"workflows"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Workflows, 1)
	assert.Equal(t, "wf-1", body.Workflows[0].ID)
}

func TestAPI_GetWorkflow(t *testing.T) {
	tempDir := t.TempDir()
	app, p := setupTestApp(t, tempDir)

	seedWorkflow(t, p, "wf-1", "user-1")

	req := httptest.NewRequest(http.MethodGet, "/workflows/wf-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var workflow models.Workflow

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workflow))
	assert.Equal(t, "wf-1", workflow.ID)
	require.Len(t, workflow.Steps, 1)
}

func TestAPI_GetWorkflow_NotFound(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/workflows/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_GetAdapters(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/adapters", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Triggers []string `json:"triggers"`
		Actions  []string `json:"actions"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"gmail.new_email"}, body.Triggers)
	assert.Equal(t, []string{
		"ai.process",
		"gmail.reply",
		"notion.create_page",
		"telegram.broadcast",
	}, body.Actions)
}

func postRuns(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func TestAPI_TriggerRun_InvalidBody(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	resp := postRuns(t, app, "{not json")
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TriggerRun_MissingMode(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	resp := postRuns(t, app, `{"workflow_id": "wf-1"}`)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TriggerRun_SingleRequiresWorkflowID(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	resp := postRuns(t, app, `{"mode": "single"}`)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_TriggerRun_SingleUnknownWorkflow(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	resp := postRuns(t, app, `{"mode": "single", "workflow_id": "missing"}`)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_TriggerRun_BatchWithNoWorkflows(t *testing.T) {
	app, _ := setupTestApp(t, t.TempDir())

	resp := postRuns(t, app, `{"mode": "batch"}`)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body web.RunResponse

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Summary.Total)
}