package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/persistence/memory"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/services"
	"github.com/nodeloom/nodeloom/pkg/web"
)

func setupTestApp(t *testing.T) (*fiber.App, *memory.Persistence) {
	t.Helper()

	store := memory.NewPersistence()
	workflowService := services.NewWorkflow(store)
	agentService := services.NewAgent(store)
	modelService := services.NewModel(store)
	templateService := services.NewTemplate(store, workflowService)
	executions := execution.NewRegistry(slog.Default())
	registryInstance := registry.NewRegistry(slog.Default())
	validate := validator.New(validator.WithRequiredStructEnabled())

	handlers := web.NewAPIHandlers(
		workflowService,
		agentService,
		modelService,
		templateService,
		executions,
		registryInstance,
		validate,
		slog.Default(),
		t.TempDir(),
	)

	app := fiber.New()
	web.RegisterRoutes(app, handlers)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	return resp, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()

	var result map[string]any

	require.NoError(t, json.Unmarshal(raw, &result))

	return result
}
