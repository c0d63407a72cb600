package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/web"
)

func latencyApp(config web.LatencyConfig) *fiber.App {
	app := fiber.New()
	app.Use(web.NewLatency(config))
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestLatencyDisabled(t *testing.T) {
	app := latencyApp(web.LatencyConfig{})

	start := time.Now()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLatencyDelaysRequests(t *testing.T) {
	app := latencyApp(web.LatencyConfig{
		Min: 20 * time.Millisecond,
		Max: 40 * time.Millisecond,
	})

	start := time.Now()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
