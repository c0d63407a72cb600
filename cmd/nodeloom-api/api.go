// Package main provides the Nodeloom mock backend API server.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/services"
	"github.com/nodeloom/nodeloom/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	executions  *execution.Registry
	registry    *registry.Registry
	validate    *validator.Validate
	latencyMin  time.Duration
	latencyMax  time.Duration
	uploadDir   string
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	executions *execution.Registry,
	registry *registry.Registry,
	latencyMin, latencyMax time.Duration,
	uploadDir string,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		executions:  executions,
		registry:    registry,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		latencyMin:  latencyMin,
		latencyMax:  latencyMax,
		uploadDir:   uploadDir,
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence)
	agentService := services.NewAgent(a.persistence)
	modelService := services.NewModel(a.persistence)
	templateService := services.NewTemplate(a.persistence, workflowService)

	handlers := web.NewAPIHandlers(
		workflowService,
		agentService,
		modelService,
		templateService,
		a.executions,
		a.registry,
		a.validate,
		a.logger,
		a.uploadDir,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))
	app.Use(web.NewLatency(web.LatencyConfig{
		Min: a.latencyMin,
		Max: a.latencyMax,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	web.RegisterRoutes(app, handlers)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
