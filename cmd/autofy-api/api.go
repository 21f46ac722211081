// Package main provides the Autofy API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/autofy/autofy/pkg/cmd"
	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/eventbus"
	"github.com/autofy/autofy/pkg/otelhelper"
	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/registry"
	"github.com/autofy/autofy/pkg/web"
	"github.com/autofy/autofy/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	runner      *workflow.Runner
	executor    *workflow.Executor
	registry    *registry.Registry
	validate    *validator.Validate
}

func NewAPI(
	ctx context.Context,
	logger *slog.Logger,
	p persistence.Persistence,
	providers *config.Providers,
	bus eventbus.EventBus,
) (*API, error) {
	deps := cmd.NewDependencies(p, providers)
	reg := cmd.NewRegistry(logger, deps)

	tracer, err := otelhelper.NewTracer(ctx, "autofy-api")
	if err != nil {
		return nil, err
	}

	executor := workflow.NewExecutor(logger, p.WorkflowRepository(), reg, bus, tracer)
	runner := workflow.NewRunner(logger, p.WorkflowRepository(), executor)

	return &API{
		logger:      logger,
		persistence: p,
		runner:      runner,
		executor:    executor,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.persistence, a.runner, a.executor, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Autofy API")
	})

	app.Post("/runs", handlers.TriggerRun)
	app.Get("/adapters", handlers.GetAdapters)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Get("/:id", handlers.GetWorkflow)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
