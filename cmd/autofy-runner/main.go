// Package main provides the Autofy batch runner: a one-shot or
// scheduled execution of every active workflow.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/autofy/autofy/pkg/cmd"
	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/log"
	"github.com/autofy/autofy/pkg/otelhelper"
	"github.com/autofy/autofy/pkg/workflow"
)

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("runner")

	command := &cli.Command{
		Name:                  "autofy-runner",
		Usage:                 "Run active workflows once or on a schedule",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "providers-config",
				Usage:   "Path to the provider configuration YAML",
				Value:   "./providers.yaml",
				Sources: cli.EnvVars("PROVIDERS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:  "user-id",
				Usage: "Scope the batch to one owner's workflows",
			},
			&cli.StringFlag{
				Name:  "workflow-id",
				Usage: "Run a single workflow instead of the active batch",
			},
			&cli.StringFlag{
				Name:    "cron",
				Usage:   "Cron expression to run batches on a schedule",
				Sources: cli.EnvVars("RUNNER_CRON"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Runner failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("runner")

	providers := config.LoadProvidersOrDefault(command.String("providers-config"))
	persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	deps := cmd.NewDependencies(persistence, providers)
	registry := cmd.NewRegistry(logger, deps)

	tracer, err := otelhelper.NewTracer(ctx, "autofy-runner")
	if err != nil {
		return err
	}

	executor := workflow.NewExecutor(logger, persistence.WorkflowRepository(), registry, eventBus, tracer)
	runner := workflow.NewRunner(logger, persistence.WorkflowRepository(), executor)

	runBatch := func() error {
		if workflowID := command.String("workflow-id"); workflowID != "" {
			result, err := executor.Execute(ctx, workflowID)
			printResult(result)

			return err
		}

		batch, err := runner.RunActive(ctx, command.String("user-id"))
		if err != nil {
			return err
		}

		printResult(batch)

		return nil
	}

	spec := command.String("cron")
	if spec == "" {
		return runBatch()
	}

	scheduler := cron.New()

	_, err = scheduler.AddFunc(spec, func() {
		if err := runBatch(); err != nil {
			logger.Error("Scheduled batch failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	logger.Info("Starting scheduled runner", "cron", spec)
	scheduler.Start()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	logger.Info("Shutting down scheduled runner")
	<-scheduler.Stop().Done()

	return nil
}

func printResult(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}

	fmt.Println(string(data))
}
