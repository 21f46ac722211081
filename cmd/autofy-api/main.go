package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/autofy/autofy/pkg/cmd"
	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/log"
)

const defaultPort = 9090

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "autofy-api",
		Usage:                 "Trigger workflow runs and inspect workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Autofy API")

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

			api, err := NewAPI(ctx, logger, persistence, providers, eventBus)
			if err != nil {
				return err
			}

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
