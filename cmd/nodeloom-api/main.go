package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeloom/nodeloom/pkg/eventbus"
	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/log"
	"github.com/nodeloom/nodeloom/pkg/mock"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"github.com/nodeloom/nodeloom/pkg/persistence/memory"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"go.opentelemetry.io/otel"
)

const defaultPort = 5000

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "nodeloom-api",
		Usage:                 "Mock backend for the Nodeloom workflow editor",
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.DurationFlag{
				Name:    "latency-min",
				Usage:   "Minimum simulated network latency per request",
				Value:   100 * time.Millisecond,
				Sources: cli.EnvVars("LATENCY_MIN"),
			},
			&cli.DurationFlag{
				Name:    "latency-max",
				Usage:   "Maximum simulated network latency per request",
				Value:   500 * time.Millisecond,
				Sources: cli.EnvVars("LATENCY_MAX"),
			},
			&cli.StringFlag{
				Name:    "upload-dir",
				Usage:   "Directory for uploaded files",
				Value:   "./uploads",
				Sources: cli.EnvVars("UPLOAD_DIR"),
			},
			&cli.BoolFlag{
				Name:    "seed",
				Usage:   "Seed the store with sample workflows, agents, models, and templates",
				Value:   true,
				Sources: cli.EnvVars("SEED"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Nodeloom API")

			execOpts := []execution.Option{}

			if command.Bool("tracing") {
				tracerProvider, err := otelhelper.InitTracer(ctx, "nodeloom-api")
				if err != nil {
					return err
				}

				defer func() {
					if err := tracerProvider.Shutdown(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()

				execOpts = append(execOpts,
					execution.WithTracer(otel.Tracer("nodeloom-api")))
			}

			store := memory.NewPersistence()

			if command.Bool("seed") {
				workflows := mock.Workflows(5)
				store.Seed(workflows, mock.Agents(3), mock.Models(4),
					mock.Templates(3, workflows))
				logger.InfoContext(ctx, "Seeded sample data")
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := eventbus.NewGoChannel(logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			execOpts = append(execOpts, execution.WithPublisher(eventBus))

			executions := execution.NewRegistry(log.WithModule("execution"), execOpts...)
			nodeTypes := registry.NewRegistry(log.WithModule("registry"))

			api := NewAPI(
				logger,
				store,
				executions,
				nodeTypes,
				command.Duration("latency-min"),
				command.Duration("latency-max"),
				command.String("upload-dir"),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
