package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gongguhub/gonggu/internal/setup"
	"github.com/gongguhub/gonggu/internal/worker/sweep"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// WorkerLogDir specifies where worker log files are stored.
const WorkerLogDir = "logs/worker_logs"

// SweepWorker settles expired deadlines across the lifecycle.
const SweepWorker = "sweep"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start a background worker",
		Commands: []*cli.Command{
			{
				Name:  SweepWorker,
				Usage: "Start the deadline sweep worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					runSweepWorker(ctx)
					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runSweepWorker starts the sweep worker and blocks until interrupted.
func runSweepWorker(ctx context.Context) {
	app, err := setup.InitializeApp(ctx, WorkerLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(ctx)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerLogger := app.LogManager.GetWorkerLogger("sweep_worker")

	log.Printf("Started %s worker", SweepWorker)
	runWorker(ctx, sweep.New(app, workerLogger), workerLogger)
	log.Println("Worker has finished. Exiting.")
}

// runWorker runs a single worker in a loop with error recovery.
func runWorker(ctx context.Context, w interface{ Start(context.Context) }, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping worker")
			return
		default:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Worker execution failed",
							zap.String("worker_type", fmt.Sprintf("%T", w)),
							zap.Any("panic", r),
						)
						logger.Info("Restarting worker in 5 seconds...")
						time.Sleep(5 * time.Second)
					}
				}()

				logger.Info("Starting worker")
				w.Start(ctx)
			}()
		}
	}
}
