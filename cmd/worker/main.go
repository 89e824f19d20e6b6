package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/groupescape/escape-houses/internal/tasks"
	"github.com/groupescape/escape-houses/pkg/config"
	"github.com/groupescape/escape-houses/pkg/queue"
	"github.com/groupescape/escape-houses/pkg/util"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)

	srv := queue.NewServer(&cfg.Redis, 10)

	handler := tasks.NewHandler(logger, cfg.Mail)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	go func() {
		logger.Info("starting worker", "redis", cfg.Redis.Addr())
		if err := srv.Run(mux); err != nil {
			logger.Error("worker error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
	srv.Shutdown()
	logger.Info("worker stopped")
}
