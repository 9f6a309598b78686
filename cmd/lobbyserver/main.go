// Package main provides the lobby server binary: an in-memory chat lobby
// served over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/lobby/internal/config"
	"github.com/cory-johannsen/lobby/internal/lobby"
	"github.com/cory-johannsen/lobby/internal/lobbyserver"
	"github.com/cory-johannsen/lobby/internal/observability"
	"github.com/cory-johannsen/lobby/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, zap.String("server", cfg.Server.Name))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting lobby server",
		zap.String("grpc_addr", cfg.Lobby.Addr()),
		zap.Int("max_message_bytes", cfg.Lobby.MaxMessageBytes),
	)

	svc := lobby.NewService(logger)
	grpcServer := lobbyserver.NewGRPCServer(cfg.Lobby, svc, logger)

	lifecycle := server.NewLifecycle(logger, server.WithStopTimeout(cfg.Lobby.ShutdownTimeout+time.Second))
	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			return lobbyserver.Serve(cfg.Lobby, grpcServer, logger)
		},
		StopFn: func() {
			lobbyserver.Stop(grpcServer, cfg.Lobby.ShutdownTimeout)
		},
	})

	logger.Info("lobby server initialized", zap.Duration("startup", time.Since(start)))

	runErr := lifecycle.Run(context.Background())
	lobbyserver.LogExit(logger, svc, runErr)
	if runErr != nil {
		_ = logger.Sync()
		os.Exit(1)
	}
}
