package lobbyserver

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/lobby/internal/config"
	"github.com/cory-johannsen/lobby/internal/lobby"
	"github.com/cory-johannsen/lobby/internal/lobbyserver/lobbyv1"
	"github.com/cory-johannsen/lobby/internal/observability"
)

// NewGRPCServer builds a grpc.Server serving svc. Message size limits come
// from cfg.MaxMessageBytes and every call passes through the logging
// interceptor.
//
// Precondition: svc and logger must be non-nil; cfg must be validated.
// Postcondition: Returns a grpc.Server with lobby.v1.LobbyService registered.
func NewGRPCServer(cfg config.LobbyConfig, svc *lobby.Service, logger *zap.Logger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxMessageBytes),
		grpc.MaxSendMsgSize(cfg.MaxMessageBytes),
		grpc.ChainUnaryInterceptor(observability.UnaryLoggingInterceptor(logger)),
	)
	lobbyv1.RegisterLobbyServiceServer(srv, NewLobbyServiceServer(svc, logger))
	return srv
}

// Serve listens on cfg.Addr() and serves srv until it is stopped.
//
// Postcondition: Returns nil after a graceful stop, or the listen/serve error.
func Serve(cfg config.LobbyConfig, srv *grpc.Server, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr(), err)
	}
	logger.Info("gRPC server listening",
		zap.String("addr", lis.Addr().String()),
	)
	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("serving gRPC: %w", err)
	}
	return nil
}

// Stop drains in-flight calls for at most timeout, then closes every
// connection.
func Stop(srv *grpc.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		srv.Stop()
	}
}

// LogExit records the lobby's final counts once the server has stopped. A
// non-nil runErr is logged at error level alongside them.
func LogExit(logger *zap.Logger, svc *lobby.Service, runErr error) {
	stats := svc.Stats()
	fields := []zap.Field{
		zap.Int("players", stats.Players),
		zap.Int("rooms", stats.Rooms),
		zap.Int("files", stats.Files),
	}
	if runErr != nil {
		logger.Error("lobby server exited with error", append(fields, zap.Error(runErr))...)
		return
	}
	logger.Info("lobby server stopped", fields...)
}
