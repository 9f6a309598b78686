package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type requestIDKey struct{}

// RequestID returns the ID assigned to the current call by UnaryLoggingInterceptor.
//
// Postcondition: Returns ("", false) outside an intercepted call.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// UnaryLoggingInterceptor tags each unary call with a request ID and logs its
// method, status code and duration. Successful calls are logged at debug level,
// failed ones at warn.
//
// Precondition: logger must be non-nil.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := uuid.NewString()
		ctx = context.WithValue(ctx, requestIDKey{}, id)

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", id),
			zap.String("code", code.String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if code != codes.OK {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc handled", fields...)
		}
		return resp, err
	}
}
