// Package testutil provides helpers for tests that talk to an in-process
// gRPC server.
package testutil

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

// StartGRPCServer serves srv on an in-memory listener and returns a client
// connection to it. Both are torn down when the test ends.
//
// Precondition: srv has its services registered and has not been started.
// Postcondition: Returns a connection that reaches srv, or fails the test.
func StartGRPCServer(t testing.TB, srv *grpc.Server) *grpc.ClientConn {
	t.Helper()
	start := time.Now()

	lis := bufconn.Listen(bufSize)
	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.Stop()
		t.Fatalf("dialing bufconn server: %v", err)
	}

	t.Logf("bufconn gRPC server started [%s]", time.Since(start))

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
		_ = lis.Close()
	})
	return conn
}
