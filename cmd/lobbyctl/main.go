// Package main provides lobbyctl, a one-shot command line client for the
// lobby server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/lobby/internal/lobbyctl"
	"github.com/cory-johannsen/lobby/internal/lobbyserver/lobbyv1"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8100", "lobby server gRPC address")
	format := flag.String("o", lobbyctl.FormatTable, "output format: table or yaml")
	timeout := flag.Duration("timeout", 10*time.Second, "per-command deadline")
	maxBytes := flag.Int("max-message-bytes", 10<<20, "largest request or response accepted")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lobbyctl [flags] <command> [args...]\n\nflags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nrun 'lobbyctl help' for the command list\n")
	}
	flag.Parse()

	if !lobbyctl.ValidFormat(*format) {
		fmt.Fprintf(os.Stderr, "invalid output format %q\n", *format)
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(*maxBytes),
			grpc.MaxCallSendMsgSize(*maxBytes),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	env := lobbyctl.NewEnv(lobbyv1.NewLobbyServiceClient(conn), os.Stdout, *format)
	err = lobbyctl.DefaultRegistry().Execute(ctx, env, flag.Args())
	switch {
	case err == nil:
	case errors.Is(err, lobbyctl.ErrUsage), errors.Is(err, lobbyctl.ErrUnknownCommand):
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	case errors.Is(err, lobbyctl.ErrRejected):
		os.Exit(1)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
