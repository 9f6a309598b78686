package lobbyserver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/lobby/internal/lobby"
	"github.com/cory-johannsen/lobby/internal/lobbyserver"
)

func TestLogExit_CleanStopLogsCounts(t *testing.T) {
	svc := lobby.NewService(zap.NewNop())
	require.True(t, svc.Login("alice"))
	require.True(t, svc.CreateRoom("hall", "alice"))
	svc.UploadFile("hall", "alice", []byte("x"), "a.txt")

	core, logs := observer.New(zapcore.DebugLevel)
	lobbyserver.LogExit(zap.New(core), svc, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "lobby server stopped", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 1, fields["players"])
	assert.EqualValues(t, 1, fields["rooms"])
	assert.EqualValues(t, 1, fields["files"])
}

func TestLogExit_FailureLogsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lobbyserver.LogExit(zap.New(core), lobby.NewService(zap.NewNop()), errors.New("bind failed"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "bind failed", fields["error"])
	assert.EqualValues(t, 0, fields["players"])
}
