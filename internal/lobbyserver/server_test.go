package lobbyserver_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/lobby/internal/config"
	"github.com/cory-johannsen/lobby/internal/lobby"
	"github.com/cory-johannsen/lobby/internal/lobbyserver"
	"github.com/cory-johannsen/lobby/internal/lobbyserver/lobbyv1"
	"github.com/cory-johannsen/lobby/internal/testutil"
)

var uploadedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testLobbyConfig() config.LobbyConfig {
	return config.LobbyConfig{
		GRPCHost:        "127.0.0.1",
		GRPCPort:        8100,
		MaxMessageBytes: 64 << 10,
		ShutdownTimeout: time.Second,
	}
}

func newTestClient(t *testing.T) (lobbyv1.LobbyServiceClient, *lobby.Service) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	svc := lobby.NewService(logger, lobby.WithClock(func() time.Time { return uploadedAt }))
	srv := lobbyserver.NewGRPCServer(testLobbyConfig(), svc, logger)
	conn := testutil.StartGRPCServer(t, srv)
	return lobbyv1.NewLobbyServiceClient(conn), svc
}

func login(t *testing.T, c lobbyv1.LobbyServiceClient, names ...string) {
	t.Helper()
	for _, name := range names {
		resp, err := c.Login(context.Background(), &lobbyv1.UsernameRequest{Username: name})
		require.NoError(t, err)
		require.True(t, resp.OK, "login %s", name)
	}
}

func roomOp(t *testing.T, op func(context.Context, *lobbyv1.RoomMemberRequest, ...grpc.CallOption) (*lobbyv1.OKResponse, error), room, user string) bool {
	t.Helper()
	resp, err := op(context.Background(), &lobbyv1.RoomMemberRequest{RoomName: room, Username: user})
	require.NoError(t, err)
	return resp.OK
}

func TestLogin_DuplicateFails(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := c.Login(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	resp, err = c.Login(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.NoError(t, err)
	assert.False(t, resp.OK)
}

func TestRoomLifecycleOverGRPC(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice", "bob")

	assert.True(t, roomOp(t, c.CreateRoom, "general", "alice"))
	assert.False(t, roomOp(t, c.CreateRoom, "general", "bob"))
	assert.True(t, roomOp(t, c.JoinRoom, "general", "bob"))
	assert.False(t, roomOp(t, c.JoinRoom, "general", "bob"))

	players, err := c.GetPlayersInRoom(ctx, &lobbyv1.RoomRequest{RoomName: "general"})
	require.NoError(t, err)
	assert.Equal(t, []lobbyv1.Player{{Username: "alice"}, {Username: "bob"}}, players.Players)

	assert.True(t, roomOp(t, c.LeaveRoom, "general", "alice"))
	assert.True(t, roomOp(t, c.LeaveRoom, "general", "bob"))
	assert.False(t, roomOp(t, c.LeaveRoom, "general", "bob"))

	rooms, err := c.GetAvailableRooms(ctx, &lobbyv1.Empty{})
	require.NoError(t, err)
	assert.Empty(t, rooms.Rooms)
	assert.Equal(t, 0, svc.Stats().Rooms)
}

func TestChatScenario(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice", "bob")
	require.True(t, roomOp(t, c.CreateRoom, "r1", "alice"))
	require.True(t, roomOp(t, c.JoinRoom, "r1", "bob"))

	_, err := c.BroadcastMessage(ctx, &lobbyv1.BroadcastRequest{RoomName: "r1", Username: "alice", Text: "hi"})
	require.NoError(t, err)
	_, err = c.BroadcastMessage(ctx, &lobbyv1.BroadcastRequest{RoomName: "r1", Username: "bob", Text: "hello"})
	require.NoError(t, err)

	msgs, err := c.GetMessages(ctx, &lobbyv1.RoomRequest{RoomName: "r1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice: hi", "bob: hello"}, msgs.Messages)

	rooms, err := c.GetAvailableRooms(ctx, &lobbyv1.Empty{})
	require.NoError(t, err)
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, lobbyv1.RoomSummary{
		RoomName: "r1",
		Members:  []lobbyv1.Player{{Username: "alice"}, {Username: "bob"}},
		Messages: []string{"alice: hi", "bob: hello"},
	}, rooms.Rooms[0])
}

func TestBroadcastToMissingRoomIsNoop(t *testing.T) {
	c, svc := newTestClient(t)
	_, err := c.BroadcastMessage(context.Background(), &lobbyv1.BroadcastRequest{RoomName: "nowhere", Username: "x", Text: "y"})
	require.NoError(t, err)
	assert.Equal(t, lobby.Stats{}, svc.Stats())
}

func TestPrivateMessagesOverGRPC(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice", "bob", "carol")
	require.True(t, roomOp(t, c.CreateRoom, "r1", "alice"))
	require.True(t, roomOp(t, c.JoinRoom, "r1", "bob"))

	_, err := c.SendPrivateMessage(ctx, &lobbyv1.PrivateMessageRequest{Sender: "alice", Receiver: "bob", Text: "psst"})
	require.NoError(t, err)
	_, err = c.SendPrivateMessage(ctx, &lobbyv1.PrivateMessageRequest{Sender: "alice", Receiver: "carol", Text: "dropped"})
	require.NoError(t, err)

	bob, err := c.GetPrivateMessages(ctx, &lobbyv1.UsernameRequest{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Private from alice: psst"}, bob.Messages)

	alice, err := c.GetPrivateMessages(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Private to bob: psst"}, alice.Messages)

	carol, err := c.GetPrivateMessages(ctx, &lobbyv1.UsernameRequest{Username: "carol"})
	require.NoError(t, err)
	assert.Empty(t, carol.Messages)

	conv, err := c.GetConversation(ctx, &lobbyv1.ConversationRequest{Username: "alice", Counterpart: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Private to bob: psst"}, conv.Messages)
}

func TestFilesOverGRPC(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice")
	require.True(t, roomOp(t, c.CreateRoom, "r1", "alice"))

	upload := func(name string, data []byte) {
		_, err := c.UploadFile(ctx, &lobbyv1.UploadFileRequest{RoomName: "r1", Username: "alice", Data: data, FileName: name})
		require.NoError(t, err)
	}
	upload("notes.txt", []byte("first"))
	upload("notes.txt", []byte("second"))
	upload("empty.bin", []byte{})

	names, err := c.GetFileNames(ctx, &lobbyv1.RoomRequest{RoomName: "r1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "notes.txt", "empty.bin"}, names.FileNames)

	got, err := c.DownloadFile(ctx, &lobbyv1.DownloadFileRequest{RoomName: "r1", FileName: "notes.txt"})
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Equal(t, []byte("first"), got.Data)

	empty, err := c.DownloadFile(ctx, &lobbyv1.DownloadFileRequest{RoomName: "r1", FileName: "empty.bin"})
	require.NoError(t, err)
	assert.True(t, empty.Found, "an empty file is still found")
	assert.Empty(t, empty.Data)

	missing, err := c.DownloadFile(ctx, &lobbyv1.DownloadFileRequest{RoomName: "r1", FileName: "nope"})
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Empty(t, missing.Data)

	infos, err := c.GetFileInfos(ctx, &lobbyv1.RoomRequest{RoomName: "r1"})
	require.NoError(t, err)
	require.Len(t, infos.Files, 3)
	assert.Equal(t, "notes.txt", infos.Files[0].FileName)
	assert.Equal(t, "alice", infos.Files[0].Uploader)
	assert.Equal(t, int64(5), infos.Files[0].Size)
	assert.True(t, uploadedAt.Equal(infos.Files[0].UploadedAt))
	assert.NotEmpty(t, infos.Files[0].ID)
	assert.NotEqual(t, infos.Files[0].ID, infos.Files[1].ID)
}

func TestChatFeedOverGRPC(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice")
	require.True(t, roomOp(t, c.CreateRoom, "r1", "alice"))

	_, err := c.UploadFile(ctx, &lobbyv1.UploadFileRequest{RoomName: "r1", Username: "alice", Data: []byte("x"), FileName: "a.txt"})
	require.NoError(t, err)
	_, err = c.BroadcastMessage(ctx, &lobbyv1.BroadcastRequest{RoomName: "r1", Username: "alice", Text: "look"})
	require.NoError(t, err)

	feed, err := c.GetChatFeed(ctx, &lobbyv1.RoomRequest{RoomName: "r1"})
	require.NoError(t, err)
	assert.Equal(t, []lobbyv1.ChatEntry{
		{Kind: lobbyv1.EntryKindMessage, Author: "alice", Text: "look"},
		{Kind: lobbyv1.EntryKindFile, FileName: "a.txt"},
	}, feed.Entries)
}

func TestLogoutCascadeOverGRPC(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice")
	require.True(t, roomOp(t, c.CreateRoom, "solo", "alice"))
	_, err := c.UploadFile(ctx, &lobbyv1.UploadFileRequest{RoomName: "solo", Username: "alice", Data: []byte("x"), FileName: "a.txt"})
	require.NoError(t, err)

	resp, err := c.Logout(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, lobby.Stats{}, svc.Stats())

	resp, err = c.Logout(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.NoError(t, err)
	assert.False(t, resp.OK)
}

func TestCancelledCallIsRejected(t *testing.T) {
	c, svc := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Login(ctx, &lobbyv1.UsernameRequest{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, codes.Canceled, status.Code(err))
	assert.Equal(t, 0, svc.Stats().Players)
}

func TestUploadLargerThanLimitFails(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()
	login(t, c, "alice")
	require.True(t, roomOp(t, c.CreateRoom, "r1", "alice"))

	big := make([]byte, testLobbyConfig().MaxMessageBytes)
	_, err := c.UploadFile(ctx, &lobbyv1.UploadFileRequest{RoomName: "r1", Username: "alice", Data: big, FileName: "big.bin"})
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, 0, svc.Stats().Files)
}

func TestConcurrentClients(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	login(t, c, "host")
	require.True(t, roomOp(t, c.CreateRoom, "hall", "host"))

	const clients = 8
	const perClient = 10
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user%d", i)
			if _, err := c.Login(ctx, &lobbyv1.UsernameRequest{Username: name}); err != nil {
				t.Error(err)
				return
			}
			if _, err := c.JoinRoom(ctx, &lobbyv1.RoomMemberRequest{RoomName: "hall", Username: name}); err != nil {
				t.Error(err)
				return
			}
			for j := 0; j < perClient; j++ {
				if _, err := c.BroadcastMessage(ctx, &lobbyv1.BroadcastRequest{RoomName: "hall", Username: name, Text: fmt.Sprint(j)}); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	msgs, err := c.GetMessages(ctx, &lobbyv1.RoomRequest{RoomName: "hall"})
	require.NoError(t, err)
	assert.Len(t, msgs.Messages, clients*perClient)

	players, err := c.GetPlayersInRoom(ctx, &lobbyv1.RoomRequest{RoomName: "hall"})
	require.NoError(t, err)
	assert.Len(t, players.Players, clients+1)
}

// rawJSON sends pre-encoded bodies under the lobby's JSON content-subtype.
type rawJSON struct{}

func (rawJSON) Marshal(v any) ([]byte, error) { return v.([]byte), nil }

func (rawJSON) Unmarshal(data []byte, v any) error {
	*v.(*[]byte) = append([]byte(nil), data...)
	return nil
}

func (rawJSON) Name() string { return lobbyv1.CodecName }

func TestInvalidUTF8IsRejected(t *testing.T) {
	logger := zaptest.NewLogger(t)
	svc := lobby.NewService(logger)
	conn := testutil.StartGRPCServer(t, lobbyserver.NewGRPCServer(testLobbyConfig(), svc, logger))
	c := lobbyv1.NewLobbyServiceClient(conn)
	ctx := context.Background()

	for _, name := range []string{"\xff", "\xfe"} {
		var out []byte
		err := conn.Invoke(ctx, lobbyv1.FullMethod("Login"), []byte(`{"username":"`+name+`"}`), &out, grpc.ForceCodec(rawJSON{}))
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%q", name)

		_, err = c.Login(ctx, &lobbyv1.UsernameRequest{Username: name})
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "%q", name)
	}
	assert.Equal(t, 0, svc.Stats().Players)

	login(t, c, "ÿ", "þ")
	assert.Equal(t, 2, svc.Stats().Players)

	_, err := c.BroadcastMessage(ctx, &lobbyv1.BroadcastRequest{RoomName: "r", Username: "ÿ", Text: "bad \xc3"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
