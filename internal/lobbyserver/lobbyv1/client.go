package lobbyv1

import (
	"context"

	"google.golang.org/grpc"
)

// LobbyServiceClient is the client API of lobby.v1.LobbyService.
type LobbyServiceClient interface {
	Login(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*OKResponse, error)
	Logout(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*OKResponse, error)
	GetAvailableRooms(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RoomsResponse, error)
	CreateRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error)
	JoinRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error)
	LeaveRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error)
	GetPlayersInRoom(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*PlayersResponse, error)
	BroadcastMessage(ctx context.Context, in *BroadcastRequest, opts ...grpc.CallOption) (*Empty, error)
	GetMessages(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	GetChatFeed(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*ChatFeedResponse, error)
	SendPrivateMessage(ctx context.Context, in *PrivateMessageRequest, opts ...grpc.CallOption) (*Empty, error)
	GetPrivateMessages(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	GetConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*Empty, error)
	GetFileNames(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*FileNamesResponse, error)
	GetFileInfos(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*FileInfosResponse, error)
	DownloadFile(ctx context.Context, in *DownloadFileRequest, opts ...grpc.CallOption) (*DownloadFileResponse, error)
}

type lobbyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLobbyServiceClient wraps cc. Every call is sent with the JSON codec.
func NewLobbyServiceClient(cc grpc.ClientConnInterface) LobbyServiceClient {
	return &lobbyServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	if err := checkRequest(in); err != nil {
		return nil, err
	}
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lobbyServiceClient) Login(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*OKResponse, error) {
	return invoke[OKResponse](ctx, c.cc, "Login", in, opts)
}

func (c *lobbyServiceClient) Logout(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*OKResponse, error) {
	return invoke[OKResponse](ctx, c.cc, "Logout", in, opts)
}

func (c *lobbyServiceClient) GetAvailableRooms(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RoomsResponse, error) {
	return invoke[RoomsResponse](ctx, c.cc, "GetAvailableRooms", in, opts)
}

func (c *lobbyServiceClient) CreateRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error) {
	return invoke[OKResponse](ctx, c.cc, "CreateRoom", in, opts)
}

func (c *lobbyServiceClient) JoinRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error) {
	return invoke[OKResponse](ctx, c.cc, "JoinRoom", in, opts)
}

func (c *lobbyServiceClient) LeaveRoom(ctx context.Context, in *RoomMemberRequest, opts ...grpc.CallOption) (*OKResponse, error) {
	return invoke[OKResponse](ctx, c.cc, "LeaveRoom", in, opts)
}

func (c *lobbyServiceClient) GetPlayersInRoom(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*PlayersResponse, error) {
	return invoke[PlayersResponse](ctx, c.cc, "GetPlayersInRoom", in, opts)
}

func (c *lobbyServiceClient) BroadcastMessage(ctx context.Context, in *BroadcastRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "BroadcastMessage", in, opts)
}

func (c *lobbyServiceClient) GetMessages(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, "GetMessages", in, opts)
}

func (c *lobbyServiceClient) GetChatFeed(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*ChatFeedResponse, error) {
	return invoke[ChatFeedResponse](ctx, c.cc, "GetChatFeed", in, opts)
}

func (c *lobbyServiceClient) SendPrivateMessage(ctx context.Context, in *PrivateMessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SendPrivateMessage", in, opts)
}

func (c *lobbyServiceClient) GetPrivateMessages(ctx context.Context, in *UsernameRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, "GetPrivateMessages", in, opts)
}

func (c *lobbyServiceClient) GetConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, "GetConversation", in, opts)
}

func (c *lobbyServiceClient) UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "UploadFile", in, opts)
}

func (c *lobbyServiceClient) GetFileNames(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*FileNamesResponse, error) {
	return invoke[FileNamesResponse](ctx, c.cc, "GetFileNames", in, opts)
}

func (c *lobbyServiceClient) GetFileInfos(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*FileInfosResponse, error) {
	return invoke[FileInfosResponse](ctx, c.cc, "GetFileInfos", in, opts)
}

func (c *lobbyServiceClient) DownloadFile(ctx context.Context, in *DownloadFileRequest, opts ...grpc.CallOption) (*DownloadFileResponse, error) {
	return invoke[DownloadFileResponse](ctx, c.cc, "DownloadFile", in, opts)
}
