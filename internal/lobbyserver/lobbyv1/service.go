package lobbyv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "lobby.v1.LobbyService"

// FullMethod returns the "/service/method" path of an RPC.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// LobbyServiceServer is the server API of lobby.v1.LobbyService. Every RPC is
// unary.
type LobbyServiceServer interface {
	Login(context.Context, *UsernameRequest) (*OKResponse, error)
	Logout(context.Context, *UsernameRequest) (*OKResponse, error)
	GetAvailableRooms(context.Context, *Empty) (*RoomsResponse, error)
	CreateRoom(context.Context, *RoomMemberRequest) (*OKResponse, error)
	JoinRoom(context.Context, *RoomMemberRequest) (*OKResponse, error)
	LeaveRoom(context.Context, *RoomMemberRequest) (*OKResponse, error)
	GetPlayersInRoom(context.Context, *RoomRequest) (*PlayersResponse, error)
	BroadcastMessage(context.Context, *BroadcastRequest) (*Empty, error)
	GetMessages(context.Context, *RoomRequest) (*MessagesResponse, error)
	GetChatFeed(context.Context, *RoomRequest) (*ChatFeedResponse, error)
	SendPrivateMessage(context.Context, *PrivateMessageRequest) (*Empty, error)
	GetPrivateMessages(context.Context, *UsernameRequest) (*MessagesResponse, error)
	GetConversation(context.Context, *ConversationRequest) (*MessagesResponse, error)
	UploadFile(context.Context, *UploadFileRequest) (*Empty, error)
	GetFileNames(context.Context, *RoomRequest) (*FileNamesResponse, error)
	GetFileInfos(context.Context, *RoomRequest) (*FileInfosResponse, error)
	DownloadFile(context.Context, *DownloadFileRequest) (*DownloadFileResponse, error)
}

// unary adapts a typed server method into a grpc.MethodDesc. Requests that
// are not valid UTF-8 are rejected with InvalidArgument before call runs.
func unary[Req, Resp any](method string, call func(LobbyServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			var raw rawRequest
			if err := dec(&raw); err != nil {
				return nil, err
			}
			in := new(Req)
			if err := decodeRequest(raw, in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LobbyServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LobbyServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes lobby.v1.LobbyService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LobbyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", LobbyServiceServer.Login),
		unary("Logout", LobbyServiceServer.Logout),
		unary("GetAvailableRooms", LobbyServiceServer.GetAvailableRooms),
		unary("CreateRoom", LobbyServiceServer.CreateRoom),
		unary("JoinRoom", LobbyServiceServer.JoinRoom),
		unary("LeaveRoom", LobbyServiceServer.LeaveRoom),
		unary("GetPlayersInRoom", LobbyServiceServer.GetPlayersInRoom),
		unary("BroadcastMessage", LobbyServiceServer.BroadcastMessage),
		unary("GetMessages", LobbyServiceServer.GetMessages),
		unary("GetChatFeed", LobbyServiceServer.GetChatFeed),
		unary("SendPrivateMessage", LobbyServiceServer.SendPrivateMessage),
		unary("GetPrivateMessages", LobbyServiceServer.GetPrivateMessages),
		unary("GetConversation", LobbyServiceServer.GetConversation),
		unary("UploadFile", LobbyServiceServer.UploadFile),
		unary("GetFileNames", LobbyServiceServer.GetFileNames),
		unary("GetFileInfos", LobbyServiceServer.GetFileInfos),
		unary("DownloadFile", LobbyServiceServer.DownloadFile),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterLobbyServiceServer registers srv on s.
func RegisterLobbyServiceServer(s grpc.ServiceRegistrar, srv LobbyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
