// Package lobbyserver exposes the lobby over gRPC.
package lobbyserver

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/lobby/internal/lobby"
	"github.com/cory-johannsen/lobby/internal/lobbyserver/lobbyv1"
)

// LobbyServiceServer implements lobbyv1.LobbyServiceServer on top of a
// lobby.Service. Domain failures are reported in the response body; RPC
// errors are returned only for cancelled or expired calls and for requests
// that are not valid UTF-8.
type LobbyServiceServer struct {
	lobby  *lobby.Service
	logger *zap.Logger
}

var _ lobbyv1.LobbyServiceServer = (*LobbyServiceServer)(nil)

// NewLobbyServiceServer creates a LobbyServiceServer.
//
// Precondition: svc and logger must be non-nil.
// Postcondition: Returns a server ready to be registered on a grpc.Server.
func NewLobbyServiceServer(svc *lobby.Service, logger *zap.Logger) *LobbyServiceServer {
	return &LobbyServiceServer{
		lobby:  svc,
		logger: logger,
	}
}

// admit rejects calls whose context is already done. Once admitted, a call
// runs to completion inside the lobby.
func admit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}

func (s *LobbyServiceServer) Login(ctx context.Context, req *lobbyv1.UsernameRequest) (*lobbyv1.OKResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.OKResponse{OK: s.lobby.Login(req.Username)}, nil
}

func (s *LobbyServiceServer) Logout(ctx context.Context, req *lobbyv1.UsernameRequest) (*lobbyv1.OKResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.OKResponse{OK: s.lobby.Logout(req.Username)}, nil
}

func (s *LobbyServiceServer) GetAvailableRooms(ctx context.Context, _ *lobbyv1.Empty) (*lobbyv1.RoomsResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	rooms := lo.Map(s.lobby.GetAvailableRooms(), func(r lobby.RoomSummary, _ int) lobbyv1.RoomSummary {
		return lobbyv1.RoomSummary{
			RoomName: r.Name,
			Members:  toPlayers(r.Members),
			Messages: r.Messages,
		}
	})
	return &lobbyv1.RoomsResponse{Rooms: rooms}, nil
}

func (s *LobbyServiceServer) CreateRoom(ctx context.Context, req *lobbyv1.RoomMemberRequest) (*lobbyv1.OKResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.OKResponse{OK: s.lobby.CreateRoom(req.RoomName, req.Username)}, nil
}

func (s *LobbyServiceServer) JoinRoom(ctx context.Context, req *lobbyv1.RoomMemberRequest) (*lobbyv1.OKResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.OKResponse{OK: s.lobby.JoinRoom(req.RoomName, req.Username)}, nil
}

func (s *LobbyServiceServer) LeaveRoom(ctx context.Context, req *lobbyv1.RoomMemberRequest) (*lobbyv1.OKResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.OKResponse{OK: s.lobby.LeaveRoom(req.RoomName, req.Username)}, nil
}

func (s *LobbyServiceServer) GetPlayersInRoom(ctx context.Context, req *lobbyv1.RoomRequest) (*lobbyv1.PlayersResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.PlayersResponse{Players: toPlayers(s.lobby.GetPlayersInRoom(req.RoomName))}, nil
}

func (s *LobbyServiceServer) BroadcastMessage(ctx context.Context, req *lobbyv1.BroadcastRequest) (*lobbyv1.Empty, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	s.lobby.BroadcastMessage(req.RoomName, req.Username, req.Text)
	return &lobbyv1.Empty{}, nil
}

func (s *LobbyServiceServer) GetMessages(ctx context.Context, req *lobbyv1.RoomRequest) (*lobbyv1.MessagesResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.MessagesResponse{Messages: s.lobby.GetMessages(req.RoomName)}, nil
}

func (s *LobbyServiceServer) GetChatFeed(ctx context.Context, req *lobbyv1.RoomRequest) (*lobbyv1.ChatFeedResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	entries := lo.Map(s.lobby.GetChatFeed(req.RoomName), func(e lobby.ChatEntry, _ int) lobbyv1.ChatEntry {
		if e.Kind == lobby.EntryFileShared {
			return lobbyv1.ChatEntry{Kind: lobbyv1.EntryKindFile, FileName: e.FileName}
		}
		return lobbyv1.ChatEntry{Kind: lobbyv1.EntryKindMessage, Author: e.Message.Author, Text: e.Message.Text}
	})
	return &lobbyv1.ChatFeedResponse{Entries: entries}, nil
}

func (s *LobbyServiceServer) SendPrivateMessage(ctx context.Context, req *lobbyv1.PrivateMessageRequest) (*lobbyv1.Empty, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	s.lobby.SendPrivateMessage(req.Sender, req.Receiver, req.Text)
	return &lobbyv1.Empty{}, nil
}

func (s *LobbyServiceServer) GetPrivateMessages(ctx context.Context, req *lobbyv1.UsernameRequest) (*lobbyv1.MessagesResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.MessagesResponse{Messages: s.lobby.GetPrivateMessages(req.Username)}, nil
}

func (s *LobbyServiceServer) GetConversation(ctx context.Context, req *lobbyv1.ConversationRequest) (*lobbyv1.MessagesResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.MessagesResponse{Messages: s.lobby.GetConversation(req.Username, req.Counterpart)}, nil
}

func (s *LobbyServiceServer) UploadFile(ctx context.Context, req *lobbyv1.UploadFileRequest) (*lobbyv1.Empty, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	s.lobby.UploadFile(req.RoomName, req.Username, req.Data, req.FileName)
	return &lobbyv1.Empty{}, nil
}

func (s *LobbyServiceServer) GetFileNames(ctx context.Context, req *lobbyv1.RoomRequest) (*lobbyv1.FileNamesResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	return &lobbyv1.FileNamesResponse{FileNames: s.lobby.GetFileNames(req.RoomName)}, nil
}

func (s *LobbyServiceServer) GetFileInfos(ctx context.Context, req *lobbyv1.RoomRequest) (*lobbyv1.FileInfosResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	files := lo.Map(s.lobby.GetFileInfos(req.RoomName), func(f lobby.FileInfo, _ int) lobbyv1.FileInfo {
		return lobbyv1.FileInfo{
			ID:          f.ID,
			FileName:    f.FileName,
			Uploader:    f.Uploader,
			ContentType: f.ContentType,
			Size:        f.Size,
			Checksum:    f.Checksum,
			UploadedAt:  f.UploadedAt,
		}
	})
	return &lobbyv1.FileInfosResponse{Files: files}, nil
}

func (s *LobbyServiceServer) DownloadFile(ctx context.Context, req *lobbyv1.DownloadFileRequest) (*lobbyv1.DownloadFileResponse, error) {
	if err := admit(ctx); err != nil {
		return nil, err
	}
	data, found := s.lobby.DownloadFile(req.RoomName, req.FileName)
	if !found {
		s.logger.Debug("download miss",
			zap.String("room", req.RoomName),
			zap.String("file", req.FileName),
		)
	}
	return &lobbyv1.DownloadFileResponse{Found: found, Data: data}, nil
}

func toPlayers(players []lobby.Player) []lobbyv1.Player {
	return lo.Map(players, func(p lobby.Player, _ int) lobbyv1.Player {
		return lobbyv1.Player{Username: p.Username}
	})
}
