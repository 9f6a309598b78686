package lobbyctl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/lobby/internal/lobbyserver/lobbyv1"
)

// Env is what a command runs against.
type Env struct {
	Client lobbyv1.LobbyServiceClient
	Out    *Printer
	// ReadFile and WriteFile default to os.ReadFile and os.WriteFile.
	ReadFile  func(path string) ([]byte, error)
	WriteFile func(path string, data []byte, perm os.FileMode) error
	// Now anchors relative upload times; defaults to time.Now.
	Now func() time.Time
}

// NewEnv returns an Env printing to w in format.
func NewEnv(client lobbyv1.LobbyServiceClient, w io.Writer, format string) *Env {
	return &Env{
		Client:    client,
		Out:       NewPrinter(w, format),
		ReadFile:  os.ReadFile,
		WriteFile: os.WriteFile,
		Now:       time.Now,
	}
}

// BuiltinCommands returns every lobbyctl command.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "login", Args: "<user>", MinArgs: 1, Help: "Register a username", Category: CategoryAccount, Run: runLogin},
		{Name: "logout", Args: "<user>", MinArgs: 1, Help: "Unregister a username and leave all rooms", Category: CategoryAccount, Run: runLogout},

		{Name: "rooms", Aliases: []string{"ls"}, Help: "List rooms with members and message counts", Category: CategoryRooms, Run: runRooms},
		{Name: "create", Args: "<room> <user>", MinArgs: 2, Help: "Create a room with user as its first member", Category: CategoryRooms, Run: roomMutation("creating room", lobbyv1.LobbyServiceClient.CreateRoom)},
		{Name: "join", Args: "<room> <user>", MinArgs: 2, Help: "Join a room", Category: CategoryRooms, Run: roomMutation("joining room", lobbyv1.LobbyServiceClient.JoinRoom)},
		{Name: "leave", Args: "<room> <user>", MinArgs: 2, Help: "Leave a room", Category: CategoryRooms, Run: roomMutation("leaving room", lobbyv1.LobbyServiceClient.LeaveRoom)},
		{Name: "players", Aliases: []string{"who"}, Args: "<room>", MinArgs: 1, Help: "List the members of a room", Category: CategoryRooms, Run: runPlayers},

		{Name: "say", Args: "<room> <user> <text...>", MinArgs: 3, Help: "Broadcast a message to a room", Category: CategoryChat, Run: runSay},
		{Name: "messages", Aliases: []string{"log"}, Args: "<room>", MinArgs: 1, Help: "Show a room's messages", Category: CategoryChat, Run: runMessages},
		{Name: "feed", Args: "<room>", MinArgs: 1, Help: "Show a room's messages followed by its shared files", Category: CategoryChat, Run: runFeed},

		{Name: "pm", Aliases: []string{"tell"}, Args: "<sender> <receiver> <text...>", MinArgs: 3, Help: "Send a private message", Category: CategoryPrivate, Run: runPM},
		{Name: "inbox", Args: "<user>", MinArgs: 1, Help: "Show a user's private messages", Category: CategoryPrivate, Run: runInbox},
		{Name: "conversation", Aliases: []string{"conv"}, Args: "<user> <counterpart>", MinArgs: 2, Help: "Show private messages exchanged with one user", Category: CategoryPrivate, Run: runConversation},

		{Name: "upload", Aliases: []string{"put"}, Args: "<room> <user> <path> [name]", MinArgs: 3, Help: "Share a local file in a room", Category: CategoryFiles, Run: runUpload},
		{Name: "files", Args: "<room>", MinArgs: 1, Help: "List a room's shared files", Category: CategoryFiles, Run: runFiles},
		{Name: "download", Aliases: []string{"get"}, Args: "<room> <name> [dest]", MinArgs: 2, Help: "Save a shared file locally", Category: CategoryFiles, Run: runDownload},

		{Name: "help", Aliases: []string{"?"}, Help: "List commands", Category: CategorySystem, Run: runHelp},
	}
}

func printResult(env *Env, ok bool) error {
	if err := env.Out.Result(ok); err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

func runLogin(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.Login(ctx, &lobbyv1.UsernameRequest{Username: args[0]})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return printResult(env, resp.OK)
}

func runLogout(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.Logout(ctx, &lobbyv1.UsernameRequest{Username: args[0]})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return printResult(env, resp.OK)
}

type roomCall func(lobbyv1.LobbyServiceClient, context.Context, *lobbyv1.RoomMemberRequest, ...grpc.CallOption) (*lobbyv1.OKResponse, error)

func roomMutation(action string, call roomCall) RunFunc {
	return func(ctx context.Context, env *Env, args []string) error {
		resp, err := call(env.Client, ctx, &lobbyv1.RoomMemberRequest{RoomName: args[0], Username: args[1]})
		if err != nil {
			return fmt.Errorf("%s %q: %w", action, args[0], err)
		}
		return printResult(env, resp.OK)
	}
}

type roomView struct {
	Name     string   `yaml:"name"`
	Members  []string `yaml:"members"`
	Messages []string `yaml:"messages"`
}

func runRooms(ctx context.Context, env *Env, _ []string) error {
	resp, err := env.Client.GetAvailableRooms(ctx, &lobbyv1.Empty{})
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}
	views := lo.Map(resp.Rooms, func(r lobbyv1.RoomSummary, _ int) roomView {
		return roomView{
			Name:     r.RoomName,
			Members:  usernames(r.Members),
			Messages: lo.Ternary(r.Messages == nil, []string{}, r.Messages),
		}
	})
	rows := lo.Map(views, func(v roomView, _ int) []string {
		return []string{v.Name, strings.Join(v.Members, ", "), strconv.Itoa(len(v.Messages))}
	})
	return env.Out.Table([]string{"Room", "Members", "Messages"}, rows, views)
}

func runPlayers(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetPlayersInRoom(ctx, &lobbyv1.RoomRequest{RoomName: args[0]})
	if err != nil {
		return fmt.Errorf("listing players: %w", err)
	}
	return env.Out.Lines(usernames(resp.Players))
}

func runSay(ctx context.Context, env *Env, args []string) error {
	req := &lobbyv1.BroadcastRequest{
		RoomName: args[0],
		Username: args[1],
		Text:     strings.Join(args[2:], " "),
	}
	if _, err := env.Client.BroadcastMessage(ctx, req); err != nil {
		return fmt.Errorf("broadcasting: %w", err)
	}
	return nil
}

func runMessages(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetMessages(ctx, &lobbyv1.RoomRequest{RoomName: args[0]})
	if err != nil {
		return fmt.Errorf("reading messages: %w", err)
	}
	return env.Out.Lines(resp.Messages)
}

type feedView struct {
	Kind     string `yaml:"kind"`
	Author   string `yaml:"author,omitempty"`
	Text     string `yaml:"text,omitempty"`
	FileName string `yaml:"file_name,omitempty"`
}

func runFeed(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetChatFeed(ctx, &lobbyv1.RoomRequest{RoomName: args[0]})
	if err != nil {
		return fmt.Errorf("reading feed: %w", err)
	}
	views := lo.Map(resp.Entries, func(e lobbyv1.ChatEntry, _ int) feedView {
		return feedView(e)
	})
	lines := lo.Map(resp.Entries, func(e lobbyv1.ChatEntry, _ int) string {
		if e.Kind == lobbyv1.EntryKindFile {
			return "File shared: " + e.FileName
		}
		return e.Author + ": " + e.Text
	})
	return env.Out.List(lines, views)
}

func runPM(ctx context.Context, env *Env, args []string) error {
	req := &lobbyv1.PrivateMessageRequest{
		Sender:   args[0],
		Receiver: args[1],
		Text:     strings.Join(args[2:], " "),
	}
	if _, err := env.Client.SendPrivateMessage(ctx, req); err != nil {
		return fmt.Errorf("sending private message: %w", err)
	}
	return nil
}

func runInbox(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetPrivateMessages(ctx, &lobbyv1.UsernameRequest{Username: args[0]})
	if err != nil {
		return fmt.Errorf("reading inbox: %w", err)
	}
	return env.Out.Lines(resp.Messages)
}

func runConversation(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetConversation(ctx, &lobbyv1.ConversationRequest{Username: args[0], Counterpart: args[1]})
	if err != nil {
		return fmt.Errorf("reading conversation: %w", err)
	}
	return env.Out.Lines(resp.Messages)
}

func runUpload(ctx context.Context, env *Env, args []string) error {
	room, user, path := args[0], args[1], args[2]
	name := filepath.Base(path)
	if len(args) > 3 {
		name = args[3]
	}
	data, err := env.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	req := &lobbyv1.UploadFileRequest{RoomName: room, Username: user, Data: data, FileName: name}
	if _, err := env.Client.UploadFile(ctx, req); err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	return env.Out.Text(
		fmt.Sprintf("sent %s (%s)", name, humanize.Bytes(uint64(len(data)))),
		map[string]any{"file_name": name, "size": len(data)},
	)
}

type fileView struct {
	ID          string    `yaml:"id"`
	FileName    string    `yaml:"file_name"`
	Uploader    string    `yaml:"uploader"`
	ContentType string    `yaml:"content_type"`
	Size        int64     `yaml:"size"`
	Checksum    string    `yaml:"checksum"`
	UploadedAt  time.Time `yaml:"uploaded_at"`
}

func runFiles(ctx context.Context, env *Env, args []string) error {
	resp, err := env.Client.GetFileInfos(ctx, &lobbyv1.RoomRequest{RoomName: args[0]})
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}
	views := lo.Map(resp.Files, func(f lobbyv1.FileInfo, _ int) fileView {
		return fileView(f)
	})
	now := env.Now()
	rows := lo.Map(views, func(f fileView, _ int) []string {
		return []string{
			f.FileName,
			f.Uploader,
			f.ContentType,
			humanize.Bytes(uint64(f.Size)),
			humanize.RelTime(f.UploadedAt, now, "ago", "from now"),
		}
	})
	return env.Out.Table([]string{"Name", "Uploader", "Type", "Size", "Uploaded"}, rows, views)
}

func runDownload(ctx context.Context, env *Env, args []string) error {
	room, name := args[0], args[1]
	dest := name
	if len(args) > 2 {
		dest = args[2]
	}
	resp, err := env.Client.DownloadFile(ctx, &lobbyv1.DownloadFileRequest{RoomName: room, FileName: name})
	if err != nil {
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	if !resp.Found {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, name, room)
	}
	if err := env.WriteFile(dest, resp.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return env.Out.Text(
		fmt.Sprintf("saved %s (%s)", dest, humanize.Bytes(uint64(len(resp.Data)))),
		map[string]any{"path": dest, "size": len(resp.Data)},
	)
}

func runHelp(_ context.Context, env *Env, _ []string) error {
	cmds := DefaultRegistry().Commands()
	rows := lo.Map(cmds, func(c *Command, _ int) []string {
		return []string{c.Category, c.Usage(), strings.Join(c.Aliases, ", "), c.Help}
	})
	return env.Out.Table([]string{"Category", "Command", "Aliases", "Description"}, rows, rows)
}

func usernames(players []lobbyv1.Player) []string {
	return lo.Map(players, func(p lobbyv1.Player, _ int) string { return p.Username })
}
