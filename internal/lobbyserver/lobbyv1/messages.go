package lobbyv1

import "time"

// Empty is the request of GetAvailableRooms and the response of calls that
// return nothing.
type Empty struct{}

// UsernameRequest names a single user.
type UsernameRequest struct {
	Username string `json:"username"`
}

// OKResponse carries the boolean outcome of a mutation. False is the only
// failure signal for duplicate names, unknown rooms and missing membership.
type OKResponse struct {
	OK bool `json:"ok"`
}

// Player identifies a logged-in user.
type Player struct {
	Username string `json:"username"`
}

// RoomSummary is a snapshot of one room.
type RoomSummary struct {
	RoomName string   `json:"room_name"`
	Members  []Player `json:"members"`
	Messages []string `json:"messages"`
}

// RoomsResponse lists rooms in creation order.
type RoomsResponse struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RoomMemberRequest names a room and a user acting on it.
type RoomMemberRequest struct {
	RoomName string `json:"room_name"`
	Username string `json:"username"`
}

// RoomRequest names a room.
type RoomRequest struct {
	RoomName string `json:"room_name"`
}

// PlayersResponse lists the members of a room in join order.
type PlayersResponse struct {
	Players []Player `json:"players"`
}

// BroadcastRequest posts text to a room.
type BroadcastRequest struct {
	RoomName string `json:"room_name"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// MessagesResponse carries formatted message lines, oldest first.
type MessagesResponse struct {
	Messages []string `json:"messages"`
}

// PrivateMessageRequest sends text from Sender to Receiver.
type PrivateMessageRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
}

// ConversationRequest selects the part of Username's inbox exchanged with
// Counterpart.
type ConversationRequest struct {
	Username    string `json:"username"`
	Counterpart string `json:"counterpart"`
}

// UploadFileRequest shares Data as FileName in a room.
type UploadFileRequest struct {
	RoomName string `json:"room_name"`
	Username string `json:"username"`
	Data     []byte `json:"data"`
	FileName string `json:"file_name"`
}

// FileNamesResponse lists file names in upload order. Names may repeat.
type FileNamesResponse struct {
	FileNames []string `json:"file_names"`
}

// DownloadFileRequest names a file in a room.
type DownloadFileRequest struct {
	RoomName string `json:"room_name"`
	FileName string `json:"file_name"`
}

// DownloadFileResponse carries a file's contents. Found distinguishes a
// missing file from an empty one.
type DownloadFileResponse struct {
	Found bool   `json:"found"`
	Data  []byte `json:"data"`
}

// Chat entry kinds.
const (
	EntryKindMessage = "message"
	EntryKindFile    = "file"
)

// ChatEntry is one line of a room's feed. Author and Text are set for
// messages, FileName for shared files.
type ChatEntry struct {
	Kind     string `json:"kind"`
	Author   string `json:"author,omitempty"`
	Text     string `json:"text,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// ChatFeedResponse lists a room's messages followed by its shared files.
type ChatFeedResponse struct {
	Entries []ChatEntry `json:"entries"`
}

// FileInfo describes a shared file without its contents.
type FileInfo struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Uploader    string    `json:"uploader"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FileInfosResponse lists file metadata in upload order.
type FileInfosResponse struct {
	Files []FileInfo `json:"files"`
}
