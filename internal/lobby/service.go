// Package lobby provides the in-memory state of the lobby: logged-in players,
// rooms with their chat logs, per-room shared files, and private mailboxes.
//
// Every exported Service method is atomic with respect to every other one.
// Failures such as duplicate names, unknown rooms or missing membership are
// reported as false or as an empty result, never as an error.
package lobby

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Stats is a point-in-time count of lobby state.
type Stats struct {
	Players int
	Rooms   int
	Files   int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp uploads.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service owns all lobby state. A single RWMutex guards the identity registry,
// the room registry, the file store and the mailbox together, so an operation
// never observes another one half-applied.
type Service struct {
	mu         sync.RWMutex
	identities *identityRegistry
	rooms      *roomRegistry
	files      *fileStore
	mail       *mailbox

	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an empty lobby.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Service with no players, rooms, files or messages.
func NewService(logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		identities: newIdentityRegistry(),
		rooms:      newRoomRegistry(),
		files:      newFileStore(),
		mail:       newMailbox(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login registers username.
//
// Postcondition: Returns false if username is already logged in.
func (s *Service) Login(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identities.register(username) {
		s.logger.Debug("login rejected, name in use", zap.String("username", username))
		return false
	}
	s.logger.Info("player logged in",
		zap.String("username", username),
		zap.Int("players", s.identities.count()),
	)
	return true
}

// Logout unregisters username and removes it from every room. Rooms left
// without members are destroyed together with their files. The user's inbox
// is kept.
//
// Postcondition: Returns false if username was not logged in.
func (s *Service) Logout(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identities.unregister(username) {
		return false
	}
	for _, name := range s.rooms.evict(username) {
		s.discardRoomFiles(name)
	}
	s.logger.Info("player logged out",
		zap.String("username", username),
		zap.Int("players", s.identities.count()),
		zap.Int("rooms", s.rooms.count()),
	)
	return true
}

// CreateRoom creates roomName with creator as its only member.
//
// Postcondition: Returns false if the room already exists or creator is not
// logged in.
func (s *Service) CreateRoom(roomName, creator string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identities.registered(creator) {
		return false
	}
	if !s.rooms.create(roomName, creator) {
		return false
	}
	s.logger.Info("room created",
		zap.String("room", roomName),
		zap.String("creator", creator),
	)
	return true
}

// JoinRoom adds username to roomName.
//
// Postcondition: Returns false if the room or player does not exist, or the
// player is already a member.
func (s *Service) JoinRoom(roomName, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identities.registered(username) {
		return false
	}
	room, ok := s.rooms.get(roomName)
	if !ok {
		return false
	}
	return room.addMember(username)
}

// LeaveRoom removes username from roomName. When the last member leaves the
// room, its message log and files are destroyed.
//
// Postcondition: Returns false if the room does not exist or username is not a
// member.
func (s *Service) LeaveRoom(roomName, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.get(roomName)
	if !ok || !room.removeMember(username) {
		return false
	}
	if room.empty() {
		s.rooms.destroy(roomName)
		s.discardRoomFiles(roomName)
	}
	return true
}

// discardRoomFiles purges the files of a destroyed room.
//
// Precondition: s.mu must be held for writing.
func (s *Service) discardRoomFiles(roomName string) {
	purged := s.files.purge(roomName)
	s.logger.Info("room destroyed",
		zap.String("room", roomName),
		zap.Int("files_purged", purged),
	)
}

// GetAvailableRooms returns a copy of every room in creation order.
func (s *Service) GetAvailableRooms() []RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.rooms.all(), func(room *Room, _ int) RoomSummary {
		return room.summary()
	})
}

// GetPlayersInRoom returns the members of roomName in join order, or an empty
// slice if the room does not exist.
func (s *Service) GetPlayersInRoom(roomName string) []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms.get(roomName)
	if !ok {
		return []Player{}
	}
	return room.players()
}

// BroadcastMessage appends a message from username to roomName's log. It does
// nothing if the room does not exist.
func (s *Service) BroadcastMessage(roomName, username, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.get(roomName)
	if !ok {
		s.logger.Debug("broadcast to missing room dropped",
			zap.String("room", roomName),
			zap.String("username", username),
		)
		return
	}
	room.post(username, text)
	s.logger.Debug("message broadcast",
		zap.String("room", roomName),
		zap.String("username", username),
		zap.Int("length", len(text)),
	)
}

// GetMessages returns roomName's log formatted as "{username}: {text}", oldest
// first, or an empty slice if the room does not exist.
func (s *Service) GetMessages(roomName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms.get(roomName)
	if !ok {
		return []string{}
	}
	return room.formattedMessages()
}

// GetChatFeed returns roomName's messages followed by its shared files, or an
// empty slice if the room does not exist.
func (s *Service) GetChatFeed(roomName string) []ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms.get(roomName)
	if !ok {
		return []ChatEntry{}
	}
	return feed(room, s.files.names(roomName))
}

// SendPrivateMessage delivers text from sender to receiver. Delivery requires
// both users to be logged in and to share at least one room at the time of the
// call; otherwise nothing happens. On delivery the receiver's inbox gets a
// "from" entry and the sender's inbox a "to" entry.
func (s *Service) SendPrivateMessage(sender, receiver, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identities.registered(sender) || !s.identities.registered(receiver) {
		return
	}
	if !s.rooms.shareRoom(sender, receiver) {
		s.logger.Debug("private message dropped, no shared room",
			zap.String("sender", sender),
			zap.String("receiver", receiver),
		)
		return
	}
	s.mail.deliver(sender, receiver, text)
}

// GetPrivateMessages returns username's inbox in arrival order, formatted as
// "Private from {x}: {text}" or "Private to {x}: {text}".
func (s *Service) GetPrivateMessages(username string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.mail.inbox(username), func(pm PrivateMessage, _ int) string {
		return pm.String()
	})
}

// GetInbox returns username's inbox entries in arrival order.
func (s *Service) GetInbox(username string) []PrivateMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mail.inbox(username)
}

// GetConversation returns the entries of username's inbox exchanged with
// counterpart, formatted like GetPrivateMessages.
func (s *Service) GetConversation(username, counterpart string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.mail.conversation(username, counterpart), func(pm PrivateMessage, _ int) string {
		return pm.String()
	})
}

// UploadFile stores data as fileName in roomName. It does nothing unless the
// room exists and username is currently a member of it.
func (s *Service) UploadFile(roomName, username string, data []byte, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.get(roomName)
	if !ok || !room.hasMember(username) {
		s.logger.Debug("upload rejected",
			zap.String("room", roomName),
			zap.String("username", username),
			zap.String("file", fileName),
		)
		return
	}
	rec := newFileRecord(roomName, username, fileName, data, s.now())
	s.files.add(rec)
	s.logger.Info("file uploaded",
		zap.String("room", roomName),
		zap.String("username", username),
		zap.String("file", fileName),
		zap.String("file_id", rec.ID),
		zap.String("content_type", rec.ContentType),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)
}

// GetFileNames returns the names of roomName's files in upload order.
func (s *Service) GetFileNames(roomName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.files.names(roomName)
}

// GetFileInfos returns metadata of roomName's files in upload order.
func (s *Service) GetFileInfos(roomName string) []FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.files.infos(roomName)
}

// DownloadFile returns the contents of the earliest upload named fileName in
// roomName. Later uploads with the same name are never returned.
//
// Postcondition: found is false if the room or file does not exist. An empty
// file is returned as a non-nil empty slice with found set to true.
func (s *Service) DownloadFile(roomName, fileName string) (data []byte, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.files.first(roomName, fileName)
	if !ok {
		return nil, false
	}
	return rec.Data, true
}

// Stats returns the current number of players, rooms and files.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Players: s.identities.count(),
		Rooms:   s.rooms.count(),
		Files:   s.files.count(),
	}
}
