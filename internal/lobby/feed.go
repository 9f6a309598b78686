package lobby

import "fmt"

// EntryKind discriminates the variants of ChatEntry.
type EntryKind int

const (
	// EntryMessage is a chat message posted to the room.
	EntryMessage EntryKind = iota
	// EntryFileShared announces a file uploaded to the room.
	EntryFileShared
)

// ChatEntry is one line of a room's unified feed: either a Message or a shared
// file announcement.
type ChatEntry struct {
	Kind     EntryKind
	Message  Message
	FileName string
}

// String renders the entry the way it is shown in a room's chat pane.
func (e ChatEntry) String() string {
	if e.Kind == EntryFileShared {
		return fmt.Sprintf("File shared: %s", e.FileName)
	}
	return e.Message.String()
}

// feed lists the room's messages followed by its files. Both streams keep
// their own order and the concatenation order never changes between calls.
func feed(room *Room, files []string) []ChatEntry {
	entries := make([]ChatEntry, 0, len(room.messages)+len(files))
	for _, m := range room.messages {
		entries = append(entries, ChatEntry{Kind: EntryMessage, Message: m})
	}
	for _, name := range files {
		entries = append(entries, ChatEntry{Kind: EntryFileShared, FileName: name})
	}
	return entries
}
