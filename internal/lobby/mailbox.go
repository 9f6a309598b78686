package lobby

import (
	"fmt"

	"github.com/samber/lo"
)

// Direction tells whether a private message was sent or received by the inbox
// owner.
type Direction int

const (
	// DirectionTo marks a message the inbox owner sent.
	DirectionTo Direction = iota
	// DirectionFrom marks a message the inbox owner received.
	DirectionFrom
)

// PrivateMessage is one entry of a user's inbox.
type PrivateMessage struct {
	Direction   Direction
	Counterpart string
	Text        string
}

// String renders the entry as "Private to {x}: {text}" or
// "Private from {x}: {text}". Clients parse these prefixes.
func (m PrivateMessage) String() string {
	if m.Direction == DirectionTo {
		return fmt.Sprintf("Private to %s: %s", m.Counterpart, m.Text)
	}
	return fmt.Sprintf("Private from %s: %s", m.Counterpart, m.Text)
}

// mailbox holds one ordered inbox per username.
type mailbox struct {
	inboxes map[string][]PrivateMessage
}

func newMailbox() *mailbox {
	return &mailbox{inboxes: make(map[string][]PrivateMessage)}
}

// deliver appends the receiver's "from" entry and the sender's "to" entry.
// A user writing to themselves gets both entries.
func (m *mailbox) deliver(sender, receiver, text string) {
	m.inboxes[receiver] = append(m.inboxes[receiver], PrivateMessage{
		Direction:   DirectionFrom,
		Counterpart: sender,
		Text:        text,
	})
	m.inboxes[sender] = append(m.inboxes[sender], PrivateMessage{
		Direction:   DirectionTo,
		Counterpart: receiver,
		Text:        text,
	})
}

func (m *mailbox) inbox(username string) []PrivateMessage {
	return append([]PrivateMessage{}, m.inboxes[username]...)
}

// conversation returns the entries of username's inbox exchanged with counterpart.
func (m *mailbox) conversation(username, counterpart string) []PrivateMessage {
	return lo.Filter(m.inboxes[username], func(pm PrivateMessage, _ int) bool {
		return pm.Counterpart == counterpart
	})
}
