package lobby

import (
	"fmt"

	"github.com/samber/lo"
)

// Message is one entry of a room's chat log.
type Message struct {
	Author string
	Text   string
}

// String renders the message in the "{author}: {text}" wire format.
func (m Message) String() string {
	return fmt.Sprintf("%s: %s", m.Author, m.Text)
}

// Room is a named chat channel with an ordered member list and an append-only
// message log.
type Room struct {
	Name     string
	members  []string
	messages []Message
}

func newRoom(name, creator string) *Room {
	return &Room{Name: name, members: []string{creator}}
}

func (r *Room) hasMember(username string) bool {
	return lo.Contains(r.members, username)
}

func (r *Room) addMember(username string) bool {
	if r.hasMember(username) {
		return false
	}
	r.members = append(r.members, username)
	return true
}

func (r *Room) removeMember(username string) bool {
	idx := lo.IndexOf(r.members, username)
	if idx < 0 {
		return false
	}
	r.members = append(r.members[:idx], r.members[idx+1:]...)
	return true
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}

func (r *Room) post(author, text string) {
	r.messages = append(r.messages, Message{Author: author, Text: text})
}

// RoomSummary is a point-in-time copy of a room's public state.
type RoomSummary struct {
	Name     string
	Members  []Player
	Messages []string
}

func (r *Room) players() []Player {
	return lo.Map(r.members, func(name string, _ int) Player {
		return Player{Username: name}
	})
}

func (r *Room) formattedMessages() []string {
	return lo.Map(r.messages, func(m Message, _ int) string {
		return m.String()
	})
}

func (r *Room) summary() RoomSummary {
	return RoomSummary{
		Name:     r.Name,
		Members:  r.players(),
		Messages: r.formattedMessages(),
	}
}

// roomRegistry indexes rooms by name and remembers creation order so that
// listings are stable between polls.
type roomRegistry struct {
	rooms map[string]*Room
	order []string
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{rooms: make(map[string]*Room)}
}

// create registers a new room with creator as its only member.
//
// Precondition: creator must be a registered player.
// Postcondition: Returns false without modification if the name is taken.
func (r *roomRegistry) create(name, creator string) bool {
	if _, exists := r.rooms[name]; exists {
		return false
	}
	r.rooms[name] = newRoom(name, creator)
	r.order = append(r.order, name)
	return true
}

func (r *roomRegistry) get(name string) (*Room, bool) {
	room, ok := r.rooms[name]
	return room, ok
}

func (r *roomRegistry) destroy(name string) {
	delete(r.rooms, name)
	r.order = lo.Without(r.order, name)
}

// all returns rooms in creation order.
func (r *roomRegistry) all() []*Room {
	return lo.Map(r.order, func(name string, _ int) *Room {
		return r.rooms[name]
	})
}

// evict removes username from every room it belongs to and destroys rooms that
// become empty.
//
// Postcondition: Returns the names of destroyed rooms in creation order.
func (r *roomRegistry) evict(username string) []string {
	var destroyed []string
	for _, room := range r.all() {
		if room.removeMember(username) && room.empty() {
			destroyed = append(destroyed, room.Name)
		}
	}
	for _, name := range destroyed {
		r.destroy(name)
	}
	return destroyed
}

// shareRoom reports whether a and b are both members of at least one room.
func (r *roomRegistry) shareRoom(a, b string) bool {
	return lo.SomeBy(r.all(), func(room *Room) bool {
		return room.hasMember(a) && room.hasMember(b)
	})
}

func (r *roomRegistry) count() int {
	return len(r.rooms)
}
