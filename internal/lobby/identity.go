package lobby

// Player is a logged-in user. Usernames are case-sensitive and never change
// once registered.
type Player struct {
	Username string
}

// identityRegistry tracks logged-in usernames.
// It is not safe for concurrent use; Service serializes access.
type identityRegistry struct {
	players map[string]*Player
}

func newIdentityRegistry() *identityRegistry {
	return &identityRegistry{players: make(map[string]*Player)}
}

// register adds username to the registry.
//
// Postcondition: Returns false without modification if username is already registered.
func (r *identityRegistry) register(username string) bool {
	if _, exists := r.players[username]; exists {
		return false
	}
	r.players[username] = &Player{Username: username}
	return true
}

// unregister removes username from the registry.
//
// Postcondition: Returns false if username was not registered.
func (r *identityRegistry) unregister(username string) bool {
	if _, exists := r.players[username]; !exists {
		return false
	}
	delete(r.players, username)
	return true
}

func (r *identityRegistry) registered(username string) bool {
	_, ok := r.players[username]
	return ok
}

func (r *identityRegistry) count() int {
	return len(r.players)
}
