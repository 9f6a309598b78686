// Package lobbyctl implements the one-shot commands of the lobbyctl CLI.
package lobbyctl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Categories for organizing commands.
const (
	CategoryAccount = "account"
	CategoryRooms   = "rooms"
	CategoryChat    = "chat"
	CategoryPrivate = "private"
	CategoryFiles   = "files"
	CategorySystem  = "system"
)

var (
	// ErrUnknownCommand is returned for a name that resolves to no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command gets too few arguments.
	ErrUsage = errors.New("usage")
	// ErrRejected is returned when the lobby answers a mutation with false.
	ErrRejected = errors.New("rejected by lobby")
	// ErrNotFound is returned when a download names no file.
	ErrNotFound = errors.New("file not found")
)

// RunFunc executes a command with its positional arguments.
type RunFunc func(ctx context.Context, env *Env, args []string) error

// Command defines a lobbyctl subcommand.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Args is the argument synopsis shown in help, e.g. "<room> <user>".
	Args string
	// MinArgs is the number of required positional arguments.
	MinArgs int
	// Help is the one-line description shown in help.
	Help string
	// Category groups the command in help output.
	Category string
	// Run executes the command.
	Run RunFunc
}

// Usage returns "name args".
func (c *Command) Usage() string {
	return strings.TrimSpace(c.Name + " " + c.Args)
}

// Registry resolves the words typed on the command line to commands.
type Registry struct {
	words    map[string]*Command // name or alias → command
	commands []*Command
}

// NewRegistry indexes cmds by name and alias. Every word may invoke only one
// command.
//
// Postcondition: Returns a Registry, or an error naming the first command
// without a Run function or the first word claimed twice.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{words: make(map[string]*Command, 2*len(cmds))}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Run == nil {
			return nil, fmt.Errorf("lobbyctl: command %q cannot run: Run is nil", cmd.Name)
		}
		for _, word := range append([]string{cmd.Name}, cmd.Aliases...) {
			if owner, taken := r.words[word]; taken {
				return nil, fmt.Errorf("lobbyctl: %q already invokes %q and cannot also invoke %q", word, owner.Name, cmd.Name)
			}
			r.words[word] = cmd
		}
		r.commands = append(r.commands, cmd)
	}
	return r, nil
}

// DefaultRegistry creates a Registry with every built-in command.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(name string) (*Command, bool) {
	cmd, ok := r.words[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns all registered commands sorted by category, then name.
func (r *Registry) Commands() []*Command {
	result := append([]*Command(nil), r.commands...)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Execute resolves args[0] and runs it with the remaining arguments.
//
// Postcondition: Returns ErrUnknownCommand or ErrUsage (wrapped) without
// contacting the lobby when the command line is malformed.
func (r *Registry) Execute(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: lobbyctl <command> [args...]", ErrUsage)
	}
	cmd, ok := r.Resolve(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	rest := args[1:]
	if len(rest) < cmd.MinArgs {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage())
	}
	return cmd.Run(ctx, env, rest)
}
