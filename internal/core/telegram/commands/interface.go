package commands

import (
	"context"
)

// Command represents a bot command handler
type Command interface {
	// GetName returns the command name (without /)
	GetName() string

	// Handle executes the command
	Handle(ctx context.Context, chatID int64, args []string) error
}

// CommandRegistry manages bot commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.GetName()] = cmd
}

// Get retrieves a command by name
func (r *CommandRegistry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// List returns all registered commands
func (r *CommandRegistry) List() map[string]Command {
	return r.commands
}

// ExecuteCommand executes a command by name
func (r *CommandRegistry) ExecuteCommand(ctx context.Context, commandName string, chatID int64, args []string) error {
	command, exists := r.Get(commandName)
	if !exists {
		return nil // Command not found - silently ignore
	}

	return command.Handle(ctx, chatID, args)
}
