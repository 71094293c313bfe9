package commands

import (
	"context"
)

// StartCommand handles the /start command
type StartCommand struct {
	BaseCommand
}

// NewStartCommand creates a new start command
func NewStartCommand(base BaseCommand) *StartCommand {
	return &StartCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *StartCommand) GetName() string {
	return "start"
}

// Handle executes the start command
func (c *StartCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	c.SendMessage(chatID, "👋 Send me a photo or PDF of a receipt to analyze.\n\n"+
		"Commands:\n"+
		"/expenses - Show total expenses this month\n"+
		"/merchants - Show expenses by merchant\n"+
		"/categories - Show expenses by category\n"+
		"/daily - Show day-by-day spending this month")
	return nil
}
