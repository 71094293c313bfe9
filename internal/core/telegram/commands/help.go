package commands

import (
	"context"
)

// HelpCommand handles the /help command
type HelpCommand struct {
	BaseCommand
}

// NewHelpCommand creates a new help command
func NewHelpCommand(base BaseCommand) *HelpCommand {
	return &HelpCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *HelpCommand) GetName() string {
	return "help"
}

// Handle executes the help command
func (c *HelpCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	c.SendMessage(chatID, "📖 Available commands:\n\n"+
		"/start - Introduction and quick usage\n"+
		"/expenses - Total expenses this month\n"+
		"/merchants - Expenses grouped by merchant this month\n"+
		"/categories - Expenses grouped by item category this month\n"+
		"/daily - Day-by-day spending this month\n\n"+
		"Send a photo or PDF of a receipt and I will extract and save it.")
	return nil
}
