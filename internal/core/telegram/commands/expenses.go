package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
)

// ExpensesCommand handles the /expenses command
type ExpensesCommand struct {
	BaseCommand
}

// NewExpensesCommand creates a new expenses command
func NewExpensesCommand(base BaseCommand) *ExpensesCommand {
	return &ExpensesCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *ExpensesCommand) GetName() string {
	return "expenses"
}

// Handle executes the expenses command
func (c *ExpensesCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	from := startOfMonth(time.Now().UTC())

	total, err := c.receiptsService.TotalExpenses(ctx, &from, nil)
	if err != nil {
		c.logger.Error("Failed to compute total expenses", "error", err, "chat_id", chatID)
		c.SendMessage(chatID, "❌ Could not compute expenses. Please try again later.")
		return err
	}

	c.SendMessage(chatID, fmt.Sprintf("💰 Total expenses this month: %s", receipts.FormatAmount(total)))
	return nil
}
