package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
)

// CategoriesCommand handles the /categories command
type CategoriesCommand struct {
	BaseCommand
}

// NewCategoriesCommand creates a new categories command
func NewCategoriesCommand(base BaseCommand) *CategoriesCommand {
	return &CategoriesCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *CategoriesCommand) GetName() string {
	return "categories"
}

// Handle executes the categories command
func (c *CategoriesCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	from := startOfMonth(time.Now().UTC())

	byCategory, err := c.receiptsService.ExpensesByCategory(ctx, &from, nil)
	if err != nil {
		c.logger.Error("Failed to compute category breakdown", "error", err, "chat_id", chatID)
		c.SendMessage(chatID, "❌ Could not compute expenses. Please try again later.")
		return err
	}

	if len(byCategory) == 0 {
		c.SendMessage(chatID, "📊 No categorized expenses found for this month.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("📊 Expenses by category this month:\n\n")
	for i, row := range receipts.RankedTotals(byCategory) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", row.Name, receipts.FormatAmount(row.Total)))
	}

	c.SendMessage(chatID, sb.String())
	return nil
}
