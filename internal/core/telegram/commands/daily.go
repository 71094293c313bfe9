package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
)

// DailyCommand handles the /daily command
type DailyCommand struct {
	BaseCommand
}

// NewDailyCommand creates a new daily command
func NewDailyCommand(base BaseCommand) *DailyCommand {
	return &DailyCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *DailyCommand) GetName() string {
	return "daily"
}

// Handle executes the daily command
func (c *DailyCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	now := time.Now().UTC()

	totals, err := c.receiptsService.DailyExpenses(ctx, startOfMonth(now), today(now))
	if err != nil {
		c.logger.Error("Failed to compute daily breakdown", "error", err, "chat_id", chatID)
		c.SendMessage(chatID, "❌ Could not compute expenses. Please try again later.")
		return err
	}

	if len(totals) == 0 {
		c.SendMessage(chatID, "📊 No expenses found for this month.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("📅 Daily spending this month:\n\n")
	for i, day := range totals {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", day.Date.Format("2006-01-02"), receipts.FormatAmount(day.Total)))
	}

	c.SendMessage(chatID, sb.String())
	return nil
}
