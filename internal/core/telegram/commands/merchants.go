package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
)

const merchantsLimit = 10

// MerchantsCommand handles the /merchants command
type MerchantsCommand struct {
	BaseCommand
}

// NewMerchantsCommand creates a new merchants command
func NewMerchantsCommand(base BaseCommand) *MerchantsCommand {
	return &MerchantsCommand{
		BaseCommand: base,
	}
}

// GetName returns the command name
func (c *MerchantsCommand) GetName() string {
	return "merchants"
}

// Handle executes the merchants command
func (c *MerchantsCommand) Handle(ctx context.Context, chatID int64, args []string) error {
	from := startOfMonth(time.Now().UTC())

	byMerchant, err := c.receiptsService.ExpensesByMerchant(ctx, &from, nil)
	if err != nil {
		c.logger.Error("Failed to compute merchant breakdown", "error", err, "chat_id", chatID)
		c.SendMessage(chatID, "❌ Could not compute expenses. Please try again later.")
		return err
	}

	if len(byMerchant) == 0 {
		c.SendMessage(chatID, "📊 No expenses found for this month.")
		return nil
	}

	rows := receipts.RankedTotals(byMerchant)
	if len(rows) > merchantsLimit {
		rows = rows[:merchantsLimit]
	}

	var sb strings.Builder
	sb.WriteString("🏪 Expenses by Merchant this month:\n\n")
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", row.Name, receipts.FormatAmount(row.Total)))
	}

	c.SendMessage(chatID, sb.String())
	return nil
}
