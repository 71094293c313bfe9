package commands

import (
	"log/slog"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	bot             *tgbotapi.BotAPI
	receiptsService *receipts.Service
	logger          *slog.Logger
}

// NewBaseCommand creates a new base command with common dependencies
func NewBaseCommand(
	bot *tgbotapi.BotAPI,
	receiptsService *receipts.Service,
	logger *slog.Logger,
) BaseCommand {
	return BaseCommand{
		bot:             bot,
		receiptsService: receiptsService,
		logger:          logger,
	}
}

// SendMessage sends a simple text message
func (bc *BaseCommand) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bc.bot.Send(msg); err != nil {
		bc.logger.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}
