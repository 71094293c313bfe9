package commands

import (
	"log/slog"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SetupCommands initializes all bot commands and returns a registry
func SetupCommands(
	bot *tgbotapi.BotAPI,
	receiptsService *receipts.Service,
	logger *slog.Logger,
) *CommandRegistry {
	registry := NewCommandRegistry()

	// Create base command with dependencies
	base := NewBaseCommand(bot, receiptsService, logger)

	// Register all commands
	registry.Register(NewStartCommand(base))
	registry.Register(NewHelpCommand(base))
	registry.Register(NewExpensesCommand(base))
	registry.Register(NewMerchantsCommand(base))
	registry.Register(NewCategoriesCommand(base))
	registry.Register(NewDailyCommand(base))

	return registry
}
