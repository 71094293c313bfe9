package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
	"github.com/PocketPalCo/receipt-service/internal/core/telegram/commands"
	"github.com/PocketPalCo/receipt-service/pkg/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

type BotService struct {
	bot             *tgbotapi.BotAPI
	receiptsService *receipts.Service
	registry        *commands.CommandRegistry
	logger          *slog.Logger
}

func NewBotService(token string, receiptsService *receipts.Service, logger *slog.Logger, debug bool) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.Debug = debug

	registry := commands.SetupCommands(bot, receiptsService, logger)

	return &BotService{
		bot:             bot,
		receiptsService: receiptsService,
		registry:        registry,
		logger:          logger,
	}, nil
}

func (s *BotService) Start(ctx context.Context) error {
	s.logger.Info("Starting Telegram bot", "bot_username", s.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := s.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Bot context cancelled, stopping")
			s.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				go s.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (s *BotService) Stop() {
	s.bot.StopReceivingUpdates()
}

func (s *BotService) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	s.logger.Info("Received message",
		"component", "telegram_bot",
		"user_id", message.From.ID,
		"username", message.From.UserName,
		"chat_id", chatID,
		"message_type", func() string {
			switch {
			case message.IsCommand():
				return "command"
			case len(message.Photo) > 0:
				return "photo"
			case message.Document != nil:
				return "document"
			default:
				return "text"
			}
		}())

	if message.IsCommand() {
		s.handleCommand(ctx, message)
		return
	}

	if len(message.Photo) > 0 || message.Document != nil {
		s.countMessage(ctx, "media")
		s.handleReceiptUpload(ctx, message)
		return
	}

	s.countMessage(ctx, "text")
	s.sendMessage(chatID, "Send me a photo or PDF of a receipt, or use /help to see the available commands.")
}

func (s *BotService) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	var args []string
	if raw := strings.TrimSpace(message.CommandArguments()); raw != "" {
		args = strings.Fields(raw)
	}

	if telemetry.TelegramCommandsTotal != nil {
		telemetry.TelegramCommandsTotal.Add(ctx, 1,
			api.WithAttributes(attribute.String("command", command)))
	}

	if err := s.registry.ExecuteCommand(ctx, command, chatID, args); err != nil {
		if telemetry.TelegramErrorsTotal != nil {
			telemetry.TelegramErrorsTotal.Add(ctx, 1,
				api.WithAttributes(attribute.String("type", "command")))
		}
		s.logger.Error("Command failed",
			"error", err,
			"command", command,
			"chat_id", chatID)
	}
}

// handleReceiptUpload downloads the attached photo or document and runs it
// through the receipt pipeline, replying with the extracted summary or the
// reason the upload was not saved.
func (s *BotService) handleReceiptUpload(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	fileID, fileName, contentType := attachmentInfo(message)

	data, err := s.downloadFile(fileID)
	if err != nil {
		s.logger.Error("Failed to download Telegram file",
			"error", err,
			"file_id", fileID,
			"chat_id", chatID)
		s.sendMessage(chatID, "Sorry, I couldn't read that receipt. Please try a clearer photo or a PDF.")
		return
	}

	receipt, err := s.receiptsService.ProcessUpload(ctx, receipts.UploadRequest{
		FileName:    fileName,
		ContentType: contentType,
		FileData:    data,
	})
	if err != nil {
		switch {
		case errors.Is(err, receipts.ErrDuplicateReceipt):
			s.sendMessage(chatID, "⚠️ This receipt appears to be a duplicate and was not saved.")
		case errors.Is(err, receipts.ErrNoReceiptDetected):
			s.sendMessage(chatID, "Sorry, I couldn't find a receipt in that file. Please try a clearer photo or a PDF.")
		default:
			if telemetry.TelegramErrorsTotal != nil {
				telemetry.TelegramErrorsTotal.Add(ctx, 1,
					api.WithAttributes(attribute.String("type", "receipt_upload")))
			}
			s.logger.Error("Failed to process receipt", "error", err, "chat_id", chatID)
			s.sendMessage(chatID, "Sorry, I couldn't read that receipt. Please try a clearer photo or a PDF.")
		}
		return
	}

	s.sendMessage(chatID, "✅ Receipt saved!\n\n"+receipts.Summary(receipt))
}

// attachmentInfo picks the file to process: the largest photo size when the
// message carries a photo, the document otherwise.
func attachmentInfo(message *tgbotapi.Message) (fileID, fileName, contentType string) {
	if len(message.Photo) > 0 {
		largest := message.Photo[0]
		for _, photo := range message.Photo[1:] {
			if photo.FileSize > largest.FileSize {
				largest = photo
			}
		}
		return largest.FileID, fmt.Sprintf("photo_%d.jpg", message.MessageID), "image/jpeg"
	}

	doc := message.Document
	contentType = doc.MimeType
	if contentType == "" {
		contentType = "application/pdf"
	}
	fileName = doc.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("document_%d", message.MessageID)
	}
	return doc.FileID, fileName, contentType
}

func (s *BotService) downloadFile(fileID string) ([]byte, error) {
	file, err := s.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	fileURL := file.Link(s.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading file", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return data, nil
}

func (s *BotService) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		s.logger.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

func (s *BotService) countMessage(ctx context.Context, messageType string) {
	if telemetry.TelegramMessagesTotal != nil {
		telemetry.TelegramMessagesTotal.Add(ctx, 1,
			api.WithAttributes(attribute.String("type", messageType)))
	}
}
