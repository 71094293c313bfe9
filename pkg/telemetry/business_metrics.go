package telemetry

import (
	"log/slog"

	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Business metrics for application-level monitoring
var (
	// Receipt pipeline metrics
	ReceiptsProcessedTotal  api.Int64Counter
	ReceiptsDuplicatesTotal api.Int64Counter
	ReceiptsRejectedTotal   api.Int64Counter
	ReceiptItemsExtracted   api.Int64Counter

	// Telegram Bot metrics
	TelegramMessagesTotal api.Int64Counter
	TelegramCommandsTotal api.Int64Counter
	TelegramErrorsTotal   api.Int64Counter

	// Reporting metrics
	ReportRequestsTotal api.Int64Counter

	// Error tracking
	ApplicationErrorsTotal api.Int64Counter
	DatabaseErrorsTotal    api.Int64Counter
)

// InitBusinessMetrics initializes all business-level metrics
func InitBusinessMetrics(provider *metric.MeterProvider) error {
	meter := provider.Meter("business")

	var err error

	// Receipt Pipeline Metrics
	ReceiptsProcessedTotal, err = meter.Int64Counter("receipts.processed.total",
		api.WithDescription("Total receipts successfully extracted and persisted"))
	if err != nil {
		return err
	}

	ReceiptsDuplicatesTotal, err = meter.Int64Counter("receipts.duplicates.total",
		api.WithDescription("Total receipts rejected as duplicates by fingerprint"))
	if err != nil {
		return err
	}

	ReceiptsRejectedTotal, err = meter.Int64Counter("receipts.rejected.total",
		api.WithDescription("Total uploads where no receipt could be detected"))
	if err != nil {
		return err
	}

	ReceiptItemsExtracted, err = meter.Int64Counter("receipts.items.extracted.total",
		api.WithDescription("Total line items extracted from receipts"))
	if err != nil {
		return err
	}

	// Telegram Bot Metrics
	TelegramMessagesTotal, err = meter.Int64Counter("telegram.messages.total",
		api.WithDescription("Total Telegram messages processed by type"))
	if err != nil {
		return err
	}

	TelegramCommandsTotal, err = meter.Int64Counter("telegram.commands.total",
		api.WithDescription("Total Telegram commands executed by command type"))
	if err != nil {
		return err
	}

	TelegramErrorsTotal, err = meter.Int64Counter("telegram.errors.total",
		api.WithDescription("Total Telegram bot errors by type"))
	if err != nil {
		return err
	}

	// Reporting Metrics
	ReportRequestsTotal, err = meter.Int64Counter("reports.requests.total",
		api.WithDescription("Total aggregation report requests by report type"))
	if err != nil {
		return err
	}

	// Error Metrics
	ApplicationErrorsTotal, err = meter.Int64Counter("application.errors.total",
		api.WithDescription("Total application errors by component and type"))
	if err != nil {
		return err
	}

	DatabaseErrorsTotal, err = meter.Int64Counter("database.errors.total",
		api.WithDescription("Total database errors by operation and type"))
	if err != nil {
		return err
	}

	slog.Info("Business metrics initialized successfully")
	return nil
}
