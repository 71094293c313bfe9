package receipts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
	"github.com/PocketPalCo/receipt-service/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("receipts-service")

// DocumentAnalyzer runs a document through the extraction model and returns
// the raw analysis result.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, content []byte, contentType string) (*docintel.AnalyzeResult, error)
}

// FileStore keeps the original uploaded files. Upload returns the public
// URL of the stored file.
type FileStore interface {
	Upload(ctx context.Context, fileName string, content io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, fileName string) error
}

// UploadRequest carries one uploaded document into the pipeline.
type UploadRequest struct {
	FileName    string
	ContentType string
	FileData    []byte
}

// Service runs the receipt pipeline: analyze the uploaded document, build a
// normalized receipt, reject duplicates by content fingerprint, persist the
// rest, and answer aggregation queries over everything stored so far.
type Service struct {
	repo     Repository
	analyzer DocumentAnalyzer
	files    FileStore
	cache    *FingerprintCache
	logger   *slog.Logger
}

func NewService(repo Repository, analyzer DocumentAnalyzer, files FileStore, cache *FingerprintCache, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		files:    files,
		cache:    cache,
		logger:   logger,
	}
}

// ProcessUpload analyzes an uploaded document and stores the extracted
// receipt. It returns ErrNoReceiptDetected when the analysis found no
// receipt in the document and ErrDuplicateReceipt when a receipt with the
// same content fingerprint is already stored. The file upload and the
// document analysis run concurrently; the upload result is only needed if
// the receipt survives extraction and dedup.
func (s *Service) ProcessUpload(ctx context.Context, req UploadRequest) (*Receipt, error) {
	ctx, span := tracer.Start(ctx, "receipts.ProcessUpload")
	defer span.End()

	if !s.isValidFileType(req.ContentType) {
		return nil, fmt.Errorf("invalid content type: %s. Supported types: images and PDF documents", req.ContentType)
	}

	ext := s.getFileExtension(req.ContentType)
	fileName := fmt.Sprintf("receipt_%s%s", uuid.New().String(), ext)

	uploadChan := make(chan string, 1)
	uploadErrChan := make(chan error, 1)
	analyzeChan := make(chan *docintel.AnalyzeResult, 1)
	analyzeErrChan := make(chan error, 1)

	go func() {
		fileURL, err := s.files.Upload(ctx, fileName, bytes.NewReader(req.FileData), req.ContentType)
		if err != nil {
			uploadErrChan <- err
			return
		}
		uploadChan <- fileURL
	}()

	go func() {
		result, err := s.analyzer.Analyze(ctx, req.FileData, req.ContentType)
		if err != nil {
			analyzeErrChan <- err
			return
		}
		analyzeChan <- result
	}()

	var fileURL string
	var result *docintel.AnalyzeResult
	var uploadErr, analyzeErr error

	for i := 0; i < 2; i++ {
		select {
		case fileURL = <-uploadChan:
		case uploadErr = <-uploadErrChan:
		case result = <-analyzeChan:
		case analyzeErr = <-analyzeErrChan:
		case <-ctx.Done():
			return nil, fmt.Errorf("operation cancelled: %w", ctx.Err())
		}
	}

	if analyzeErr != nil {
		span.RecordError(analyzeErr)
		addCount(ctx, telemetry.ApplicationErrorsTotal, attribute.String("component", "docintel"))
		s.logger.Error("Failed to analyze uploaded document",
			"error", analyzeErr,
			"file_name", req.FileName)
		if uploadErr == nil {
			s.cleanupFile(ctx, fileName)
		}
		return nil, fmt.Errorf("failed to analyze document: %w", analyzeErr)
	}

	// The stored original is a convenience; losing it must not lose the
	// receipt record.
	if uploadErr != nil {
		span.RecordError(uploadErr)
		addCount(ctx, telemetry.ApplicationErrorsTotal, attribute.String("component", "cloud"))
		s.logger.Warn("Failed to upload receipt file, continuing without stored original",
			"error", uploadErr,
			"file_name", req.FileName)
	}

	cleanup := func() {
		if fileURL != "" {
			s.cleanupFile(ctx, fileName)
		}
	}

	receipt, err := BuildReceipt(result)
	if err != nil {
		if errors.Is(err, ErrNoReceiptDetected) {
			addCount(ctx, telemetry.ReceiptsRejectedTotal)
			s.logger.Info("No receipt detected in uploaded document",
				"file_name", req.FileName)
		}
		cleanup()
		return nil, err
	}

	receipt.ID = uuid.New()
	receipt.CreatedAt = time.Now().UTC()
	if fileURL != "" {
		receipt.FileURL = &fileURL
	}
	receipt.ContentType = &req.ContentType

	if s.cache.Seen(ctx, receipt.Fingerprint) {
		addCount(ctx, telemetry.ReceiptsDuplicatesTotal)
		s.logger.Info("Duplicate receipt rejected from cache",
			"fingerprint", receipt.Fingerprint)
		cleanup()
		return nil, ErrDuplicateReceipt
	}

	exists, err := s.repo.ExistsByFingerprint(ctx, receipt.Fingerprint)
	if err != nil {
		span.RecordError(err)
		cleanup()
		return nil, fmt.Errorf("failed to check for duplicate receipt: %w", err)
	}
	if exists {
		s.cache.Mark(ctx, receipt.Fingerprint)
		addCount(ctx, telemetry.ReceiptsDuplicatesTotal)
		s.logger.Info("Duplicate receipt rejected",
			"fingerprint", receipt.Fingerprint,
			"merchant_name", stringOrEmpty(receipt.MerchantName))
		cleanup()
		return nil, ErrDuplicateReceipt
	}

	// The unique fingerprint index closes the race between the check
	// above and this insert.
	if err := s.repo.Save(ctx, receipt); err != nil {
		cleanup()
		if errors.Is(err, ErrDuplicateReceipt) {
			s.cache.Mark(ctx, receipt.Fingerprint)
			addCount(ctx, telemetry.ReceiptsDuplicatesTotal)
			return nil, ErrDuplicateReceipt
		}
		span.RecordError(err)
		addCount(ctx, telemetry.DatabaseErrorsTotal, attribute.String("operation", "save_receipt"))
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	s.cache.Mark(ctx, receipt.Fingerprint)
	addCount(ctx, telemetry.ReceiptsProcessedTotal)
	if telemetry.ReceiptItemsExtracted != nil {
		telemetry.ReceiptItemsExtracted.Add(ctx, int64(len(receipt.Items)))
	}

	s.logger.Info("Receipt processed successfully",
		"receipt_id", receipt.ID,
		"merchant_name", stringOrEmpty(receipt.MerchantName),
		"items_count", len(receipt.Items),
		"fingerprint", receipt.Fingerprint)

	return receipt, nil
}

// ListReceipts returns all stored receipts, newest first.
func (s *Service) ListReceipts(ctx context.Context) ([]Receipt, error) {
	ctx, span := tracer.Start(ctx, "receipts.ListReceipts")
	defer span.End()

	receipts, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

// TotalExpenses sums all receipt totals over the optional date range.
func (s *Service) TotalExpenses(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "receipts.TotalExpenses")
	defer span.End()
	addCount(ctx, telemetry.ReportRequestsTotal, attribute.String("report", "summary"))

	receipts, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, fmt.Errorf("failed to load receipts: %w", err)
	}
	return TotalExpenses(receipts, from, to), nil
}

// ExpensesByMerchant groups spending by merchant over the optional range.
func (s *Service) ExpensesByMerchant(ctx context.Context, from, to *time.Time) (map[string]decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "receipts.ExpensesByMerchant")
	defer span.End()
	addCount(ctx, telemetry.ReportRequestsTotal, attribute.String("report", "merchants"))

	receipts, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}
	return ExpensesByMerchant(receipts, from, to), nil
}

// ExpensesByCategory groups item-level spending by category over the
// optional range.
func (s *Service) ExpensesByCategory(ctx context.Context, from, to *time.Time) (map[string]decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "receipts.ExpensesByCategory")
	defer span.End()
	addCount(ctx, telemetry.ReportRequestsTotal, attribute.String("report", "categories"))

	receipts, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}
	return ExpensesByCategory(receipts, from, to), nil
}

// DailyExpenses returns per-day totals over [from, to] in ascending date
// order.
func (s *Service) DailyExpenses(ctx context.Context, from, to time.Time) ([]DailyTotal, error) {
	ctx, span := tracer.Start(ctx, "receipts.DailyExpenses")
	defer span.End()
	addCount(ctx, telemetry.ReportRequestsTotal, attribute.String("report", "daily"))

	receipts, err := s.repo.GetAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load receipts: %w", err)
	}
	return DailyExpenses(receipts, from, to), nil
}

// cleanupFile removes an uploaded file whose receipt was never stored.
func (s *Service) cleanupFile(ctx context.Context, fileName string) {
	if err := s.files.Delete(ctx, fileName); err != nil {
		s.logger.Warn("Failed to clean up uploaded file",
			"error", err,
			"file_name", fileName)
	}
}

// isValidFileType checks if the content type is supported for receipt processing
func (s *Service) isValidFileType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
		"image/bmp",
		"image/gif",
		"application/pdf",
	}

	contentType = strings.ToLower(contentType)
	for _, validType := range validTypes {
		if contentType == validType {
			return true
		}
	}
	return false
}

// getFileExtension returns the appropriate file extension for a content type
func (s *Service) getFileExtension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}

// addCount increments a counter when metrics have been initialized; before
// that (local runs, tests) increments are dropped.
func addCount(ctx context.Context, counter api.Int64Counter, attrs ...attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, api.WithAttributes(attrs...))
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
