package cloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/PocketPalCo/receipt-service/config"
)

// Service stores original receipt files so a stored receipt can always be
// traced back to the document it came from.
type Service struct {
	provider *AzureProvider
	logger   *slog.Logger
}

// NewService creates a new cloud storage service
func NewService(cfg config.CloudConfig, logger *slog.Logger) (*Service, error) {
	azureConfig := AzureConfig{
		StorageAccountName: cfg.Azure.StorageAccountName,
		StorageAccountKey:  cfg.Azure.StorageAccountKey,
		ConnectionString:   cfg.Azure.ConnectionString,
		ContainerName:      cfg.Azure.ContainerName,
		BaseURL:            cfg.Azure.BaseURL,
		UseHTTPS:           true,
	}

	provider, err := NewAzureProvider(azureConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage provider: %w", err)
	}

	return &Service{
		provider: provider,
		logger:   logger,
	}, nil
}

// Upload stores a receipt file and returns its public URL.
func (s *Service) Upload(ctx context.Context, fileName string, content io.Reader, contentType string) (string, error) {
	publicURL, err := s.provider.UploadFile(ctx, fileName, content, contentType)
	if err != nil {
		s.logger.Error("Failed to upload receipt file",
			"file_name", fileName,
			"error", err)
		return "", fmt.Errorf("upload failed: %w", err)
	}

	s.logger.Info("Receipt file uploaded",
		"file_name", fileName,
		"public_url", publicURL)
	return publicURL, nil
}

// Download retrieves a stored receipt file by name.
func (s *Service) Download(ctx context.Context, fileName string) ([]byte, error) {
	data, err := s.provider.DownloadFile(ctx, fileName)
	if err != nil {
		s.logger.Error("Failed to download receipt file", "file_name", fileName, "error", err)
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return data, nil
}

// Delete removes a stored receipt file, used to clean up after uploads
// whose receipt was never saved.
func (s *Service) Delete(ctx context.Context, fileName string) error {
	if err := s.provider.DeleteFile(ctx, fileName); err != nil {
		s.logger.Error("Failed to delete receipt file", "file_name", fileName, "error", err)
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Info("Receipt file deleted", "file_name", fileName)
	return nil
}
