package cloud

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// AzureProvider stores receipt files in an Azure Blob Storage container.
type AzureProvider struct {
	client        *azblob.Client
	containerName string
	config        AzureConfig
}

// NewAzureProvider creates a new Azure Blob Storage provider
func NewAzureProvider(config AzureConfig) (*AzureProvider, error) {
	if err := ValidateAzureConfig(config); err != nil {
		return nil, err
	}

	var client *azblob.Client
	var err error

	// Create client using connection string or account name/key
	if config.ConnectionString != "" {
		client, err = azblob.NewClientFromConnectionString(config.ConnectionString, nil)
	} else {
		serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", config.StorageAccountName)
		credential, credErr := azblob.NewSharedKeyCredential(config.StorageAccountName, config.StorageAccountKey)
		if credErr != nil {
			return nil, &CloudError{
				Code:    "AZURE_CREDENTIAL_ERROR",
				Message: "failed to create Azure credentials",
				Cause:   credErr,
			}
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	}

	if err != nil {
		return nil, &CloudError{
			Code:    "AZURE_CLIENT_ERROR",
			Message: "failed to create Azure Blob Storage client",
			Cause:   err,
		}
	}

	if config.UseHTTPS == false && config.ConnectionString == "" {
		config.UseHTTPS = true // Default to HTTPS
	}

	return &AzureProvider{
		client:        client,
		containerName: config.ContainerName,
		config:        config,
	}, nil
}

// UploadFile uploads a blob and returns its public URL.
func (p *AzureProvider) UploadFile(ctx context.Context, fileID string, content io.Reader, contentType string) (string, error) {
	if fileID == "" {
		return "", ErrInvalidFileID
	}

	uploadOptions := &azblob.UploadStreamOptions{}
	if contentType != "" {
		uploadOptions.HTTPHeaders = &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		}
	}

	_, err := p.client.UploadStream(ctx, p.containerName, fileID, content, uploadOptions)
	if err != nil {
		return "", &CloudError{
			Code:    "UPLOAD_FAILED",
			Message: "failed to upload file to Azure Blob Storage",
			Cause:   err,
		}
	}

	return p.generatePublicURL(fileID), nil
}

// DownloadFile retrieves a blob's content.
func (p *AzureProvider) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, ErrInvalidFileID
	}

	resp, err := p.client.DownloadStream(ctx, p.containerName, fileID, nil)
	if err != nil {
		return nil, &CloudError{
			Code:    "FILE_NOT_FOUND",
			Message: "file not found in Azure Blob Storage",
			Cause:   err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CloudError{
			Code:    "DOWNLOAD_FAILED",
			Message: "failed to read file from Azure Blob Storage",
			Cause:   err,
		}
	}
	return data, nil
}

// DeleteFile removes a blob from the container.
func (p *AzureProvider) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return ErrInvalidFileID
	}

	_, err := p.client.DeleteBlob(ctx, p.containerName, fileID, nil)
	if err != nil {
		return &CloudError{
			Code:    "DELETE_FAILED",
			Message: "failed to delete file from Azure Blob Storage",
			Cause:   err,
		}
	}

	return nil
}

// generatePublicURL creates a public URL for the blob
func (p *AzureProvider) generatePublicURL(fileID string) string {
	if p.config.BaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", p.config.BaseURL, p.containerName, fileID)
	}

	protocol := "https"
	if !p.config.UseHTTPS {
		protocol = "http"
	}

	return fmt.Sprintf("%s://%s.blob.core.windows.net/%s/%s",
		protocol, p.config.StorageAccountName, p.containerName, url.QueryEscape(fileID))
}

// ValidateAzureConfig checks that the provider has enough configuration to
// build a client.
func ValidateAzureConfig(config AzureConfig) error {
	if config.ContainerName == "" {
		return &CloudError{
			Code:    "INVALID_CONFIG",
			Message: "Azure container name is required",
		}
	}
	if config.ConnectionString == "" && (config.StorageAccountName == "" || config.StorageAccountKey == "") {
		return &CloudError{
			Code:    "INVALID_CONFIG",
			Message: "either Azure connection string or storage account name and key are required",
		}
	}
	return nil
}
