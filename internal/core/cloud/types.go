package cloud

// AzureConfig contains Azure Blob Storage specific configuration
type AzureConfig struct {
	// StorageAccountName is the Azure storage account name
	StorageAccountName string

	// StorageAccountKey is the Azure storage account key
	StorageAccountKey string

	// ConnectionString is the full connection string (alternative to name/key)
	ConnectionString string

	// ContainerName is the blob container name
	ContainerName string

	// BaseURL is the base URL for blob access (optional, auto-generated if empty)
	BaseURL string

	// UseHTTPS determines whether to use HTTPS for blob URLs
	UseHTTPS bool
}

// Error types for cloud operations
var (
	ErrFileNotFound  = &CloudError{Code: "FILE_NOT_FOUND", Message: "File not found"}
	ErrInvalidFileID = &CloudError{Code: "INVALID_FILE_ID", Message: "Invalid file ID"}
	ErrUploadFailed  = &CloudError{Code: "UPLOAD_FAILED", Message: "File upload failed"}
	ErrInvalidConfig = &CloudError{Code: "INVALID_CONFIG", Message: "Invalid configuration"}
)

// CloudError represents a cloud storage error
type CloudError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CloudError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CloudError) Unwrap() error {
	return e.Cause
}
