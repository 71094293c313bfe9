package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type Config struct {
	Environment       string `mapstructure:"RSV_ENVIRONMENT"`
	ServerName        string `mapstructure:"RSV_SERVER_NAME"`
	ServerAddress     string `mapstructure:"RSV_SERVER_BIND_ADDR"`
	ServerReadTimeout int16  `mapstructure:"RSV_SERVER_READ_TIMEOUT"`
	LogFormat         string `mapstructure:"RSV_LOG_FORMAT"` // text or json
	LogLevel          string `mapstructure:"RSV_LOG_LEVEL"`  // debug, info, warn, error
	RateLimitMax      int    `mapstructure:"RSV_RATE_LIMIT_MAX"`
	RateLimitWindow   int    `mapstructure:"RSV_RATE_LIMIT_WINDOW"`

	DbHost           string `mapstructure:"RSV_DB_HOST"`
	DbPort           int16  `mapstructure:"RSV_DB_PORT"`
	DbSSLMode        string `mapstructure:"RSV_DB_SSL"`
	DbUser           string `mapstructure:"RSV_DB_USER"`
	DbPassword       string `mapstructure:"RSV_DB_PASSWORD"`
	DbDatabaseName   string `mapstructure:"RSV_DB_DATABASE"`
	DbMaxConnections int    `mapstructure:"RSV_DB_MAX_CONNECTIONS"`

	// Redis (fingerprint fast-path cache)
	RedisHost string `mapstructure:"RSV_REDIS_HOST"`
	RedisPort int16  `mapstructure:"RSV_REDIS_PORT"`
	RedisDb   int    `mapstructure:"RSV_REDIS_DB"`
	RedisUser string `mapstructure:"RSV_REDIS_USER"`
	RedisPass string `mapstructure:"RSV_REDIS_PASS"`

	OtlpEndpoint   string `mapstructure:"RSV_OTLP_ENDPOINT"`
	JaegerEndpoint string `mapstructure:"RSV_JAEGER_ENDPOINT"`

	// Telegram Bot Configuration
	TelegramBotToken string `mapstructure:"RSV_TELEGRAM_BOT_TOKEN"`
	TelegramDebug    bool   `mapstructure:"RSV_TELEGRAM_DEBUG"`

	// Cloud Storage Configuration
	AzureStorageConnectionString string `mapstructure:"RSV_AZURE_STORAGE_CONNECTION_STRING"`
	AzureStorageAccountName      string `mapstructure:"RSV_AZURE_STORAGE_ACCOUNT_NAME"`
	AzureStorageAccountKey       string `mapstructure:"RSV_AZURE_STORAGE_ACCOUNT_KEY"`
	AzureStorageContainerName    string `mapstructure:"RSV_AZURE_STORAGE_CONTAINER_NAME"`
	AzureStorageBaseURL          string `mapstructure:"RSV_AZURE_STORAGE_BASE_URL"`

	// Azure Document Intelligence Configuration
	AzureDocumentIntelligenceEndpoint   string `mapstructure:"RSV_AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT"`
	AzureDocumentIntelligenceAPIKey     string `mapstructure:"RSV_AZURE_DOCUMENT_INTELLIGENCE_API_KEY"`
	AzureDocumentIntelligenceAPIVersion string `mapstructure:"RSV_AZURE_DOCUMENT_INTELLIGENCE_API_VERSION"`
	AzureDocumentIntelligenceModel      string `mapstructure:"RSV_AZURE_DOCUMENT_INTELLIGENCE_RECEIPT_MODEL"`
}

// DefaultConfig generates a config with sane defaults.
// See: The example .env file in the package docs for default values.
func DefaultConfig() Config {
	return Config{
		Environment:       "local",
		ServerAddress:     "0.0.0.0:3002",
		ServerReadTimeout: 60,
		LogFormat:         "text",
		LogLevel:          "info",
		RateLimitMax:      100,
		RateLimitWindow:   30,

		DbHost:           "localhost",
		DbPort:           5432,
		DbSSLMode:        "disable",
		DbUser:           "postgres",
		DbPassword:       "postgres",
		DbDatabaseName:   "receipt-service",
		DbMaxConnections: 100,

		RedisHost: "localhost",
		RedisPort: 6379,
		RedisDb:   0,
		RedisUser: "redis",
		RedisPass: "redis",

		OtlpEndpoint:   "localhost:4317",
		JaegerEndpoint: "http://localhost:14268/api/traces",

		TelegramBotToken: "",
		TelegramDebug:    false,

		// Cloud storage defaults
		AzureStorageConnectionString: "",
		AzureStorageAccountName:      "",
		AzureStorageAccountKey:       "",
		AzureStorageContainerName:    "receipts",
		AzureStorageBaseURL:          "",

		// Azure Document Intelligence defaults
		AzureDocumentIntelligenceEndpoint:   "",
		AzureDocumentIntelligenceAPIKey:     "",
		AzureDocumentIntelligenceAPIVersion: "2024-11-30",
		AzureDocumentIntelligenceModel:      "prebuilt-receipt",
	}
}

// LoadConfig will attempt to load a configuration from the default file location and fallback to environment variables.
func LoadConfig() (Config, error) {
	envFile := os.Getenv("RSV_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	var cfg Config
	var err error

	if _, err = os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		cfg, err = ConfigFromEnvironment()
	} else {
		// Load configuration
		cfg, err = ConfigFromFile(envFile)
	}

	return cfg, err
}

// ConfigFromEnvironment will look for the specified configuration from environment variables
// See package docs for a list of available environment variables.
func ConfigFromEnvironment() (config Config, err error) {
	// Set defaults
	config = DefaultConfig()
	viper.SetDefault("RSV_ENVIRONMENT", config.Environment)
	viper.SetDefault("RSV_SERVER_BIND_ADDR", config.ServerAddress)
	viper.SetDefault("RSV_SERVER_READ_TIMEOUT", config.ServerReadTimeout)
	viper.SetDefault("RSV_LOG_LEVEL", config.LogLevel)
	viper.SetDefault("RSV_LOG_FORMAT", config.LogFormat)
	viper.SetDefault("RSV_RATE_LIMIT_MAX", config.RateLimitMax)
	viper.SetDefault("RSV_RATE_LIMIT_WINDOW", config.RateLimitWindow)
	viper.SetDefault("RSV_DB_HOST", config.DbHost)
	viper.SetDefault("RSV_DB_PORT", config.DbPort)
	viper.SetDefault("RSV_DB_SSL", config.DbSSLMode)
	viper.SetDefault("RSV_DB_USER", config.DbUser)
	viper.SetDefault("RSV_DB_PASSWORD", config.DbPassword)
	viper.SetDefault("RSV_DB_DATABASE", config.DbDatabaseName)
	viper.SetDefault("RSV_DB_MAX_CONNECTIONS", config.DbMaxConnections)
	viper.SetDefault("RSV_OTLP_ENDPOINT", config.OtlpEndpoint)
	viper.SetDefault("RSV_JAEGER_ENDPOINT", config.JaegerEndpoint)
	viper.SetDefault("RSV_REDIS_HOST", config.RedisHost)
	viper.SetDefault("RSV_REDIS_PORT", config.RedisPort)
	viper.SetDefault("RSV_REDIS_USER", config.RedisUser)
	viper.SetDefault("RSV_REDIS_PASS", config.RedisPass)
	viper.SetDefault("RSV_REDIS_DB", config.RedisDb)
	viper.SetDefault("RSV_TELEGRAM_BOT_TOKEN", config.TelegramBotToken)
	viper.SetDefault("RSV_TELEGRAM_DEBUG", config.TelegramDebug)
	viper.SetDefault("RSV_AZURE_STORAGE_CONNECTION_STRING", config.AzureStorageConnectionString)
	viper.SetDefault("RSV_AZURE_STORAGE_ACCOUNT_NAME", config.AzureStorageAccountName)
	viper.SetDefault("RSV_AZURE_STORAGE_ACCOUNT_KEY", config.AzureStorageAccountKey)
	viper.SetDefault("RSV_AZURE_STORAGE_CONTAINER_NAME", config.AzureStorageContainerName)
	viper.SetDefault("RSV_AZURE_STORAGE_BASE_URL", config.AzureStorageBaseURL)
	viper.SetDefault("RSV_AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", config.AzureDocumentIntelligenceEndpoint)
	viper.SetDefault("RSV_AZURE_DOCUMENT_INTELLIGENCE_API_KEY", config.AzureDocumentIntelligenceAPIKey)
	viper.SetDefault("RSV_AZURE_DOCUMENT_INTELLIGENCE_API_VERSION", config.AzureDocumentIntelligenceAPIVersion)
	viper.SetDefault("RSV_AZURE_DOCUMENT_INTELLIGENCE_RECEIPT_MODEL", config.AzureDocumentIntelligenceModel)

	// Override config values with environment variables
	viper.AutomaticEnv()
	err = viper.Unmarshal(&config)
	return
}

// ConfigFromFile will look for the specified configuration file in the current directory and initialize
// a Config from it. Values provided by environment variables will override ones found in
// the file. See package docs for a list of available environment variables.
func ConfigFromFile(f string) (config Config, err error) {
	if config, err = ConfigFromEnvironment(); err != nil {
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigFile(f)
	viper.SetConfigType("env")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)

	return
}

// Fiber initializes and returns a Fiber config based on server config values.
// See https://docs.gofiber.io/api/fiber#config
func (c Config) Fiber() fiber.Config {
	return fiber.Config{
		ReadTimeout: time.Second * time.Duration(c.ServerReadTimeout),
		BodyLimit:   10 * 1024 * 1024, // 10MB, enough for receipt photos and PDFs
	}
}

// DbConnectionString generates a connection string for the database based on config values.
func (c Config) DbConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s", c.DbUser, url.QueryEscape(c.DbPassword), c.DbHost, c.DbPort, c.DbDatabaseName, c.DbSSLMode)
}

// RedisAddr generates the host:port address for the redis cache.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// GetSlogLevel converts the string log level to slog.Level.
func (c Config) GetSlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo // default fallback
	}
}

// GetCloudConfig converts config values to cloud storage configuration struct.
func (c Config) GetCloudConfig() CloudConfig {
	return CloudConfig{
		Azure: AzureCloudConfig{
			StorageAccountName: c.AzureStorageAccountName,
			StorageAccountKey:  c.AzureStorageAccountKey,
			ConnectionString:   c.AzureStorageConnectionString,
			ContainerName:      c.AzureStorageContainerName,
			BaseURL:            c.AzureStorageBaseURL,
		},
	}
}

// CloudConfig holds cloud storage configuration
type CloudConfig struct {
	Azure AzureCloudConfig
}

// AzureCloudConfig holds Azure Blob Storage specific configuration
type AzureCloudConfig struct {
	StorageAccountName string
	StorageAccountKey  string
	ConnectionString   string
	ContainerName      string
	BaseURL            string
}

// GetDocumentIntelligenceConfig converts config values to Document Intelligence configuration struct.
func (c Config) GetDocumentIntelligenceConfig() DocumentIntelligenceConfig {
	return DocumentIntelligenceConfig{
		Endpoint:   c.AzureDocumentIntelligenceEndpoint,
		APIKey:     c.AzureDocumentIntelligenceAPIKey,
		APIVersion: c.AzureDocumentIntelligenceAPIVersion,
		Model:      c.AzureDocumentIntelligenceModel,
	}
}

// DocumentIntelligenceConfig holds Azure Document Intelligence configuration
type DocumentIntelligenceConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Model      string
}
