package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	Excel   ExcelConfig
	Server  ServerConfig
	History HistoryConfig
}

// LLMConfig holds semantic-extraction backend configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// ExcelConfig holds declaration-template configuration
type ExcelConfig struct {
	TemplatePath string
	SheetName    string
	DataStartRow int
	OutputDir    string
	BackupDir    string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// HistoryConfig holds run-history store configuration
type HistoryConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is applied first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 500),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 10*time.Second),
		},
		Excel: ExcelConfig{
			TemplatePath: getEnv("EXCEL_TEMPLATE", "Template.xlsx"),
			SheetName:    getEnv("EXCEL_SHEET", "环亚客户自行申报货物表"),
			DataStartRow: getEnvAsInt("EXCEL_DATA_START_ROW", 9),
			OutputDir:    getEnv("OUTPUT_DIR", "output"),
			BackupDir:    getEnv("BACKUP_DIR", "output/backups"),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		History: HistoryConfig{
			DBPath: getEnv("HISTORY_DB_PATH", "shipments.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. An empty OPENAI_API_KEY is not
// an error: processing degrades to fallback-only extraction.
func (c *Config) Validate() error {
	if c.Excel.TemplatePath == "" {
		return NewAppError("CONFIG_ERROR", "EXCEL_TEMPLATE is required", ErrInvalidInput)
	}
	if c.Excel.DataStartRow < 1 {
		return NewAppError("CONFIG_ERROR", "EXCEL_DATA_START_ROW must be >= 1", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
