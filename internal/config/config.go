package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogFormat    string
	LogLevel     string

	// Batch engine configuration
	MaxBatchSize int

	// Selection service configuration
	SelectionBaseURL string
	SelectionTimeout time.Duration

	// Fiscal issuance configuration
	FiscalBaseURL      string
	FiscalAuthURL      string
	FiscalClientID     string
	FiscalClientSecret string
	FiscalEnvironment  string
	FiscalTimeout      time.Duration
	EmitterCNPJ        string

	// Storage configuration (optional)
	PostgresURL string
	RedisAddr   string
	RedisDB     int

	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 120)) * time.Second,
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Batch engine configuration
		MaxBatchSize: getEnvInt("MAX_BATCH_SIZE", 20),

		// Selection service configuration
		SelectionBaseURL: getEnvString("SELECTION_BASE_URL", "http://localhost:8000"),
		SelectionTimeout: time.Duration(getEnvInt("SELECTION_TIMEOUT", 30)) * time.Second,

		// Fiscal issuance configuration
		FiscalBaseURL:      getEnvString("FISCAL_BASE_URL", "https://api.sandbox.nuvemfiscal.com.br"),
		FiscalAuthURL:      getEnvString("FISCAL_AUTH_URL", "https://auth.nuvemfiscal.com.br/oauth/token"),
		FiscalClientID:     os.Getenv("FISCAL_CLIENT_ID"),
		FiscalClientSecret: os.Getenv("FISCAL_CLIENT_SECRET"),
		FiscalEnvironment:  getEnvString("FISCAL_ENVIRONMENT", "homologacao"),
		FiscalTimeout:      time.Duration(getEnvInt("FISCAL_TIMEOUT", 30)) * time.Second,
		EmitterCNPJ:        os.Getenv("CNPJ_EMITENTE"),

		// Storage configuration
		PostgresURL: os.Getenv("POSTGRES_DB_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          getEnvString("S3_BUCKET", "danfe-archive"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),
	}

	// Validate critical configuration
	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.FiscalClientID == "" || config.FiscalClientSecret == "" {
		log.Println("Warning: No fiscal credentials provided. Invoice emission will fail.")
	}

	if config.EmitterCNPJ == "" {
		log.Println("Warning: No emitter CNPJ provided. Invoice emission will fail.")
	}

	if config.PostgresURL == "" {
		log.Println("Warning: No PostgreSQL URL provided. Issued documents will not be persisted.")
	}

	if config.MaxBatchSize < 1 {
		log.Printf("Invalid MAX_BATCH_SIZE %d, using default: 20", config.MaxBatchSize)
		config.MaxBatchSize = 20
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
