package config

import (
	"os"
	"strconv"
	"time"

	"exportlens/internal/errors"
)

// Config represents the complete application configuration.
// It is built once at startup and passed by reference to the services that need it.
type Config struct {
	AI        AIConfig
	Server    ServerConfig
	Upload    UploadConfig
	Profiling ProfilingConfig
}

// AIConfig holds completion service settings
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	// Timeout of zero leaves the HTTP transport default in place
	Timeout time.Duration
	// TableCharLimit caps the serialized table embedded in analysis-of-data prompts
	TableCharLimit int
	// PromptsDir optionally overrides the embedded prompt templates
	PromptsDir string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds upload handling settings
type UploadConfig struct {
	MaxBytes    int64
	PreviewRows int
	Parallelism int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	config.AI = *aiConfig
	config.Server = *loadServerConfig()
	config.Upload = *loadUploadConfig()
	config.Profiling = *loadProfilingConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() (*AIConfig, error) {
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return nil, errors.ConfigInvalid("OPENAI_API_KEY is required")
	}

	return &AIConfig{
		OpenAIKey:      openaiKey,
		OpenAIModel:    getEnvOrDefault("LLM_MODEL", "gpt-4"),
		BaseURL:        getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		MaxTokens:      getEnvIntOrDefault("MAX_TOKENS", 2048),
		Temperature:    getEnvFloatOrDefault("TEMPERATURE", 1.0),
		Timeout:        getEnvDurationOrDefault("LLM_TIMEOUT", 0),
		TableCharLimit: getEnvIntOrDefault("PROMPT_TABLE_CHAR_LIMIT", 12000),
		PromptsDir:     getEnvOrDefault("PROMPTS_DIR", ""),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes:    int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50*1024*1024)),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 100),
		Parallelism: getEnvIntOrDefault("UPLOAD_PARALLELISM", 1),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OpenAI API key is required")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("MAX_TOKENS must be positive")
	}
	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		return errors.ConfigInvalid("TEMPERATURE must be between 0 and 2")
	}
	if config.AI.TableCharLimit <= 0 {
		return errors.ConfigInvalid("PROMPT_TABLE_CHAR_LIMIT must be positive")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Upload.Parallelism <= 0 {
		return errors.ConfigInvalid("UPLOAD_PARALLELISM must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
