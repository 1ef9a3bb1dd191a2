package common

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all run configuration. It is built once before the pipeline
// starts and passed by value; stages never mutate it.
type Config struct {
	Run RunConfig `yaml:"run"`
	LLM LLMConfig `yaml:"llm"`
}

// RunConfig holds pipeline behavior knobs.
type RunConfig struct {
	// MinimumPayableThreshold: supplements strictly below this are suppressed
	// and flagged ZERO_DIFFERENCE.
	MinimumPayableThreshold decimal.Decimal `yaml:"minimum_payable_threshold"`
	// Workers bounds the parallel extraction stage. 1 means fully sequential.
	Workers     int    `yaml:"workers"`
	CompanyName string `yaml:"company_name"`
}

// LLMConfig holds fallback-extractor configuration.
type LLMConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() Config {
	return Config{
		Run: RunConfig{
			MinimumPayableThreshold: getEnvAsDecimal("MIN_PAYABLE_THRESHOLD", decimal.New(1, -2)),
			Workers:                 getEnvAsInt("RUN_WORKERS", 4),
			CompanyName:             getEnv("COMPANY_NAME", "Contare"),
		},
		LLM: LLMConfig{
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: 0,
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// MergeFile overlays values from a YAML config file on top of c.
// Zero values in the file leave the existing value untouched for the
// numeric knobs, so a partial file is fine.
func (c *Config) MergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return WrapError(err, "read config file")
	}
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return WrapError(err, "parse config file")
	}
	if !file.Run.MinimumPayableThreshold.IsZero() {
		c.Run.MinimumPayableThreshold = file.Run.MinimumPayableThreshold
	}
	if file.Run.Workers > 0 {
		c.Run.Workers = file.Run.Workers
	}
	if file.Run.CompanyName != "" {
		c.Run.CompanyName = file.Run.CompanyName
	}
	if file.LLM.Model != "" {
		c.LLM.Model = file.LLM.Model
	}
	if file.LLM.BaseURL != "" {
		c.LLM.BaseURL = file.LLM.BaseURL
	}
	if file.LLM.Timeout > 0 {
		c.LLM.Timeout = file.LLM.Timeout
	}
	return nil
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Run.MinimumPayableThreshold.IsNegative() {
		return NewAppError("CONFIG_ERROR", "MIN_PAYABLE_THRESHOLD must not be negative", nil)
	}
	if c.Run.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "RUN_WORKERS must be at least 1", nil)
	}
	if c.LLM.Enabled && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when the fallback extractor is enabled", nil)
	}
	return nil
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
