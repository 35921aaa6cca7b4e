package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Vision VisionConfig
	OCR    OCRConfig
}

// VisionConfig holds the hosted vision-model configuration
type VisionConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float32
	TopK            int
	TopP            float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// OCRConfig holds the local OCR engine configuration
type OCRConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Vision: VisionConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			BaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature:     getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			TopK:            getEnvAsInt("GEMINI_TOP_K", 32),
			TopP:            getEnvAsFloat32("GEMINI_TOP_P", 1),
			MaxOutputTokens: getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 200),
			Timeout:         getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
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

// Validate checks the loaded configuration. The OCR engine is always
// required since it is the last-resort tier. The vision settings are only
// validated when an API key is present; an empty key means the operator runs
// fallback-only.
func (c *Config) Validate() error {
	if c.OCR.Tesseract == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_BIN is required", ErrInvalidInput)
	}
	if c.OCR.Language == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_LANG is required", ErrInvalidInput)
	}
	if c.Vision.APIKey == "" {
		return nil
	}
	if c.Vision.BaseURL == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_BASE_URL is required", ErrInvalidInput)
	}
	if c.Vision.Model == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_MODEL is required", ErrInvalidInput)
	}
	if c.Vision.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "GEMINI_TIMEOUT must be positive", ErrInvalidInput)
	}
	return nil
}
