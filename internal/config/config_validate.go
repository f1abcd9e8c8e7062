// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned when no generative-service credential is configured.
var ErrMissingAPIKey = errors.New("API_KEY is required (set API_KEY or GEMINI_API_KEY, or add it to .env)")

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateGemini(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateClassifier(); err != nil {
		return err
	}

	if err := c.validateOCR(); err != nil {
		return err
	}

	if err := c.validateSpeech(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateGemini validates the remote recommender settings.
func (c *Config) validateGemini() error {
	if strings.TrimSpace(c.Gemini.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	if err := validateHTTPURL(c.Gemini.BaseURL, "GEMINI_BASE_URL"); err != nil {
		return err
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must be positive, got %v", c.Gemini.Timeout)
	}
	if c.Gemini.RequestsPerSecond < 0 {
		return fmt.Errorf("GEMINI_REQUESTS_PER_SECOND must not be negative, got %v", c.Gemini.RequestsPerSecond)
	}
	if c.Gemini.BreakerFailureRatio <= 0 || c.Gemini.BreakerFailureRatio > 1 {
		return fmt.Errorf("GEMINI_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Gemini.BreakerFailureRatio)
	}
	return nil
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// validateAPI validates the rate limiter settings when enabled.
func (c *Config) validateAPI() error {
	if c.API.RateLimitDisabled {
		return nil
	}
	if c.API.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.API.RateLimitWindow)
	}
	return nil
}

// validateClassifier validates classifier settings. A missing model file is
// not an error here: the classifier degrades to the Unknown label at runtime.
func (c *Config) validateClassifier() error {
	if c.Classifier.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH must not be empty")
	}
	if c.Classifier.ReloadInterval < 0 {
		return fmt.Errorf("MODEL_RELOAD_INTERVAL must not be negative, got %v", c.Classifier.ReloadInterval)
	}
	return nil
}

// validateOCR validates the image-to-text adapter (only if enabled)
func (c *Config) validateOCR() error {
	if !c.OCR.Enabled {
		return nil
	}
	switch c.OCR.Backend {
	case "tesseract":
		if c.OCR.Command == "" {
			return fmt.Errorf("OCR_COMMAND is required when OCR_BACKEND=tesseract")
		}
	case "http":
		if err := validateEndpointURL(c.OCR.URL, "OCR_URL"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("OCR_BACKEND must be 'tesseract' or 'http', got %q", c.OCR.Backend)
	}
	return nil
}

// validateSpeech validates the speech-to-text adapter (only if enabled)
func (c *Config) validateSpeech() error {
	if !c.Speech.Enabled {
		return nil
	}
	if c.Speech.Language == "" {
		return fmt.Errorf("SPEECH_LANGUAGE must not be empty")
	}
	switch c.Speech.Backend {
	case "cli":
		if c.Speech.Command == "" || c.Speech.Model == "" {
			return fmt.Errorf("SPEECH_COMMAND and SPEECH_MODEL are required when SPEECH_BACKEND=cli")
		}
	case "http":
		if err := validateEndpointURL(c.Speech.URL, "SPEECH_URL"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("SPEECH_BACKEND must be 'cli' or 'http', got %q", c.Speech.Backend)
	}
	return nil
}

// validateLogging validates logging settings.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}
