// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

// Package config loads Biblioteca configuration from layered sources.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every optional setting
//  2. .env file: optional KEY=VALUE file in the working directory
//  3. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  4. Environment Variables: override any setting via the mapped names
//
// The only required value is the generative-service credential (API_KEY or
// GEMINI_API_KEY). Load fails without it and the server refuses to start.
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	Classifier ClassifierConfig `koanf:"classifier"`
	OCR        OCRConfig        `koanf:"ocr"`
	Speech     SpeechConfig     `koanf:"speech"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// MaxUploadBytes caps image and audio uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WriteTimeout is the HTTP write deadline. It covers the slowest enabled
// request path, an adapter run followed by the Gemini call, so a response
// that finishes inside those timeouts can still be written.
func (c *Config) WriteTimeout() time.Duration {
	adapter := time.Duration(0)
	if c.OCR.Enabled {
		adapter = c.OCR.Timeout
	}
	if c.Speech.Enabled && c.Speech.Timeout > adapter {
		adapter = c.Speech.Timeout
	}
	return max(c.Server.Timeout, adapter+c.Gemini.Timeout+writeMargin)
}

// writeMargin leaves room for classification and encoding the response.
const writeMargin = 5 * time.Second

// APIConfig holds settings for the HTTP API surface.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// GeminiConfig holds settings for the remote recommendation service.
type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	// APIKeyAlias receives GEMINI_API_KEY; API_KEY wins when both are set.
	APIKeyAlias string `koanf:"api_key_alias"`

	Model   string        `koanf:"model"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// Circuit breaker settings.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// ClassifierConfig holds settings for the local genre classifier.
type ClassifierConfig struct {
	ModelPath string `koanf:"model_path"`
	// ReloadInterval is how often the model file is checked for changes.
	// Zero disables hot reload.
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// OCRConfig holds settings for the image-to-text adapter.
type OCRConfig struct {
	Enabled bool `koanf:"enabled"`
	// Backend is "tesseract" (local CLI) or "http" (OCR sidecar).
	Backend  string        `koanf:"backend"`
	Command  string        `koanf:"command"`
	URL      string        `koanf:"url"`
	Language string        `koanf:"language"`
	Timeout  time.Duration `koanf:"timeout"`
}

// SpeechConfig holds settings for the speech-to-text adapter.
type SpeechConfig struct {
	Enabled bool `koanf:"enabled"`
	// Backend is "cli" (whisper.cpp binary) or "http" (whisper.cpp server).
	Backend  string        `koanf:"backend"`
	Command  string        `koanf:"command"`
	Model    string        `koanf:"model"`
	URL      string        `koanf:"url"`
	Language string        `koanf:"language"`
	TempDir  string        `koanf:"temp_dir"`
	Timeout  time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is the output format: json or console.
	Format string `koanf:"format"`
	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// applyAliases resolves settings that can be provided under more than one name.
func (c *Config) applyAliases() {
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = c.Gemini.APIKeyAlias
	}
	c.Gemini.APIKeyAlias = ""
}

// Load reads configuration from defaults, .env, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
