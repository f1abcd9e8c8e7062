// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/biblioteca/config.yaml",
	"/etc/biblioteca/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultDotEnvPath is read when present; a missing file is not an error.
const defaultDotEnvPath = ".env"

// defaultConfig returns a Config struct with all default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8501,
			Host:            "0.0.0.0",
			Timeout:         90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     30,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Gemini: GeminiConfig{
			Model:               "gemini-1.5-flash-latest",
			BaseURL:             "https://generativelanguage.googleapis.com",
			Timeout:             60 * time.Second,
			RequestsPerSecond:   2,
			Burst:               4,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
			BreakerOpenTimeout:  30 * time.Second,
		},
		Classifier: ClassifierConfig{
			ModelPath:      "modelo_libros.json",
			ReloadInterval: 0,
		},
		OCR: OCRConfig{
			Enabled:  true,
			Backend:  "tesseract",
			Command:  "tesseract",
			Language: "spa",
			Timeout:  60 * time.Second,
		},
		Speech: SpeechConfig{
			Enabled:  true,
			Backend:  "cli",
			Command:  "whisper-cli",
			Model:    "models/ggml-base.bin",
			Language: "es",
			Timeout:  5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: .env file (optional), keys go through the same env mapping
	if dotEnvPath := findDotEnvFile(); dotEnvPath != "" {
		if err := loadDotEnv(k, dotEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", dotEnvPath, err)
		}
	}

	// Layer 3: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 4: environment variables (highest priority)
	if err := k.Load(env.ProviderWithValue("", ".", envTransformValueFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyAliases()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv parses a .env file and merges the mapped keys into k.
func loadDotEnv(k *koanf.Koanf, path string) error {
	raw := koanf.New(".")
	if err := raw.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return err
	}

	for key, val := range raw.All() {
		target, value := envTransformValueFunc(key, fmt.Sprint(val))
		if target == "" {
			continue
		}
		if err := k.Set(target, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", target, err)
		}
	}
	return nil
}

// findDotEnvFile returns the .env path to load, or "" when there is none.
func findDotEnvFile() string {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = defaultDotEnvPath
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// findConfigFile searches for a config file in the default locations.
// Returns the path if found, or empty string if no config file exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths that arrive as comma-separated strings from env.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"max_upload_bytes":      "server.max_upload_bytes",

	// API
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",

	// Gemini (API_KEY is the historical name of the credential)
	"api_key":                      "gemini.api_key",
	"gemini_api_key":               "gemini.api_key_alias",
	"gemini_model":                 "gemini.model",
	"gemini_base_url":              "gemini.base_url",
	"gemini_timeout":               "gemini.timeout",
	"gemini_requests_per_second":   "gemini.requests_per_second",
	"gemini_burst":                 "gemini.burst",
	"gemini_breaker_min_requests":  "gemini.breaker_min_requests",
	"gemini_breaker_failure_ratio": "gemini.breaker_failure_ratio",
	"gemini_breaker_open_timeout":  "gemini.breaker_open_timeout",

	// Classifier
	"model_path":            "classifier.model_path",
	"model_reload_interval": "classifier.reload_interval",

	// OCR
	"ocr_enabled":  "ocr.enabled",
	"ocr_backend":  "ocr.backend",
	"ocr_command":  "ocr.command",
	"ocr_url":      "ocr.url",
	"ocr_language": "ocr.language",
	"ocr_timeout":  "ocr.timeout",

	// Speech
	"speech_enabled":  "speech.enabled",
	"speech_backend":  "speech.backend",
	"speech_command":  "speech.command",
	"speech_model":    "speech.model",
	"speech_url":      "speech.url",
	"speech_language": "speech.language",
	"speech_temp_dir": "speech.temp_dir",
	"speech_timeout":  "speech.timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - API_KEY -> gemini.api_key
//   - HTTP_PORT -> server.port
//   - MODEL_PATH -> classifier.model_path
//
// Unmapped variables return "" and are skipped so that unrelated
// environment does not pollute the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// envTransformValueFunc maps an environment variable to its koanf path and
// drops empty values so that an exported but blank variable does not
// override a default or a config file entry.
func envTransformValueFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envTransformFunc(key), value
}
