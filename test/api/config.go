/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the public pet store the suite runs against.
	DefaultBaseURL = "https://petstore.swagger.io/v2"

	// ContentTypeJSON is applied to every request that carries a body.
	ContentTypeJSON = "application/json"
)

var ErrInvalidBaseURL = errors.New("invalid base URL")

type TestConfig struct {
	BaseURL           string
	ContentType       string
	RequestTimeout    time.Duration
	LogRequests       bool
	LogResponses      bool
	ValidateResponses bool
	UseFakeStore      bool
	TraceStdout       bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if the resulting configuration is unusable.
func LoadTestConfig() (*TestConfig, error) {
	config := ReadTestConfig()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ReadTestConfig reads the configuration without validating it, so callers
// can apply overrides such as command line flags first.
func ReadTestConfig() *TestConfig {
	loadEnvFile()

	return &TestConfig{
		BaseURL:           getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		ContentType:       ContentTypeJSON,
		RequestTimeout:    getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		LogRequests:       getBoolWithDefault("LOG_REQUESTS", true),
		LogResponses:      getBoolWithDefault("LOG_RESPONSES", true),
		ValidateResponses: getBoolWithDefault("VALIDATE_RESPONSES", false),
		UseFakeStore:      getBoolWithDefault("USE_FAKE_STORE", false),
		TraceStdout:       getBoolWithDefault("TRACE_STDOUT", false),
	}
}

// Validate checks the base URL is an absolute http(s) URL.
func (c *TestConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, c.BaseURL)
	}

	return nil
}

func getStringWithDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	return value
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../../test/.env", // From test/api/suites directory
		"test/.env",          // From the repository root
	}

	var envPath string
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
