package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrAPIBaseURLRequired      = errors.New("console config: api base url is required")
	ErrAPIBaseURLInvalid       = errors.New("console config: api base url must be an absolute http(s) url")
	ErrAPITimeoutInvalid       = errors.New("console config: api timeout must be zero or positive")
	ErrCommandTimeoutInvalid   = errors.New("console config: command timeout must be zero or positive")
	ErrLoggingProviderRequired = errors.New("console config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("console config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("console config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("console config: logging format is invalid")
)

// Config aggregates the runtime settings of the console.
type Config struct {
	API        APIConfig
	Forms      FormsConfig
	Navigation NavigationConfig
	Guard      GuardConfig
	Commands   CommandsConfig
	Features   Features
	Logging    LoggingConfig
}

// APIConfig points the remote adapter at the console backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// FormsConfig captures form compilation behaviour.
type FormsConfig struct {
	StrictKeys bool
}

// NavigationConfig captures route URL generation.
type NavigationConfig struct {
	BaseURL string
}

// GuardConfig captures async operation defaults.
type GuardConfig struct {
	ErrorMessage string
}

// CommandsConfig captures command handler behaviour.
type CommandsConfig struct {
	Timeout time.Duration
}

// Features toggles console functionality.
type Features struct {
	Submissions bool
	Logger      bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns defaults for a console talking to a local backend.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 15 * time.Second,
			Headers: map[string]string{},
		},
		Guard: GuardConfig{
			ErrorMessage: "An error occurred",
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Features: Features{
			Submissions: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return ErrAPIBaseURLRequired
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: %s", ErrAPIBaseURLInvalid, base)
	}
	if cfg.API.Timeout < 0 {
		return ErrAPITimeoutInvalid
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizedLoggingProvider returns the lower-cased provider name.
func (cfg Config) NormalizedLoggingProvider() string {
	return normalizeProvider(cfg.Logging.Provider)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
