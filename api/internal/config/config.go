package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lpernett/godotenv"
)

type Config struct {
	Host string
	Port string

	GeminiAPIKey string
	GeminiModel  string

	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32

	UploadDir       string
	UpstreamTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set win over the file.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

func getEnv(getenv func(string) string, k, def string) string {
	if v := strings.TrimSpace(getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Malformed numbers are
// reported here; missing credentials are left to Validate.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Host: getEnv(getenv, "HOST", "localhost"),
		Port: getEnv(getenv, "PORT", "8000"),

		GeminiAPIKey: strings.TrimSpace(getenv("GEMINI_API_KEY")),
		GeminiModel:  getEnv(getenv, "GEMINI_MODEL", "gemini-1.5-pro"),

		UploadDir: getEnv(getenv, "UPLOAD_DIR", os.TempDir()),

		LogLevel:  strings.ToLower(getEnv(getenv, "LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv(getenv, "LOG_FORMAT", "json")),
	}

	var errs []error

	temperature, err := strconv.ParseFloat(getEnv(getenv, "GEMINI_TEMPERATURE", "1"), 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("GEMINI_TEMPERATURE: %w", err))
	}
	cfg.Temperature = float32(temperature)

	topP, err := strconv.ParseFloat(getEnv(getenv, "GEMINI_TOP_P", "0.95"), 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("GEMINI_TOP_P: %w", err))
	}
	cfg.TopP = float32(topP)

	topK, err := strconv.ParseInt(getEnv(getenv, "GEMINI_TOP_K", "40"), 10, 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("GEMINI_TOP_K: %w", err))
	}
	cfg.TopK = int32(topK)

	maxTokens, err := strconv.ParseInt(getEnv(getenv, "GEMINI_MAX_OUTPUT_TOKENS", "8192"), 10, 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS: %w", err))
	}
	cfg.MaxOutputTokens = int32(maxTokens)

	if ts := getEnv(getenv, "UPSTREAM_TIMEOUT", ""); ts != "" {
		// bare integers are seconds, as in the X-Request-Timeout convention
		if v, err := strconv.Atoi(ts); err == nil {
			cfg.UpstreamTimeout = time.Duration(v) * time.Second
		} else if d, err := time.ParseDuration(ts); err == nil {
			cfg.UpstreamTimeout = d
		} else {
			errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT: %q is neither seconds nor a duration", ts))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address built from Host and Port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("missing required env GEMINI_API_KEY"))
	}
	if c.GeminiModel == "" {
		errs = append(errs, errors.New("GEMINI_MODEL is empty"))
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("GEMINI_TEMPERATURE must be within [0, 2], got %v", c.Temperature))
	}
	if c.TopP < 0 || c.TopP > 1 {
		errs = append(errs, fmt.Errorf("GEMINI_TOP_P must be within [0, 1], got %v", c.TopP))
	}
	if c.TopK < 1 {
		errs = append(errs, fmt.Errorf("GEMINI_TOP_K must be positive, got %d", c.TopK))
	}
	if c.MaxOutputTokens < 1 {
		errs = append(errs, fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS must be positive, got %d", c.MaxOutputTokens))
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %v", c.UpstreamTimeout))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
