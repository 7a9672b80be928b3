package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	HTTPAddr       string
	LogLevel       string
	RequestTimeout time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	LLMProvider    string
	Gemini         GeminiConfig
	OpenRouter     OpenRouterConfig
	Outreach       OutreachConfig
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// OutreachConfig holds fallbacks used when a request omits sender details.
type OutreachConfig struct {
	DefaultSenderRole string
	DefaultDemoSite   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables that are already set win.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	writeTimeout, err := parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	cfg.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	cfg.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))
	switch cfg.LLMProvider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return Config{}, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}

	cfg.Gemini = GeminiConfig{
		APIKey:  getEnv("GEMINI_API_KEY", ""),
		Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BaseURL: getEnv("GEMINI_BASE_URL", ""),
	}

	cfg.OpenRouter = OpenRouterConfig{
		APIKey:       getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultModel: getEnv("OPENROUTER_DEFAULT_MODEL", "google/gemini-2.5-flash"),
	}

	cfg.Outreach = OutreachConfig{
		DefaultSenderRole: getEnv("DEFAULT_SENDER_ROLE", "a freelance web developer"),
		DefaultDemoSite:   getEnv("DEFAULT_DEMO_SITE", ""),
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}
