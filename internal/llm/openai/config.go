package openai

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/receiptly/receiptly/internal/llm"
)

// PlaceholderAPIKey is the unset-credential sentinel; a key equal to it is
// treated the same as no key at all.
const PlaceholderAPIKey = "your-openai-api-key"

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o"
	Temperature float32       // 0..2
	MaxTokens   int           // completion cap
	Timeout     time.Duration // http client timeout
}

// Configured reports whether a usable credential is present.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	// The compiled schema validator is reused across calls; it only
	// changes when the allowed category set does.
	mu           sync.Mutex
	validator    *llm.SchemaValidator
	validatorKey string
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
