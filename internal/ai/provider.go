// Package ai provides the chat assistant and app recommendation providers.
package ai

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/config"
)

// Provider is an AI provider that can chat and recommend apps.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Chat answers a free-form message from the user.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// Recommend suggests apps the user does not have yet.
	Recommend(ctx context.Context, req RecommendRequest) ([]Recommendation, error)
}

// Message is one turn of a conversation.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatRequest contains parameters for a chat turn.
type ChatRequest struct {
	// Message is the user's latest message.
	Message string

	// History holds earlier turns, oldest first.
	History []Message

	// Apps gives the assistant the user's catalog for context.
	Apps []apps.AppRecord
}

// RecommendRequest contains parameters for recommendations.
type RecommendRequest struct {
	// Apps is the user's current catalog.
	Apps []apps.AppRecord

	// Interests is an optional free-text hint ("design", "video editing").
	Interests string

	// Count is how many recommendations to ask for (0 for the default).
	Count int
}

// Recommendation is an app suggested by the provider.
type Recommendation struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// AppRecord converts the recommendation into a catalog entry.
func (r Recommendation) AppRecord() apps.AppRecord {
	return apps.AppRecord{
		Name:        r.Name,
		URL:         r.URL,
		Category:    r.Category,
		Description: r.Description,
	}
}

// DefaultRecommendations is the Count used when a request leaves it at 0.
const DefaultRecommendations = 5

// Config contains provider configuration.
type Config struct {
	// Provider is the provider name (openai, ollama, etc.).
	Provider string

	// APIKey is the API key for the provider.
	APIKey string

	// BaseURL is the base URL for the API (for Ollama or custom endpoints).
	BaseURL string

	// Model is the model to use.
	Model string

	// Temperature controls randomness (0.0 to 1.0).
	Temperature float64

	// MaxTokens is the maximum tokens to generate.
	MaxTokens int

	// Redact scrubs secrets from outgoing text.
	Redact bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   1000,
		Redact:      true,
	}
}

// FromConfig builds a provider Config from the [ai] config section. The API
// key is read from the environment variable named by cfg.APIKeyEnv.
func FromConfig(cfg config.AIConfig) *Config {
	c := DefaultConfig()
	if cfg.Provider != "" {
		c.Provider = cfg.Provider
	}
	if cfg.Model != "" {
		c.Model = cfg.Model
	}
	c.BaseURL = cfg.BaseURL
	if cfg.APIKeyEnv != "" {
		c.APIKey = os.Getenv(cfg.APIKeyEnv)
	}
	c.Redact = cfg.Redact != "none"
	return c
}

// Factory creates a provider from configuration.
type Factory func(cfg *Config) (Provider, error)

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Factory)
)

// RegisterProvider registers a provider factory.
func RegisterProvider(name string, factory Factory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider creates a provider from configuration.
func NewProvider(cfg *Config) (Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	return factory(cfg)
}

// ProviderError is an error from the provider.
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}
