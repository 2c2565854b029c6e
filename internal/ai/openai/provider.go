// Package openai provides an OpenAI-compatible AI provider.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chazuruo/launchdeck/internal/ai"
	"github.com/chazuruo/launchdeck/internal/apps"
)

const defaultBaseURL = "https://api.openai.com/v1"

const chatSystemPrompt = `You are the assistant of launchdeck, an app launcher.
The user can type "open <app>", "close <app>", "list apps", "list workflows" or
"start workflow <name>" to control their apps directly. Answer other questions
briefly and helpfully. When the user seems to want an app opened, tell them the
exact command to type.`

const recommendSystemPrompt = `You recommend web applications and desktop tools.
Reply with a JSON array only. Each element is an object with the keys
"name", "url", "category" and "description". Do not recommend apps the user
already has.`

// Provider is an OpenAI-compatible AI provider.
type Provider struct {
	config *ai.Config
	client *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// NewProvider creates a new OpenAI-compatible provider.
func NewProvider(cfg *ai.Config, opts ...Option) (*Provider, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	// Get API key from config or environment
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("no API key: set OPENAI_API_KEY or ai.api_key_env")
	}

	p := &Provider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	if p.config.Provider == "ollama" {
		return "ollama"
	}
	if p.config.BaseURL != "" {
		return "openai-compatible"
	}
	return "openai"
}

// Chat answers a free-form message.
func (p *Provider) Chat(ctx context.Context, req ai.ChatRequest) (string, error) {
	system := chatSystemPrompt
	if len(req.Apps) > 0 {
		system += "\n\nThe user's apps: " + appNames(req.Apps) + "."
	}

	msgs := []message{{Role: "system", Content: system}}
	for _, m := range req.History {
		msgs = append(msgs, message{Role: m.Role, Content: p.redact(m.Content)})
	}
	msgs = append(msgs, message{Role: "user", Content: p.redact(req.Message)})

	response, err := p.callAPI(ctx, msgs)
	if err != nil {
		return "", &ai.ProviderError{
			Provider: p.Name(),
			Message:  "failed to get chat reply",
			Cause:    err,
		}
	}
	return strings.TrimSpace(response), nil
}

// Recommend asks the model for apps the user does not have yet.
func (p *Provider) Recommend(ctx context.Context, req ai.RecommendRequest) ([]ai.Recommendation, error) {
	count := req.Count
	if count <= 0 {
		count = ai.DefaultRecommendations
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Recommend %d apps.", count)
	if len(req.Apps) > 0 {
		fmt.Fprintf(&user, "\nI already use: %s.", appNames(req.Apps))
	}
	if req.Interests != "" {
		fmt.Fprintf(&user, "\nI am interested in: %s.", p.redact(req.Interests))
	}

	response, err := p.callAPI(ctx, []message{
		{Role: "system", Content: recommendSystemPrompt},
		{Role: "user", Content: user.String()},
	})
	if err != nil {
		return nil, &ai.ProviderError{
			Provider: p.Name(),
			Message:  "failed to get recommendations",
			Cause:    err,
		}
	}

	recs, err := ai.ParseRecommendations(response, req.Apps)
	if err != nil {
		return nil, &ai.ProviderError{
			Provider: p.Name(),
			Message:  "failed to parse recommendations",
			Cause:    err,
		}
	}
	if len(recs) > count {
		recs = recs[:count]
	}
	return recs, nil
}

func (p *Provider) redact(s string) string {
	if p.config.Redact {
		return ai.Redact(s)
	}
	return s
}

func appNames(records []apps.AppRecord) string {
	names := make([]string, len(records))
	for i, a := range records {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// chatRequest represents a chat API request.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// message represents a chat message.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents a chat API response.
type chatResponse struct {
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

// choice represents a choice in the response.
type choice struct {
	Message message `json:"message"`
}

// apiError represents an API error.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// callAPI makes a chat completion API call.
func (p *Provider) callAPI(ctx context.Context, msgs []message) (string, error) {
	baseURL := strings.TrimRight(p.config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	jsonData, err := json.Marshal(chatRequest{
		Model:       p.config.Model,
		Messages:    msgs,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func init() {
	ai.RegisterProvider("openai", func(cfg *ai.Config) (ai.Provider, error) {
		return NewProvider(cfg)
	})
	ai.RegisterProvider("ollama", func(cfg *ai.Config) (ai.Provider, error) {
		if cfg == nil {
			cfg = ai.DefaultConfig()
		}
		cfg.Provider = "ollama"
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		return NewProvider(cfg)
	})
}
