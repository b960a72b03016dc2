package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Provider represents different LLM providers
type Provider string

const (
	ProviderOpenAI           Provider = "openai"
	ProviderOpenAICompatible Provider = "openai-compatible"
	ProviderGemini           Provider = "gemini"
	ProviderClaude           Provider = "claude"
	ProviderOllama           Provider = "ollama"
)

// DefaultTimeout bounds a generation request when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Options tune a single generation request.
type Options struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultOptions returns the options used when the caller passes none.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   1024,
		Temperature: 0.3,
		Timeout:     DefaultTimeout,
	}
}

// ChatMessage represents a chat message
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// GeminiRequest represents Gemini API request format
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

// GeminiContent is one turn in a Gemini conversation.
type GeminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a text fragment of a Gemini turn.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiResponse represents Gemini API response format
type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []GeminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ClaudeRequest represents Claude API request format
type ClaudeRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []ChatMessage `json:"messages"`
}

// ClaudeResponse represents Claude API response format
type ClaudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Client is a text-generation client over one configured provider.
type Client struct {
	provider Provider
	model    string
	apiKey   string
	baseURL  string
	client   *resty.Client
	logger   *logrus.Logger
}

// NewClient creates a new LLM client
func NewClient(provider Provider, model, apiKey, baseURL string, timeout time.Duration) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "codesage/1.0")

	return &Client{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   client,
		logger:   logger,
	}
}

// SetLogLevel sets the logging level
func (c *Client) SetLogLevel(level logrus.Level) {
	c.logger.SetLevel(level)
}

// Provider returns the configured provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends a prompt to the configured provider and returns the
// completion text. Failures come back as *APIError with a classified kind.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	messages := []ChatMessage{{Role: "user", Content: prompt}}

	var text string
	var err error
	switch c.provider {
	case ProviderOpenAI, ProviderOpenAICompatible:
		text, err = c.generateOpenAI(ctx, messages, opts)
	case ProviderGemini:
		text, err = c.generateGemini(ctx, messages)
	case ProviderClaude:
		text, err = c.generateClaude(ctx, messages, opts)
	case ProviderOllama:
		text, err = c.generateOllama(ctx, messages)
	default:
		return "", &APIError{Kind: KindUnknown, Provider: c.provider,
			Message: fmt.Sprintf("unsupported provider: %s", c.provider)}
	}

	if err != nil {
		return "", err
	}
	return text, nil
}

// generateOpenAI handles OpenAI and OpenAI-compatible API requests
func (c *Client) generateOpenAI(ctx context.Context, messages []ChatMessage, opts Options) (string, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	var response ChatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post(baseURL + "/chat/completions")

	if apiErr := c.classifyResponse(resp, err); apiErr != nil {
		return "", apiErr
	}

	if len(response.Choices) == 0 {
		return "", &APIError{Kind: KindUnknown, Provider: c.provider, Message: "no response choices returned"}
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// generateGemini handles Google Gemini API requests
func (c *Client) generateGemini(ctx context.Context, messages []ChatMessage) (string, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	var contents []GeminiContent
	for _, msg := range messages {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, GeminiContent{
			Role:  role,
			Parts: []GeminiPart{{Text: msg.Content}},
		})
	}

	var response GeminiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(GeminiRequest{Contents: contents}).
		SetResult(&response).
		Post(fmt.Sprintf("%s/models/%s:generateContent", baseURL, c.model))

	if apiErr := c.classifyResponse(resp, err); apiErr != nil {
		return "", apiErr
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", &APIError{Kind: KindUnknown, Provider: c.provider, Message: "no response content returned"}
	}

	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}

// generateClaude handles Anthropic Claude API requests
func (c *Client) generateClaude(ctx context.Context, messages []ChatMessage, opts Options) (string, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com/v1"
	}

	request := ClaudeRequest{
		Model:     c.model,
		MaxTokens: opts.MaxTokens,
		Messages:  messages,
	}

	var response ClaudeResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post(baseURL + "/messages")

	if apiErr := c.classifyResponse(resp, err); apiErr != nil {
		return "", apiErr
	}

	if len(response.Content) == 0 {
		return "", &APIError{Kind: KindUnknown, Provider: c.provider, Message: "no response content returned"}
	}

	return strings.TrimSpace(response.Content[0].Text), nil
}

// generateOllama handles Ollama API requests
func (c *Client) generateOllama(ctx context.Context, messages []ChatMessage) (string, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	request := ChatRequest{
		Model:    c.model,
		Messages: messages,
	}

	var response ChatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post(baseURL + "/api/chat")

	if apiErr := c.classifyResponse(resp, err); apiErr != nil {
		return "", apiErr
	}

	if len(response.Choices) == 0 {
		return "", &APIError{Kind: KindUnknown, Provider: c.provider, Message: "no response choices returned"}
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// ValidateConfiguration validates provider setup before any request is made.
func ValidateConfiguration(provider Provider, apiKey, baseURL string) error {
	switch provider {
	case ProviderOpenAI, ProviderGemini, ProviderClaude:
		if apiKey == "" {
			return fmt.Errorf("%s API key is required", provider)
		}
	case ProviderOpenAICompatible:
		if apiKey == "" {
			return fmt.Errorf("API key is required for OpenAI-compatible provider")
		}
		if baseURL == "" {
			return fmt.Errorf("base URL is required for OpenAI-compatible provider")
		}
	case ProviderOllama:
		// Ollama runs locally and needs neither key nor base URL.
	case "":
		return fmt.Errorf("LLM provider must be specified")
	default:
		return fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	return nil
}
