// Package openai provides a summarizer adapter using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/drivebrief/drivebrief/internal/core/domain"
	"github.com/drivebrief/drivebrief/internal/core/ports/driven"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// DefaultMaxInputChars bounds summarizer input, roughly 3000 tokens.
	DefaultMaxInputChars = 12000
	// DefaultMaxTokens bounds the summary length.
	DefaultMaxTokens = 500
)

const truncationMarker = "...\n[Content truncated]"

const systemPrompt = "You are a helpful assistant that creates concise, " +
	"informative summaries of documents. Focus on extracting key information " +
	"and main ideas."

// Config holds configuration for the OpenAI summarizer.
type Config struct {
	// APIKey is the OpenAI API key.
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// MaxInputChars is the input character budget (default: 12000).
	MaxInputChars int

	// MaxTokens is the summary token budget (default: 500).
	MaxTokens int

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Summarizer condenses document text via the chat completions API.
type Summarizer struct {
	client        *http.Client
	baseURL       string
	apiKey        string
	model         string
	maxInputChars int
	maxTokens     int
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI summarizer. An empty API key is allowed at
// construction so the service can start unconfigured; summarize calls then
// fail with domain.ErrSummaryProvider.
func New(cfg Config) *Summarizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = DefaultMaxInputChars
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Summarizer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		maxInputChars: cfg.MaxInputChars,
		maxTokens:     cfg.MaxTokens,
	}
}

// Summarize sends the text to the chat completions endpoint and returns the
// generated summary. Input beyond the character budget is truncated,
// favoring completeness of the beginning of the document.
func (s *Summarizer) Summarize(ctx context.Context, text, filename string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("openai: api key not configured: %w", domain.ErrSummaryProvider)
	}

	prompt := buildPrompt(truncate(text, s.maxInputChars), filename)

	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: 0.7,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request: %v: %w", err, domain.ErrSummaryProvider)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %v: %w", err, domain.ErrSummaryProvider)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %v: %w", err, domain.ErrSummaryProvider)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s: %w", chatResp.Error.Message, domain.ErrSummaryProvider)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai status %d: %w", resp.StatusCode, domain.ErrSummaryProvider)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned: %w", domain.ErrSummaryProvider)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the model being used.
func (s *Summarizer) ModelName() string {
	return s.model
}

// buildPrompt assembles the summarization prompt, passing the filename for
// context.
func buildPrompt(text, filename string) string {
	if filename == "" {
		filename = "Untitled"
	}
	return fmt.Sprintf(`Please provide a concise summary of the following document.
Focus on the main points, key findings, and important information.

Document: %s

Content:
%s

Summary:`, filename, text)
}

// truncate cuts text to at most max bytes without splitting a rune, and
// appends a marker so the model knows the tail is missing.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}
