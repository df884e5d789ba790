package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

const (
	// DefaultModel is the default OpenAI model to use for translation
	DefaultModel = "gpt-4o"
	// DefaultTimeout is the default HTTP client timeout for API calls
	DefaultTimeout = 120 * time.Second
	// MaxRetries is the maximum number of retry attempts for API errors
	MaxRetries = 2
	// BaseRetryDelay is the base delay between retries
	BaseRetryDelay = 2 * time.Second
	// OpenAIAPIURL is the OpenAI chat completions API endpoint
	OpenAIAPIURL = "https://api.openai.com/v1/chat/completions"
)

// Engine translates text through an OpenAI-compatible chat completions API.
type Engine struct {
	apiKey     string
	client     *http.Client
	model      string
	apiURL     string
	targetLang string
}

// NewEngine creates a new Engine with the specified API key and default
// model, endpoint and target language.
func NewEngine(apiKey string) *Engine {
	return &Engine{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		model:      DefaultModel,
		apiURL:     OpenAIAPIURL,
		targetLang: "Chinese",
	}
}

// NewEngineWithConfig creates a new Engine with full configuration.
func NewEngineWithConfig(apiKey, model, apiURL, targetLang string, timeout time.Duration) *Engine {
	if model == "" {
		model = DefaultModel
	}
	if apiURL == "" {
		apiURL = OpenAIAPIURL
	} else {
		apiURL = normalizeAPIURL(apiURL)
	}
	if targetLang == "" {
		targetLang = "Chinese"
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		apiKey: apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		model:      model,
		apiURL:     apiURL,
		targetLang: targetLang,
	}
}

// normalizeAPIURL ensures the API URL ends with /chat/completions.
func normalizeAPIURL(url string) string {
	url = strings.TrimSuffix(url, "/")

	if strings.HasSuffix(url, "/chat/completions") {
		return url
	}

	result := url + "/chat/completions"
	logger.Debug("API URL normalized", logger.String("original", url), logger.String("normalized", result))
	return result
}

// GetModel returns the model used by the engine.
func (e *Engine) GetModel() string {
	return e.model
}

// SetAPIURL sets the API URL (useful for testing with mock servers).
func (e *Engine) SetAPIURL(url string) {
	e.apiURL = url
}

// ChatCompletionRequest represents the request body for the chat completions API.
type ChatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// Message represents a message in the chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the response from the chat completions API.
type ChatCompletionResponse struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	Model   string    `json:"model"`
	Choices []Choice  `json:"choices"`
	Usage   Usage     `json:"usage"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice represents a choice in the chat completion response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError represents an error response from the API.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// TestConnection sends a minimal chat request to verify the endpoint,
// key and model are usable before starting a long translation run.
func (e *Engine) TestConnection(ctx context.Context) error {
	logger.Info("testing API connection", logger.String("apiURL", e.apiURL), logger.String("model", e.model))

	if e.apiKey == "" {
		return types.NewAppError(types.ErrConfig, "OpenAI API key is not configured", nil)
	}

	reqBody := ChatCompletionRequest{
		Model: e.model,
		Messages: []Message{
			{Role: "user", Content: "Reply with only the word 'ok', nothing else."},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to marshal test request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to create HTTP request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return types.NewAppError(types.ErrNetwork, "API connection failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.NewAppError(types.ErrNetwork, "failed to read API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return handleAPIHTTPError(resp.StatusCode, body)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return types.NewAppError(types.ErrAPICall, "failed to parse API response", err)
	}
	if chatResp.Error != nil {
		return types.NewAppErrorWithDetails(types.ErrAPICall, "API returned error", chatResp.Error.Message, nil)
	}
	if len(chatResp.Choices) == 0 {
		return types.NewAppError(types.ErrAPICall, "API returned no choices", nil)
	}

	reply := strings.ToLower(strings.TrimSpace(chatResp.Choices[0].Message.Content))
	if !strings.Contains(reply, "ok") {
		return types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"model returned an unexpected test response",
			fmt.Sprintf("expected 'ok', got: %s", reply),
			nil,
		)
	}

	logger.Info("API connection test successful")
	return nil
}

// Translate translates a single piece of text with retry for transient
// errors. It implements the Translator interface.
func (e *Engine) Translate(ctx context.Context, text string) (string, error) {
	if e.apiKey == "" {
		return "", types.NewAppError(types.ErrConfig, "OpenAI API key is not configured", nil)
	}

	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		translated, err := e.doTranslate(ctx, text)
		if err == nil {
			return translated, nil
		}

		lastErr = err
		logger.Warn("translation attempt failed", logger.Int("attempt", attempt), logger.Err(err))

		if !isRetryableAPIError(err) {
			return "", err
		}

		if attempt < MaxRetries {
			delay := BaseRetryDelay * time.Duration(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", types.NewAppError(types.ErrAPICall, "translation canceled", ctx.Err())
			}
		}
	}

	logger.Error("translation failed after all retries", lastErr, logger.Int("maxRetries", MaxRetries))
	return "", types.NewAppErrorWithDetails(
		types.ErrAPICall,
		"translation failed after multiple retries",
		fmt.Sprintf("attempted %d times", MaxRetries),
		lastErr,
	)
}

// doTranslate performs the actual API call.
func (e *Engine) doTranslate(ctx context.Context, text string) (string, error) {
	logger.Debug("calling chat completions API", logger.String("model", e.model), logger.Int("textLength", len(text)))

	// Translation typically expands text; size the output cap from the
	// input and keep it within API limits.
	estimatedOutputTokens := len(text) / 2 * 3 / 2
	if estimatedOutputTokens < 512 {
		estimatedOutputTokens = 512
	}
	if estimatedOutputTokens > 8192 {
		estimatedOutputTokens = 8192
	}

	reqBody := ChatCompletionRequest{
		Model: e.model,
		Messages: []Message{
			{Role: "system", Content: buildSystemPrompt(e.targetLang)},
			{Role: "user", Content: buildUserPrompt(text)},
		},
		MaxTokens: estimatedOutputTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to marshal request body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create HTTP request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "failed to read API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("API returned error status", nil, logger.Int("statusCode", resp.StatusCode))
		return "", handleAPIHTTPError(resp.StatusCode, body)
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", types.NewAppError(types.ErrAPICall, "failed to parse API response", err)
	}

	if chatResp.Error != nil {
		return "", types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"API returned error",
			chatResp.Error.Message,
			nil,
		)
	}

	if len(chatResp.Choices) == 0 {
		return "", types.NewAppError(types.ErrAPICall, "API returned no choices", nil)
	}

	if chatResp.Choices[0].FinishReason == "length" {
		logger.Warn("translation output was truncated due to length limit",
			logger.Int("completionTokens", chatResp.Usage.CompletionTokens),
			logger.Int("inputLength", len(text)))
	}

	translated := cleanTranslationResult(chatResp.Choices[0].Message.Content)
	logger.Debug("API call successful", logger.Int("tokensUsed", chatResp.Usage.TotalTokens))
	return translated, nil
}

// buildSystemPrompt creates the system prompt for the translation task.
func buildSystemPrompt(targetLang string) string {
	return fmt.Sprintf(`You are a professional translator for technical documents.
Translate the user's text to %s.

RULES:
1. Translate ONLY natural language text; keep the meaning and register of the original.
2. Placeholder tokens of the form __IMG_PLACEHOLDER_N__ or __TERM_N__ must be copied EXACTLY, character by character. Never translate, modify, reorder or drop a placeholder.
3. Preserve markdown image references ![alt](src) verbatim if any appear.
4. Keep the line and paragraph structure of the input.
5. Output only the translated text. No explanations, no labels, no code fences.`, targetLang)
}

// buildUserPrompt creates the user prompt with the content to translate.
func buildUserPrompt(text string) string {
	return fmt.Sprintf(`Translate the following text. Copy every placeholder token exactly as shown.

%s`, text)
}

// cleanTranslationResult strips formatting artifacts some models wrap
// around their output.
func cleanTranslationResult(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		// Drop an optional language tag on the fence line.
		if idx := strings.Index(trimmed, "\n"); idx != -1 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}

// handleAPIHTTPError creates an appropriate AppError based on the HTTP
// status code and response body.
func handleAPIHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	errorDetails := ""
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		errorDetails = errResp.Error.Message
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"API authentication failed",
			"invalid API key or unauthorized access",
			nil,
		)
	case http.StatusTooManyRequests:
		return types.NewAppErrorWithDetails(
			types.ErrAPIRateLimit,
			"API rate limit exceeded",
			errorDetails,
			nil,
		)
	case http.StatusBadRequest:
		return types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"invalid API request",
			errorDetails,
			nil,
		)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"API server error",
			fmt.Sprintf("status %d: %s", statusCode, errorDetails),
			nil,
		)
	default:
		return types.NewAppErrorWithDetails(
			types.ErrAPICall,
			"API request failed",
			fmt.Sprintf("status %d: %s", statusCode, errorDetails),
			nil,
		)
	}
}

// isRetryableAPIError determines if an error should trigger a retry.
func isRetryableAPIError(err error) bool {
	if err == nil {
		return false
	}

	if appErr, ok := err.(*types.AppError); ok {
		switch appErr.Code {
		case types.ErrNetwork:
			return true
		case types.ErrAPIRateLimit:
			return true
		case types.ErrAPICall:
			// Retry on server errors, but not on client errors
			if strings.Contains(appErr.Details, "status 5") {
				return true
			}
			return false
		default:
			return false
		}
	}

	return false
}
