package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"markdown-translator/internal/types"
)

// newMockServer returns a chat-completions server answering every request
// with the given content.
func newMockServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
			t.Errorf("missing bearer token, got %q", got)
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		resp := ChatCompletionResponse{
			Choices: []Choice{{Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"}},
			Usage:   Usage{TotalTokens: 10},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestEngineTranslate(t *testing.T) {
	server := newMockServer(t, "你好，世界")
	defer server.Close()

	engine := NewEngine("test-key")
	engine.SetAPIURL(server.URL)

	got, err := engine.Translate(context.Background(), "Hello, world")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "你好，世界" {
		t.Errorf("Translate = %q, want 你好，世界", got)
	}
}

func TestEngineTranslate_EmptyInput(t *testing.T) {
	engine := NewEngine("test-key")
	got, err := engine.Translate(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "   " {
		t.Errorf("whitespace-only input should pass through, got %q", got)
	}
}

func TestEngineTranslate_MissingAPIKey(t *testing.T) {
	engine := NewEngine("")
	_, err := engine.Translate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrConfig {
		t.Errorf("Code = %s, want %s", appErr.Code, types.ErrConfig)
	}
}

func TestEngineTranslate_AuthFailureNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	engine := NewEngine("bad-key")
	engine.SetAPIURL(server.URL)

	_, err := engine.Translate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("auth failure retried %d times, want 1 call", calls)
	}
}

func TestEngineTranslate_ServerErrorRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		resp := ChatCompletionResponse{
			Choices: []Choice{{Message: Message{Content: "ok"}, FinishReason: "stop"}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	engine := NewEngine("test-key")
	engine.SetAPIURL(server.URL)

	got, err := engine.Translate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "ok" {
		t.Errorf("Translate = %q, want ok", got)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (one retry), got %d", calls)
	}
}

func TestEngineTestConnection(t *testing.T) {
	server := newMockServer(t, "ok")
	defer server.Close()

	engine := NewEngine("test-key")
	engine.SetAPIURL(server.URL)

	if err := engine.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
}

func TestEngineTestConnection_UnexpectedReply(t *testing.T) {
	server := newMockServer(t, "I cannot comply")
	defer server.Close()

	engine := NewEngine("test-key")
	engine.SetAPIURL(server.URL)

	err := engine.TestConnection(context.Background())
	if err == nil {
		t.Fatal("expected error for unexpected model reply")
	}
	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrAPICall {
		t.Errorf("Code = %s, want %s", appErr.Code, types.ErrAPICall)
	}
}

func TestNormalizeAPIURL(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/chat/completions", "https://api.openai.com/v1/chat/completions"},
		{"https://proxy.example.com", "https://proxy.example.com/chat/completions"},
	}

	for _, tc := range testCases {
		if got := normalizeAPIURL(tc.input); got != tc.expected {
			t.Errorf("normalizeAPIURL(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestCleanTranslationResult(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello", "hello"},
		{"surrounding whitespace", "  hello \n", "hello"},
		{"code fence", "```\nhello\n```", "hello"},
		{"code fence with language", "```markdown\nhello\n```", "hello"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanTranslationResult(tc.input); got != tc.expected {
				t.Errorf("cleanTranslationResult(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIsRetryableAPIError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"network", types.NewAppError(types.ErrNetwork, "down", nil), true},
		{"rate limit", types.NewAppError(types.ErrAPIRateLimit, "slow down", nil), true},
		{"server error", types.NewAppErrorWithDetails(types.ErrAPICall, "oops", "status 503: busy", nil), true},
		{"client error", types.NewAppErrorWithDetails(types.ErrAPICall, "oops", "status 400: bad", nil), false},
		{"config", types.NewAppError(types.ErrConfig, "no key", nil), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryableAPIError(tc.err); got != tc.retryable {
				t.Errorf("isRetryableAPIError = %v, want %v", got, tc.retryable)
			}
		})
	}
}
