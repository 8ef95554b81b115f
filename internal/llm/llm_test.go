package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLLMConfig(t *testing.T) {
	config := DefaultLLMConfig()

	assert.Equal(t, ProviderGroq, config.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", config.Model)
	assert.Equal(t, GroqBaseURL, config.BaseURL)
	assert.InDelta(t, 0.7, config.Temperature, 1e-6)
	assert.Equal(t, 1024, config.MaxTokens)
	assert.Empty(t, config.APIKey)
}

func TestLLMConfig_ResolveBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		config LLMConfig
		want   string
	}{
		{"groq default", LLMConfig{Provider: ProviderGroq}, GroqBaseURL},
		{"empty provider", LLMConfig{}, GroqBaseURL},
		{"deepseek", LLMConfig{Provider: ProviderDeepSeek}, DeepSeekBaseURL},
		{"openai uses sdk default", LLMConfig{Provider: ProviderOpenAI}, ""},
		{"explicit override", LLMConfig{Provider: ProviderGroq, BaseURL: "http://localhost:8000/v1"}, "http://localhost:8000/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.ResolveBaseURL())
		})
	}
}

func TestNewOpenAILLM_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  LLMConfig
		wantErr error
	}{
		{
			name:    "missing credential",
			config:  LLMConfig{Provider: ProviderGroq, Model: "m"},
			wantErr: ErrMissingCredential,
		},
		{
			name:    "missing model",
			config:  LLMConfig{Provider: ProviderGroq, APIKey: "k"},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unknown provider without base url",
			config:  LLMConfig{Provider: "vllm", Model: "m", APIKey: "k"},
			wantErr: ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpenAILLM(tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	client, err := NewOpenAILLM(LLMConfig{Provider: "vllm", Model: "m", APIKey: "k", BaseURL: "http://localhost:8000/v1"})
	require.NoError(t, err)
	assert.Equal(t, "m", client.Model())
}

func newCompletionServer(t *testing.T, status int, body string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestOpenAILLM_Generate(t *testing.T) {
	var seen chatRequest
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "llama-3.3-70b-versatile",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Remote work is here to stay."}}]
	}`, &seen)

	config := DefaultLLMConfig()
	config.APIKey = "test-key"
	config.BaseURL = srv.URL
	client, err := NewOpenAILLM(config)
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "Write about remote work")
	require.NoError(t, err)
	assert.Equal(t, "Remote work is here to stay.", text)

	assert.Equal(t, "llama-3.3-70b-versatile", seen.Model)
	assert.Equal(t, 1024, seen.MaxTokens)
	assert.InDelta(t, 0.7, seen.Temperature, 1e-6)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "Write about remote work", seen.Messages[0].Content)
}

func TestOpenAILLM_Generate_Failures(t *testing.T) {
	t.Run("empty choices", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`, nil)
		client, err := NewOpenAILLM(LLMConfig{Provider: ProviderGroq, Model: "m", APIKey: "test-key", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = client.Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrLLMFailed)
	})

	t.Run("upstream rejects request", func(t *testing.T) {
		srv := newCompletionServer(t, http.StatusBadRequest, `{"error":{"message":"bad model","type":"invalid_request_error"}}`, nil)
		client, err := NewOpenAILLM(LLMConfig{Provider: ProviderGroq, Model: "m", APIKey: "test-key", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = client.Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrLLMFailed)
	})

	t.Run("empty prompt", func(t *testing.T) {
		client, err := NewOpenAILLM(LLMConfig{Provider: ProviderGroq, Model: "m", APIKey: "test-key"})
		require.NoError(t, err)

		_, err = client.Generate(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestMockLLM_Generate(t *testing.T) {
	tests := []struct {
		name     string
		mock     *MockLLM
		prompt   string
		wantErr  bool
		wantText string
	}{
		{
			name:     "fixed response",
			mock:     NewMockLLM("Fixed post text"),
			prompt:   "Any prompt",
			wantText: "Fixed post text",
		},
		{
			name:    "error response",
			mock:    NewMockLLMWithError(errors.New("mock error")),
			prompt:  "Any prompt",
			wantErr: true,
		},
		{
			name: "responder",
			mock: NewMockLLMFunc(func(p string) (string, error) {
				return strings.ToUpper(p), nil
			}),
			prompt:   "shout",
			wantText: "SHOUT",
		},
		{
			name:     "auto-generated response",
			mock:     &MockLLM{},
			prompt:   "Write a professional LinkedIn post about: remote work\nKeep it short.",
			wantText: "remote work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.mock.Generate(context.Background(), tt.prompt)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, text, tt.wantText)
			assert.Equal(t, tt.prompt, tt.mock.LastPrompt())
			assert.Equal(t, 1, tt.mock.Calls())
		})
	}
}

func TestMockLLM_FailOnCall(t *testing.T) {
	boom := errors.New("quota exceeded")
	mock := &MockLLM{Response: "ok", Error: boom, FailOnCall: 2}

	ctx := context.Background()
	_, err := mock.Generate(ctx, "first")
	require.NoError(t, err)
	_, err = mock.Generate(ctx, "second")
	require.ErrorIs(t, err, boom)
	_, err = mock.Generate(ctx, "third")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, mock.Prompts())
}

func TestMockLLM_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockLLM("x").Generate(ctx, "p")
	assert.ErrorIs(t, err, ErrLLMFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockLLM_Concurrent(t *testing.T) {
	mock := NewMockLLM("ok")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mock.Generate(context.Background(), "p")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, mock.Calls())
}
