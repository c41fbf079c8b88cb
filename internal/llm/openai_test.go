package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, status int, body string, seen *capturedRequest, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Complete(t *testing.T) {
	var seen capturedRequest
	var hits int32
	srv := newTestServer(t, http.StatusOK, completionBody("1. How does it taste?"), &seen, &hits)

	client := NewOpenAIClient(OpenAIConfig{
		Model:       "gpt-4",
		Temperature: 0.7,
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/",
		Timeout:     5 * time.Second,
	})

	out, err := client.Complete(context.Background(), Request{System: "be brief", User: "ask me"})
	require.NoError(t, err)
	assert.Equal(t, "1. How does it taste?", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	assert.Equal(t, "gpt-4", seen.Model)
	assert.InDelta(t, 0.7, seen.Temperature, 1e-9)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "be brief", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "ask me", seen.Messages[1].Content)
}

func TestOpenAIClient_NoSystemMessage(t *testing.T) {
	var seen capturedRequest
	var hits int32
	srv := newTestServer(t, http.StatusOK, completionBody("ok"), &seen, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := client.Complete(context.Background(), Request{User: "hello"})
	require.NoError(t, err)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
}

func TestOpenAIClient_ServerErrorIsNotRetried(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := client.Complete(context.Background(), Request{User: "hello"})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "gpt-4", reqErr.Model)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "requests must be attempted once")
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	var hits int32
	body := `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4","choices":[]}`
	srv := newTestServer(t, http.StatusOK, body, nil, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := client.Complete(context.Background(), Request{User: "hello"})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenAIClient_EmptyContent(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, completionBody("   "), nil, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := client.Complete(context.Background(), Request{User: "hello"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_EmptyPrompt(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, completionBody("ok"), nil, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	_, err := client.Complete(context.Background(), Request{System: "only system"})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestOpenAIClient_ContextCancelled(t *testing.T) {
	var hits int32
	srv := newTestServer(t, http.StatusOK, completionBody("ok"), nil, &hits)

	client := NewOpenAIClient(OpenAIConfig{Model: "gpt-4", APIKey: "k", BaseURL: srv.URL + "/"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, Request{User: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockClient_RecordsCalls(t *testing.T) {
	mock := &MockClient{
		CompleteFunc: func(ctx context.Context, req Request) (string, error) {
			return "echo: " + req.User, nil
		},
	}

	out, err := mock.Complete(context.Background(), Request{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
	require.Len(t, mock.Calls(), 1)
	assert.Equal(t, "hi", mock.Calls()[0].User)
}

func TestMockClient_DefaultIsEmpty(t *testing.T) {
	mock := &MockClient{}
	out, err := mock.Complete(context.Background(), Request{User: "hi"})
	require.NoError(t, err)
	assert.Empty(t, out)
}
