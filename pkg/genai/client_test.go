package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"modkeys-storefront/pkg/config"
)

func newTestClient(srv *httptest.Server, timeout time.Duration) *Client {
	cfg := &config.Config{}
	cfg.GenAI.BaseURL = srv.URL
	cfg.GenAI.Model = "gemini-2.0-flash"
	cfg.GenAI.APIKey = "test-key"
	cfg.GenAI.Timeout = timeout
	return NewClient(Params{Config: cfg})
}

func answer(t *testing.T, text string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGenerateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write(answer(t, `{"color":"green"}`))
	}))
	defer srv.Close()

	var out struct {
		Color string `json:"color"`
	}
	err := newTestClient(srv, 2*time.Second).GenerateJSON(context.Background(),
		[]Part{{Text: "pick a color"}}, &out)
	require.NoError(t, err)
	require.Equal(t, "green", out.Color)
}

func TestGenerateJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv, 50*time.Millisecond).GenerateJSON(context.Background(),
		[]Part{{Text: "slow"}}, &out)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestGenerateJSONNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv, 2*time.Second).GenerateJSON(context.Background(),
		[]Part{{Text: "anything"}}, &out)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestGenerateJSONServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv, 2*time.Second).GenerateJSON(context.Background(),
		[]Part{{Text: "anything"}}, &out)
	require.ErrorContains(t, err, "status 429")
}

func TestGenerateJSONMalformedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(answer(t, "I cannot help with that."))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv, 2*time.Second).GenerateJSON(context.Background(),
		[]Part{{Text: "anything"}}, &out)
	require.ErrorContains(t, err, "malformed model output")
}
