package reasoning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestEngine(serverURL string) *GeminiEngine {
	engine := NewGeminiEngine(Config{APIKey: "test-key", Timeout: 5 * time.Second})
	engine.baseURL = serverURL
	return engine
}

func TestGeminiEngine_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.URL.RawQuery, "key=test-key") {
			t.Errorf("Expected API key in query, got %s", r.URL.RawQuery)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"candidates": [
				{
					"content": {
						"parts": [{"text": "AUDIENCE ANALYSIS: eco-conscious urbanites"}],
						"role": "model"
					},
					"finishReason": "STOP"
				}
			]
		}`))
	}))
	defer server.Close()

	engine := newTestEngine(server.URL)

	resp, err := engine.Complete(context.Background(), "analyze this market")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp != "AUDIENCE ANALYSIS: eco-conscious urbanites" {
		t.Errorf("Unexpected response: %q", resp)
	}
}

func TestGeminiEngine_CompleteWithSystem_SendsSystemInstruction(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	engine := newTestEngine(server.URL)

	if _, err := engine.CompleteWithSystem(context.Background(), "You are a strategist.", "plan"); err != nil {
		t.Fatalf("CompleteWithSystem failed: %v", err)
	}

	if captured.SystemInstruction == nil || len(captured.SystemInstruction.Parts) == 0 {
		t.Fatal("Expected systemInstruction in request body")
	}
	if captured.SystemInstruction.Parts[0].Text != "You are a strategist." {
		t.Errorf("Unexpected system text: %q", captured.SystemInstruction.Parts[0].Text)
	}
	if len(captured.Contents) != 1 || captured.Contents[0].Parts[0].Text != "plan" {
		t.Errorf("Unexpected contents: %+v", captured.Contents)
	}
}

func TestGeminiEngine_Complete_RetriesRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"recovered"}]}}]}`))
	}))
	defer server.Close()

	engine := newTestEngine(server.URL)

	resp, err := engine.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
	if resp != "recovered" {
		t.Errorf("Unexpected response: %q", resp)
	}
}

func TestGeminiEngine_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":{"code":400,"message":"invalid model","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	engine := newTestEngine(server.URL)

	_, err := engine.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("Expected API error message, got: %v", err)
	}
}

func TestGeminiEngine_Complete_NoAPIKey(t *testing.T) {
	engine := NewGeminiEngine(Config{})

	_, err := engine.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestGeminiEngine_Complete_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	engine := newTestEngine(server.URL)

	_, err := engine.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected error for empty candidates")
	}
	if !strings.Contains(err.Error(), "no completion") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewGeminiEngine_Defaults(t *testing.T) {
	engine := NewGeminiEngine(Config{APIKey: "k"})

	if engine.Model() != "gemini-2.5-flash" {
		t.Errorf("Expected default model, got %s", engine.Model())
	}
	if engine.baseURL == "" {
		t.Error("Expected default base URL")
	}
	if engine.httpClient.Timeout != 2*time.Minute {
		t.Errorf("Expected default timeout, got %v", engine.httpClient.Timeout)
	}
}
