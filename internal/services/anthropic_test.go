package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asperstar/worldbuilder/pkg/chat"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-3-5-sonnet-20241022"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}

	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_Available(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	if !NewAnthropicService("key", "model", log).Available() {
		t.Error("Expected service with key to be available")
	}
	if NewAnthropicService("", "model", log).Available() {
		t.Error("Expected service without key to be unavailable")
	}
}

func TestAnthropicService_GenerateResponse(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotReq AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version header, got %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		resp := AnthropicChatResponse{
			Content: []AnthropicContentBlock{
				{Type: "text", Text: "The void "},
				{Type: "text", Text: "whispers back."},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	service := NewAnthropicService("test-key", "claude-3-5-sonnet-20241022", log)
	service.baseURL = server.URL

	text, err := service.GenerateResponse(context.Background(), &GenerateRequest{
		SystemPrompt: "You are Cipher.",
		UserMessage:  "What do you hear?",
		Messages: []chat.ChatMessage{
			{Role: chat.ChatRoleSystem, Content: "ignored inline"},
			{Role: chat.ChatRoleUser, Content: "hello"},
			{Role: chat.ChatRoleAssistant, Content: "hi"},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "The void whispers back." {
		t.Errorf("Expected concatenated content blocks, got %q", text)
	}

	if gotReq.System != "You are Cipher." {
		t.Errorf("Expected system prompt at top level, got %q", gotReq.System)
	}
	if len(gotReq.Messages) != 3 {
		t.Fatalf("Expected 3 messages (system filtered, user appended), got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[2].Content != "What do you hear?" {
		t.Errorf("Expected user message appended last, got %q", gotReq.Messages[2].Content)
	}
	if gotReq.MaxTokens != DefaultMaxTokens {
		t.Errorf("Expected default max tokens %d, got %d", DefaultMaxTokens, gotReq.MaxTokens)
	}
}

func TestAnthropicService_GenerateResponse_APIError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	service := NewAnthropicService("test-key", "claude-3-5-sonnet-20241022", log)
	service.baseURL = server.URL

	_, err := service.GenerateResponse(context.Background(), &GenerateRequest{
		UserMessage: "hello",
	})
	if err == nil {
		t.Fatal("Expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("Expected status code in error, got %v", err)
	}
}

func TestAnthropicService_GenerateResponse_NoMessages(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-3-5-sonnet-20241022", log)

	_, err := service.GenerateResponse(context.Background(), &GenerateRequest{
		SystemPrompt: "system only",
	})
	if err == nil {
		t.Error("Expected error when no user messages present")
	}
}
