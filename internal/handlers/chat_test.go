package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asperstar/worldbuilder/internal/router"
	"github.com/asperstar/worldbuilder/internal/services"
	"github.com/asperstar/worldbuilder/internal/storage"
	"github.com/asperstar/worldbuilder/pkg/character"
	"github.com/asperstar/worldbuilder/pkg/chat"
	"github.com/asperstar/worldbuilder/pkg/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedCharacter(t *testing.T, store *storage.MockStorage) *character.Character {
	t.Helper()
	c := &character.Character{
		ID:          "char-1",
		Name:        "Oge",
		Personality: "gruff but loyal",
		TemplateTag: character.TemplateCustom,
		Triggers: []character.Trigger{
			{Phrase: "the relic", Response: "*clutches the stone* We don't speak of that."},
		},
	}
	require.NoError(t, store.SaveCharacter(context.Background(), c))
	return c
}

func doChat(t *testing.T, h *ChatHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Success(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)

	primary := services.NewMockLLMService(chat.SourceGrok)
	primary.GenerateResponseFunc = func(ctx context.Context, req *services.GenerateRequest) (string, error) {
		return "Well met, traveler.", nil
	}
	rt := router.New(primary, nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "char-1", Message: "hello there"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Well met, traveler.", resp.Response)
	assert.Equal(t, "Oge", resp.Character)
	assert.Equal(t, chat.SourceGrok, resp.Source)

	// The flattened prompt carries character identity and context.
	call := primary.LastCall()
	require.NotNil(t, call)
	assert.Contains(t, call.UserMessage, "You are Oge.")
	assert.Contains(t, call.UserMessage, "## Character Information")
}

func TestChatHandler_TriggerShortCircuit(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)

	primary := services.NewMockLLMService(chat.SourceGrok)
	rt := router.New(primary, nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "char-1", Message: "tell me about THE RELIC"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chat.SourceCharacterTrigger, resp.Source)
	assert.Equal(t, "the relic", resp.TriggerUsed)
	assert.Contains(t, resp.Response, "We don't speak of that")

	// No provider call happened.
	assert.Equal(t, 0, primary.CallCount())
}

func TestChatHandler_CharacterNotFound(t *testing.T) {
	store := storage.NewMockStorage()
	rt := router.New(services.NewMockLLMService(chat.SourceGrok), nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "ghost", Message: "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp chat.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "I couldn't find this character in the database. Please refresh the page and try again.", resp.Error)
}

func TestChatHandler_Validation(t *testing.T) {
	store := storage.NewMockStorage()
	rt := router.New(services.NewMockLLMService(chat.SourceGrok), nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	tests := []struct {
		name string
		body chat.ChatRequest
	}{
		{name: "missing character id", body: chat.ChatRequest{Message: "hi"}},
		{name: "missing message", body: chat.ChatRequest{CharacterID: "char-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doChat(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	store := storage.NewMockStorage()
	rt := router.New(services.NewMockLLMService(chat.SourceGrok), nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/chat", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestChatHandler_CriticalTopicRoutesToSecondary(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)

	primary := services.NewMockLLMService(chat.SourceGrok)
	secondary := services.NewMockLLMService(chat.SourceAnthropic)
	secondary.GenerateResponseFunc = func(ctx context.Context, req *services.GenerateRequest) (string, error) {
		return "That is a heavy question.", nil
	}
	rt := router.New(primary, secondary, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "char-1", Message: "what is the meaning of life?"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chat.SourceAnthropic, resp.Source)
	assert.Equal(t, 0, primary.CallCount())
}

func TestChatHandler_DegradedContextStillResponds(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)
	store.MemoriesError = fmt.Errorf("redis down")
	store.MapError = fmt.Errorf("redis down")

	primary := services.NewMockLLMService(chat.SourceGrok)
	primary.GenerateResponseFunc = func(ctx context.Context, req *services.GenerateRequest) (string, error) {
		return "Still here.", nil
	}
	rt := router.New(primary, nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "char-1", Message: "hello"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Still here.", resp.Response)
}

func TestChatHandler_FamilyFriendlyFilters(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)

	primary := services.NewMockLLMService(chat.SourceGrok)
	primary.GenerateResponseFunc = func(ctx context.Context, req *services.GenerateRequest) (string, error) {
		return "That is fucking amazing.", nil
	}
	rt := router.New(primary, nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{
		CharacterID: "char-1",
		Message:     "hello",
		RPMode:      "family-friendly",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, strings.ToLower(resp.Response), "fucking")
}

func TestChatHandler_MemoriesReachThePrompt(t *testing.T) {
	store := storage.NewMockStorage()
	seedCharacter(t, store)
	require.NoError(t, store.AddMemory(context.Background(), &memory.Memory{
		CharacterID: "char-1",
		Content:     "once survived a hallow storm",
		Type:        memory.TypeEvent,
	}))

	primary := services.NewMockLLMService(chat.SourceGrok)
	rt := router.New(primary, nil, testLogger())
	h := NewChatHandler(store, rt, testLogger())

	w := doChat(t, h, chat.ChatRequest{CharacterID: "char-1", Message: "do you remember the storm?"})
	assert.Equal(t, http.StatusOK, w.Code)

	call := primary.LastCall()
	require.NotNil(t, call)
	assert.Contains(t, call.UserMessage, "hallow storm")
}
