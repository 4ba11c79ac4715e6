package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/asperstar/worldbuilder/pkg/chat"
)

const grokBaseURL = "https://api.x.ai/v1"

// GrokService implements LLMService against the x.ai API, which speaks
// the OpenAI chat completions dialect.
type GrokService struct {
	apiKey    string
	modelName string
	client    *openai.Client
	logger    *slog.Logger
}

var _ LLMService = (*GrokService)(nil)

func NewGrokService(apiKey string, modelName string, logger *slog.Logger) *GrokService {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(grokBaseURL),
	)
	return &GrokService{
		apiKey:    apiKey,
		modelName: modelName,
		client:    &client,
		logger:    logger,
	}
}

func (g *GrokService) Name() string {
	return chat.SourceGrok
}

func (g *GrokService) Available() bool {
	return g.apiKey != ""
}

func (g *GrokService) GenerateResponse(ctx context.Context, req *GenerateRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case chat.ChatRoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case chat.ChatRoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	if req.UserMessage != "" {
		messages = append(messages, openai.UserMessage(req.UserMessage))
	}

	params := openai.ChatCompletionNewParams{
		Model:    g.modelName,
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	} else {
		params.Temperature = openai.Float(DefaultTemperature)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	params.MaxTokens = openai.Int(int64(maxTokens))

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("grok request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("grok returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
