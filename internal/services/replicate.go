package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	replicateBaseURL = "https://api.replicate.com/v1"

	// Stable Diffusion pinned to the version the map generator was tuned on.
	mapModelVersion = "stability-ai/stable-diffusion:27b93a2413e7f36cd83da926f3656280b2931564ff0fc380ae413b026a239"

	mapPromptPrefix   = "A detailed fantasy RPG map: "
	mapNegativePrompt = "sexual content"
)

// ReplicateService generates map images through the Replicate
// predictions API.
type ReplicateService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type replicatePredictionRequest struct {
	Version string                   `json:"version"`
	Input   replicatePredictionInput `json:"input"`
}

type replicatePredictionInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
}

type replicatePredictionResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
}

func NewReplicateService(apiKey string, logger *slog.Logger) *ReplicateService {
	return &ReplicateService{
		apiKey:  apiKey,
		baseURL: replicateBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (r *ReplicateService) Available() bool {
	return r.apiKey != ""
}

// GenerateMapImage submits a map prediction and returns the first output
// image URL, or an empty string when the prediction has not produced
// output yet.
func (r *ReplicateService) GenerateMapImage(ctx context.Context, prompt string) (string, error) {
	predReq := replicatePredictionRequest{
		Version: mapModelVersion,
		Input: replicatePredictionInput{
			Prompt:         mapPromptPrefix + prompt,
			NegativePrompt: mapNegativePrompt,
		},
	}

	reqBody, err := json.Marshal(predReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/predictions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("Replicate API error: %d - %s", resp.StatusCode, string(body))
	}

	var predResp replicatePredictionResponse
	if err := json.Unmarshal(body, &predResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if predResp.Error != "" {
		return "", fmt.Errorf("prediction failed: %s", predResp.Error)
	}

	if len(predResp.Output) == 0 {
		return "", nil
	}
	return predResp.Output[0], nil
}
