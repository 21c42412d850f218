package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure OpenAIEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*OpenAIEmbedding)(nil)

// OpenAIEmbedding implements EmbeddingService against the OpenAI or
// Azure OpenAI embeddings endpoint.
type OpenAIEmbedding struct {
	endpoint   string
	authHeader string
	authValue  string
	model      string
	dimensions int
	requested  int // sent as the dimensions parameter; 0 omits it
	client     *http.Client
}

// Model dimensions for OpenAI embedding models
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

const (
	defaultEmbeddingModel      = "text-embedding-3-small"
	defaultOpenAIBaseURL       = "https://api.openai.com/v1"
	defaultEmbeddingAPIVersion = "2023-05-15"
)

// NewOpenAIEmbedding creates a new embedding service from settings
func NewOpenAIEmbedding(s Settings) (*OpenAIEmbedding, error) {
	provider, err := s.provider()
	if err != nil {
		return nil, err
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	e := &OpenAIEmbedding{
		model:      s.embeddingModel(),
		dimensions: s.EmbeddingDimensions(),
		requested:  max(s.Dimensions, 0),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	switch provider {
	case ProviderAzure:
		if s.BaseURL == "" {
			return nil, fmt.Errorf("azure endpoint is required")
		}
		version := s.EmbeddingAPIVersion
		if version == "" {
			version = defaultEmbeddingAPIVersion
		}
		e.endpoint = fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s",
			strings.TrimRight(s.BaseURL, "/"), url.PathEscape(e.model), url.QueryEscape(version))
		e.authHeader = "api-key"
		e.authValue = s.APIKey
	default:
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = defaultOpenAIBaseURL
		}
		e.endpoint = strings.TrimRight(baseURL, "/") + "/embeddings"
		e.authHeader = "Authorization"
		e.authValue = "Bearer " + s.APIKey
	}

	return e, nil
}

// embeddingRequest is the request body for the embedding API
type embeddingRequest struct {
	Input          string `json:"input"`
	Model          string `json:"model"`
	EncodingFormat string `json:"encoding_format,omitempty"`
	Dimensions     int    `json:"dimensions,omitempty"`
}

// embeddingResponse is the response from the embedding API
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Embed generates an embedding for one text
func (e *OpenAIEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.doRequest(ctx, embeddingRequest{
		Input:          text,
		Model:          e.model,
		EncodingFormat: "float",
		Dimensions:     e.requested,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

// Dimensions returns the embedding dimension size
func (e *OpenAIEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *OpenAIEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *OpenAIEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.Embed(ctx, "health check")
	return err
}

// doRequest makes a request to the embedding API
func (e *OpenAIEmbedding) doRequest(ctx context.Context, reqBody embeddingRequest) (*embeddingResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(e.authHeader, e.authValue)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if embResp.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s (type: %s, code: %s)",
			embResp.Error.Message, embResp.Error.Type, embResp.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned status %d", resp.StatusCode)
	}

	return &embResp, nil
}
