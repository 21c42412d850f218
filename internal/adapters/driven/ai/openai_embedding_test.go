package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

func TestNewOpenAIEmbedding_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedding(Settings{Provider: ProviderOpenAI})
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIEmbedding_InvalidProvider(t *testing.T) {
	_, err := NewOpenAIEmbedding(Settings{Provider: "cohere", APIKey: "k"})
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestNewOpenAIEmbedding_Defaults(t *testing.T) {
	emb, err := NewOpenAIEmbedding(Settings{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if emb.Model() != "text-embedding-3-small" {
		t.Errorf("expected default model, got %s", emb.Model())
	}
	if emb.endpoint != "https://api.openai.com/v1/embeddings" {
		t.Errorf("expected default endpoint, got %s", emb.endpoint)
	}
	if emb.authHeader != "Authorization" || emb.authValue != "Bearer sk-test" {
		t.Errorf("unexpected auth %s: %s", emb.authHeader, emb.authValue)
	}
}

func TestNewOpenAIEmbedding_Azure(t *testing.T) {
	_, err := NewOpenAIEmbedding(Settings{Provider: ProviderAzure, APIKey: "k"})
	if err == nil {
		t.Error("expected error for missing azure endpoint")
	}

	emb, err := NewOpenAIEmbedding(Settings{
		Provider:       ProviderAzure,
		APIKey:         "azure-key",
		BaseURL:        "https://myres.openai.azure.com/",
		EmbeddingModel: "embed-deploy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://myres.openai.azure.com/openai/deployments/embed-deploy/embeddings?api-version=2023-05-15"
	if emb.endpoint != want {
		t.Errorf("expected %s, got %s", want, emb.endpoint)
	}
	if emb.authHeader != "api-key" || emb.authValue != "azure-key" {
		t.Errorf("unexpected auth %s: %s", emb.authHeader, emb.authValue)
	}
}

func TestOpenAIEmbedding_Dimensions(t *testing.T) {
	testCases := []struct {
		model      string
		override   int
		dimensions int
	}{
		{"text-embedding-3-small", 0, 1536},
		{"text-embedding-3-large", 0, 3072},
		{"text-embedding-ada-002", 0, 1536},
		{"unknown-model", 0, 1536},
		{"text-embedding-3-large", 256, 256},
	}

	for _, tc := range testCases {
		t.Run(tc.model, func(t *testing.T) {
			emb, err := NewOpenAIEmbedding(Settings{APIKey: "sk-test", EmbeddingModel: tc.model, Dimensions: tc.override})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if emb.Dimensions() != tc.dimensions {
				t.Errorf("expected dimensions %d, got %d", tc.dimensions, emb.Dimensions())
			}
		})
	}
}

func TestOpenAIEmbedding_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/embeddings" {
			t.Errorf("expected /embeddings, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Input != "hello" || req.Model != "text-embedding-3-small" || req.Dimensions != 0 {
			t.Errorf("unexpected request %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-3-small"}`))
	}))
	defer server.Close()

	emb, err := NewOpenAIEmbedding(Settings{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[1] != 0.2 {
		t.Errorf("unexpected embedding %v", vec)
	}
}

func TestOpenAIEmbedding_EmbedRequestsShortenedVectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Dimensions != 2 {
			t.Errorf("expected dimensions 2 in request, got %d", req.Dimensions)
		}
		w.Write([]byte(`{"data":[{"index":0,"embedding":[0.6,0.8]}]}`))
	}))
	defer server.Close()

	emb, err := NewOpenAIEmbedding(Settings{APIKey: "sk-test", BaseURL: server.URL, EmbeddingModel: "text-embedding-3-large", Dimensions: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != emb.Dimensions() {
		t.Errorf("expected %d values, got %d", emb.Dimensions(), len(vec))
	}
}

func TestSettings_EmbeddingDimensions(t *testing.T) {
	testCases := []struct {
		name     string
		settings Settings
		want     int
	}{
		{"default model", Settings{}, 1536},
		{"large model", Settings{EmbeddingModel: "text-embedding-3-large"}, 3072},
		{"unknown model", Settings{EmbeddingModel: "my-deployment"}, 1536},
		{"explicit", Settings{EmbeddingModel: "text-embedding-3-large", Dimensions: 1024}, 1024},
		{"negative ignored", Settings{EmbeddingModel: "text-embedding-3-large", Dimensions: -1}, 3072},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.settings.EmbeddingDimensions(); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestOpenAIEmbedding_EmbedAzure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/embed/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api-version") != "2024-02-01" {
			t.Errorf("unexpected api-version %s", r.URL.Query().Get("api-version"))
		}
		if r.Header.Get("api-key") != "azure-key" {
			t.Errorf("unexpected api-key %q", r.Header.Get("api-key"))
		}
		w.Write([]byte(`{"data":[{"index":0,"embedding":[1,2]}]}`))
	}))
	defer server.Close()

	emb, err := NewOpenAIEmbedding(Settings{
		Provider:            ProviderAzure,
		APIKey:              "azure-key",
		BaseURL:             server.URL,
		EmbeddingModel:      "embed",
		EmbeddingAPIVersion: "2024-02-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec, err := emb.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("unexpected embedding %v", vec)
	}
}

func TestOpenAIEmbedding_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests","code":"429"}}`))
	}))
	defer server.Close()

	emb, _ := NewOpenAIEmbedding(Settings{APIKey: "sk-test", BaseURL: server.URL})

	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error")
	}
}

func TestOpenAIEmbedding_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	emb, _ := NewOpenAIEmbedding(Settings{APIKey: "sk-test", BaseURL: server.URL})

	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error")
	}
}

func TestOpenAIEmbedding_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	emb, _ := NewOpenAIEmbedding(Settings{APIKey: "sk-test", BaseURL: server.URL})

	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Error("expected error for empty data")
	}
	if err := emb.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check to fail")
	}
}
