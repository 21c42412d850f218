package vespa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.VectorIndex      = (*VectorIndex)(nil)
	_ driven.IndexProvisioner = (*VectorIndex)(nil)
)

// VectorIndex implements driven.VectorIndex using Vespa nearest neighbour search
type VectorIndex struct {
	baseURL    string
	dimensions int
	deployer   *Deployer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewVectorIndex creates a new Vespa-backed VectorIndex.
// The deployer is optional; without it EnsureIndex is unavailable.
func NewVectorIndex(cfg Config, deployer *Deployer, logger *slog.Logger) (*VectorIndex, error) {
	baseURL, err := validateEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be > 0")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &VectorIndex{
		baseURL:    baseURL,
		dimensions: cfg.Dimensions,
		deployer:   deployer,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "vespa-index"),
	}, nil
}

// vespaDocument represents a document in Vespa format
type vespaDocument struct {
	Fields vespaFields `json:"fields"`
}

type vespaFields struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Source    string       `json:"source"`
	DocType   string       `json:"doc_type"`
	Embedding *vespaTensor `json:"embedding,omitempty"`
}

type vespaTensor struct {
	Values []float32 `json:"values"`
}

func (v *VectorIndex) documentURL(id string) string {
	return fmt.Sprintf("%s/document/v1/%s/%s/docid/%s", v.baseURL, namespace, documentType, url.PathEscape(id))
}

// EnsureIndex deploys the application package with the ragdoc schema
func (v *VectorIndex) EnsureIndex(ctx context.Context) error {
	if v.deployer == nil {
		return fmt.Errorf("%w: no vespa config endpoint configured", domain.ErrServiceUnavailable)
	}
	return v.deployer.Deploy(ctx, v.dimensions)
}

// Upsert writes a document, replacing any document with the same ID
func (v *VectorIndex) Upsert(ctx context.Context, doc *domain.IndexedDocument) error {
	if len(doc.Embedding) != v.dimensions {
		return fmt.Errorf("%w: embedding dimension mismatch: got %d, want %d",
			domain.ErrInvalidInput, len(doc.Embedding), v.dimensions)
	}

	body, err := json.Marshal(vespaDocument{
		Fields: vespaFields{
			ID:        doc.ID,
			Content:   doc.Content,
			Source:    doc.Source,
			DocType:   string(doc.Type),
			Embedding: &vespaTensor{Values: doc.Embedding},
		},
	})
	if err != nil {
		return err
	}

	// Vespa document API: POST /document/v1/{namespace}/{doctype}/docid/{docid} is a put
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.documentURL(doc.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vespa index failed: %s - %s", resp.Status, string(respBody))
	}
	return nil
}

// vespaSearchResponse represents Vespa's search response format
type vespaSearchResponse struct {
	Root struct {
		Fields struct {
			TotalCount int64 `json:"totalCount"`
		} `json:"fields"`
		Children []struct {
			Relevance float64     `json:"relevance"`
			Fields    vespaFields `json:"fields"`
		} `json:"children"`
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"root"`
}

func (v *VectorIndex) buildYQL(topK int) string {
	return fmt.Sprintf("select id, content, source, doc_type from %s where ({targetHits:%d}nearestNeighbor(embedding,q))",
		documentType, topK)
}

// Query returns up to topK documents ordered by descending similarity
func (v *VectorIndex) Query(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	if len(embedding) != v.dimensions {
		return nil, fmt.Errorf("%w: query dimension mismatch: got %d, want %d",
			domain.ErrInvalidInput, len(embedding), v.dimensions)
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	searchReq := map[string]interface{}{
		"yql":             v.buildYQL(topK),
		"hits":            topK,
		"ranking.profile": "semantic",
		"input.query(q)":  embedding,
	}

	body, err := json.Marshal(searchReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/search/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vespa search failed: %s - %s", resp.Status, string(respBody))
	}

	var searchResp vespaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}
	if len(searchResp.Root.Errors) > 0 {
		e := searchResp.Root.Errors[0]
		return nil, fmt.Errorf("vespa search error %d: %s", e.Code, e.Message)
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Root.Children))
	for _, hit := range searchResp.Root.Children {
		results = append(results, domain.SearchResult{
			ID:      hit.Fields.ID,
			Content: hit.Fields.Content,
			Source:  hit.Fields.Source,
			Type:    domain.DocType(hit.Fields.DocType),
			Score:   hit.Relevance,
		})
	}
	return results, nil
}

// Delete removes a document by ID. Vespa acknowledges deletes of missing
// documents, so existence is checked first.
func (v *VectorIndex) Delete(ctx context.Context, id string) error {
	exists, err := v.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, v.documentURL(id), nil)
	if err != nil {
		return err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vespa delete failed: %s - %s", resp.Status, string(respBody))
	}
	return nil
}

func (v *VectorIndex) exists(ctx context.Context, id string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.documentURL(id)+"?fieldSet=[id]", nil)
	if err != nil {
		return false, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("vespa get failed: %s - %s", resp.Status, string(respBody))
	default:
		return true, nil
	}
}

// HealthCheck verifies the container is available
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/state/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vespa health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vespa unhealthy: %s", resp.Status)
	}
	return nil
}
