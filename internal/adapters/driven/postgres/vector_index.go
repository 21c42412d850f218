package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pgvector/pgvector-go"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.VectorIndex      = (*VectorIndex)(nil)
	_ driven.IndexProvisioner = (*VectorIndex)(nil)
)

// VectorIndex implements driven.VectorIndex on PostgreSQL with pgvector.
// Similarity is cosine; scores are 1 - cosine distance.
type VectorIndex struct {
	db         *DB
	dimensions int
	logger     *slog.Logger
}

// NewVectorIndex creates a pgvector backed index
func NewVectorIndex(db *DB, dimensions int, logger *slog.Logger) *VectorIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorIndex{
		db:         db,
		dimensions: dimensions,
		logger:     logger.With("component", "pgvector-index"),
	}
}

// EnsureIndex creates the documents table and HNSW index if missing
func (v *VectorIndex) EnsureIndex(ctx context.Context) error {
	if err := v.db.InitSchema(ctx, v.dimensions); err != nil {
		return err
	}
	v.logger.Info("index schema ready", "dimensions", v.dimensions)
	return nil
}

// Upsert writes a document, replacing any document with the same ID
func (v *VectorIndex) Upsert(ctx context.Context, doc *domain.IndexedDocument) error {
	if err := v.checkDimensions(doc.Embedding); err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, content, embedding, source, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			source = EXCLUDED.source,
			type = EXCLUDED.type,
			updated_at = NOW()
	`

	_, err := v.db.ExecContext(ctx, query,
		doc.ID,
		doc.Content,
		pgvector.NewVector(doc.Embedding),
		doc.Source,
		string(doc.Type),
	)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// Query returns up to topK documents ordered by descending similarity
func (v *VectorIndex) Query(ctx context.Context, embedding []float32, topK int) ([]domain.SearchResult, error) {
	if err := v.checkDimensions(embedding); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	query := `
		SELECT id, content, source, type, embedding <=> $1 AS distance
		FROM documents
		ORDER BY distance ASC
		LIMIT $2
	`

	rows, err := v.db.QueryContext(ctx, query, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, topK)
	for rows.Next() {
		var (
			r        domain.SearchResult
			docType  string
			distance float64
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.Source, &docType, &distance); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Type = domain.DocType(docType)
		r.Score = distanceToScore(distance)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return results, nil
}

// Delete removes a document by ID
func (v *VectorIndex) Delete(ctx context.Context, id string) error {
	res, err := v.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database is reachable
func (v *VectorIndex) HealthCheck(ctx context.Context) error {
	return v.db.Ping(ctx)
}

func (v *VectorIndex) checkDimensions(embedding []float32) error {
	if len(embedding) != v.dimensions {
		return fmt.Errorf("%w: embedding dimension mismatch: got %d, want %d",
			domain.ErrInvalidInput, len(embedding), v.dimensions)
	}
	return nil
}

// distanceToScore maps cosine distance in [0,2] to a similarity in [-1,1]
func distanceToScore(distance float64) float64 {
	score := 1.0 - distance
	if score < -1 {
		score = -1
	}
	if score > 1 {
		score = 1
	}
	return score
}
