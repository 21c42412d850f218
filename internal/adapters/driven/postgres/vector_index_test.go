package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

func TestRenderSchema(t *testing.T) {
	ddl, err := renderSchema(1536)
	require.NoError(t, err)

	assert.Contains(t, ddl, "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, ddl, "vector(1536)")
	assert.Contains(t, ddl, "USING hnsw (embedding vector_cosine_ops)")
	assert.NotContains(t, ddl, "{{dimensions}}")

	_, err = renderSchema(0)
	assert.Error(t, err)
}

func TestDistanceToScore(t *testing.T) {
	testCases := []struct {
		distance float64
		score    float64
	}{
		{0, 1},
		{1, 0},
		{2, -1},
		{0.25, 0.75},
		{-0.5, 1},
		{3, -1},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.score, distanceToScore(tc.distance), 1e-9, "distance %v", tc.distance)
	}
}

func TestHashLockName_Stable(t *testing.T) {
	assert.Equal(t, hashLockName("schema"), hashLockName("schema"))
	assert.NotEqual(t, hashLockName("schema"), hashLockName("other"))
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	idx := NewVectorIndex(&DB{}, 3, nil)

	err := idx.Upsert(context.Background(), &domain.IndexedDocument{ID: "a", Embedding: []float32{1, 2}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = idx.Query(context.Background(), []float32{1}, 3)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// setupTestDB connects to INNER_RAG_TEST_POSTGRES_URL or skips
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("INNER_RAG_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("INNER_RAG_TEST_POSTGRES_URL not set")
	}

	db, err := Connect(context.Background(), DefaultConfig(url))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.ExecContext(context.Background(), "DROP TABLE IF EXISTS documents")
		db.Close()
	})
	return db
}

func TestVectorIndex_Integration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	idx := NewVectorIndex(db, 3, nil)

	require.NoError(t, idx.EnsureIndex(ctx))
	require.NoError(t, idx.EnsureIndex(ctx))

	docs := []*domain.IndexedDocument{
		{ID: "a", Content: "alpha", Embedding: []float32{1, 0, 0}, Source: "a.pdf", Type: domain.DocTypePDF},
		{ID: "b", Content: "beta", Embedding: []float32{0, 1, 0}, Source: "https://b.example", Type: domain.DocTypeURL},
		{ID: "c", Content: "gamma", Embedding: []float32{0.9, 0.1, 0}, Source: "c.docx", Type: domain.DocTypeDOCX},
	}
	for _, d := range docs {
		require.NoError(t, idx.Upsert(ctx, d))
	}

	results, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "c", results[1].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, domain.DocTypePDF, results[0].Type)

	// Upsert replaces
	require.NoError(t, idx.Upsert(ctx, &domain.IndexedDocument{
		ID: "a", Content: "alpha v2", Embedding: []float32{1, 0, 0}, Source: "a.pdf", Type: domain.DocTypePDF,
	}))
	results, err = idx.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.True(t, strings.HasSuffix(results[0].Content, "v2"))

	require.NoError(t, idx.Delete(ctx, "a"))
	assert.ErrorIs(t, idx.Delete(ctx, "a"), domain.ErrNotFound)
	results, err = idx.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "a", r.ID)
	}

	assert.NoError(t, idx.HealthCheck(ctx))
}
