package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.IndexAdminService = (*IndexAdmin)(nil)

// IndexAdmin handles index maintenance.
type IndexAdmin struct {
	index  driven.VectorIndex
	dedup  driven.EventDeduplicator
	logger *slog.Logger
}

// NewIndexAdmin creates a new index admin service.
func NewIndexAdmin(index driven.VectorIndex, dedup driven.EventDeduplicator, logger *slog.Logger) *IndexAdmin {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexAdmin{index: index, dedup: dedup, logger: logger}
}

// EnsureIndex provisions the index schema. Backends without a
// provisioning step are left untouched.
func (s *IndexAdmin) EnsureIndex(ctx context.Context) error {
	p, ok := s.index.(driven.IndexProvisioner)
	if !ok {
		s.logger.Info("index backend has no provisioning step")
		return nil
	}
	if err := p.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to provision index: %w", err)
	}
	s.logger.Info("index provisioned")
	return nil
}

// DeleteDocument removes one document from the index.
func (s *IndexAdmin) DeleteDocument(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if err := s.index.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	s.logger.Info("document deleted", "document_id", id)
	return nil
}

// Health checks each dependency. A nil error means healthy.
func (s *IndexAdmin) Health(ctx context.Context) map[string]error {
	status := map[string]error{
		"index": s.index.HealthCheck(ctx),
	}
	if s.dedup != nil {
		_, err := s.dedup.Len(ctx)
		status["dedup"] = err
	}
	return status
}
