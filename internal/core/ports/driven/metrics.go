package driven

import (
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
)

// PipelineMetrics records pipeline activity
type PipelineMetrics interface {
	EventReceived(kind string)
	EventDeduplicated()
	IngestCompleted(docType domain.DocType, outcome domain.Outcome)
	QueryCompleted(outcome domain.Outcome)
	HTTPRequest(method, route string, status int, elapsed time.Duration)
}

// NopMetrics discards all measurements
type NopMetrics struct{}

func (NopMetrics) EventReceived(string) {}
func (NopMetrics) EventDeduplicated() {}
func (NopMetrics) IngestCompleted(domain.DocType, domain.Outcome) {}
func (NopMetrics) QueryCompleted(domain.Outcome) {}
func (NopMetrics) HTTPRequest(string, string, int, time.Duration) {}
