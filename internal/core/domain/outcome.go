package domain

import "errors"

// Outcome is the terminal state of one ingestion or question
type Outcome string

const (
	OutcomeIndexed           Outcome = "indexed"
	OutcomeAnswered          Outcome = "answered"
	OutcomeUnsupportedType   Outcome = "unsupported_type"
	OutcomeDownloadFailed    Outcome = "download_failed"
	OutcomeFetchFailed       Outcome = "fetch_failed"
	OutcomeExtractionFailed  Outcome = "extraction_failed"
	OutcomeEmbeddingFailed   Outcome = "embedding_failed"
	OutcomeIndexingFailed    Outcome = "indexing_failed"
	OutcomeEmptyQuestion     Outcome = "empty_question"
	OutcomeSearchFailed      Outcome = "search_failed"
	OutcomeNoRelevantResults Outcome = "no_relevant_results"
	OutcomeGenerationFailed  Outcome = "generation_failed"
	OutcomeMissingURL        Outcome = "missing_url"
	OutcomeInternalError     Outcome = "internal_error"
)

// Succeeded reports whether the outcome is a success
func (o Outcome) Succeeded() bool {
	return o == OutcomeIndexed || o == OutcomeAnswered
}

// OutcomeFor maps a stage error to its outcome
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedType):
		return OutcomeUnsupportedType
	case errors.Is(err, ErrDownloadFailed):
		return OutcomeDownloadFailed
	case errors.Is(err, ErrFetchFailed):
		return OutcomeFetchFailed
	case errors.Is(err, ErrExtractionFailed):
		return OutcomeExtractionFailed
	case errors.Is(err, ErrEmbeddingFailed):
		return OutcomeEmbeddingFailed
	case errors.Is(err, ErrIndexingFailed):
		return OutcomeIndexingFailed
	case errors.Is(err, ErrSearchFailed):
		return OutcomeSearchFailed
	case errors.Is(err, ErrGenerationFailed):
		return OutcomeGenerationFailed
	default:
		return OutcomeInternalError
	}
}

// IngestResult describes how one ingestion ended
type IngestResult struct {
	Source     string  `json:"source"`
	DocumentID string  `json:"document_id,omitempty"`
	Outcome    Outcome `json:"outcome"`
	Chunks     int     `json:"chunks"`
	Err        error   `json:"-"`
}

// AnswerResult describes how one question ended
type AnswerResult struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer,omitempty"`
	Sources  []SearchResult `json:"sources,omitempty"`
	Outcome  Outcome        `json:"outcome"`
	Err      error          `json:"-"`
}
