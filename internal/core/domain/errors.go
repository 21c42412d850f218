package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Pipeline stage errors. Each maps to one Outcome.
var (
	// ErrUnsupportedType indicates a file or content type with no extractor
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDownloadFailed indicates the file body could not be retrieved from chat storage
	ErrDownloadFailed = errors.New("download failed")

	// ErrFetchFailed indicates a URL could not be fetched
	ErrFetchFailed = errors.New("fetch failed")

	// ErrExtractionFailed indicates the content could not be parsed into text
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingFailed indicates the embedding service returned no vector
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrIndexingFailed indicates the vector index rejected a document
	ErrIndexingFailed = errors.New("indexing failed")

	// ErrSearchFailed indicates the vector index query failed
	ErrSearchFailed = errors.New("search failed")

	// ErrGenerationFailed indicates the completion service returned no answer
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidChunkConfig indicates a chunk size/overlap pair that cannot make progress
	ErrInvalidChunkConfig = errors.New("invalid chunk config")
)
