package services

import "fmt"

// User-facing notices posted to the originating thread.

func noticeUnsupportedFile(name string) string {
	return fmt.Sprintf("Unsupported file type: %s", name)
}

func noticeDownloadFailed(name string) string {
	return fmt.Sprintf("Failed to download file: %s", name)
}

func noticeFileExtractionFailed(name string) string {
	return fmt.Sprintf("Failed to extract text from file: %s", name)
}

func noticeFetchFailed(url string) string {
	return fmt.Sprintf("Failed to fetch content from URL: %s", url)
}

func noticeURLExtractionFailed(url string) string {
	return fmt.Sprintf("Could not read content from URL: %s", url)
}

func noticeEmbeddingFailed(source string) string {
	return fmt.Sprintf("Failed to vectorize text: %s", source)
}

func noticeIndexed(source string) string {
	return fmt.Sprintf("Added document to the index: %s", source)
}

func noticeIndexingFailed(source string) string {
	return fmt.Sprintf("Failed to add document to the index: %s", source)
}

func noticeInternalError(msg string) string {
	return fmt.Sprintf("An error occurred: %s", msg)
}

const (
	noticeMissingURL        = "Ingestion mode, but no valid URL was found. Please include a URL in your message."
	noticeEmptyQuestion     = "The question is empty. What would you like to know?"
	noticeQuestionEmbedding = "Failed to vectorize the question. Please try again."
	noticeSearchFailed      = "Search failed. Please try again."
	noticeNoResults         = "No relevant information was found."
	noticeGenerationFailed  = "Failed to generate an answer. Please try again."
)
