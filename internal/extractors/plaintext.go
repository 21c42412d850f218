package extractors

// PlaintextExtractor passes text content through unchanged.
type PlaintextExtractor struct{}

func (e *PlaintextExtractor) Extract(content []byte, _ string) (string, error) {
	return string(content), nil
}

func (e *PlaintextExtractor) Name() string {
	return "plaintext"
}
