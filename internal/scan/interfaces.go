package scan

import "context"

// Scanner extracts a candidate transaction from a document image or PDF.
// The interface enables mocking; the concrete implementation calls Gemini.
type Scanner interface {
	// ScanDocument sends the document bytes to the model and returns the
	// candidate record it extracted.
	ScanDocument(ctx context.Context, data []byte, mimeType string) (*Candidate, error)
}
