package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiScanner is the concrete Scanner backed by the Gemini vision model.
type GeminiScanner struct {
	model string
}

// NewGeminiScanner creates a scanner using the given model name.
func NewGeminiScanner(model string) *GeminiScanner {
	return &GeminiScanner{model: model}
}

// ScanDocument implements the Scanner interface. It sends the document to
// Gemini together with the extraction prompt and parses the strict-JSON
// reply into a candidate record.
func (s *GeminiScanner) ScanDocument(ctx context.Context, data []byte, mimeType string) (*Candidate, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ScanDocument: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildScanPrompt()},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ScanDocument: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ScanDocument: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ScanDocument: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return candidateFromModelOutput(parsed)
}

// cleanModelJSON strips Markdown fences and stray text from a model reply,
// keeping only the outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there is still junk around the JSON, keep only the first '{'
	// through the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// Ensure GeminiScanner implements Scanner.
var _ Scanner = (*GeminiScanner)(nil)
