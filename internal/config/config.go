package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the binaries read from the environment.
// A .env file in the working directory is loaded first when present.
type Config struct {
	// Port is the HTTP listen port for cmd/api.
	Port string

	// DataFile is the path of the local transaction blob. Empty disables
	// persistence (memory only).
	DataFile string

	// SpreadsheetID and SheetRange locate the Google Sheet the tracker
	// syncs against, e.g. range "Transactions!A2:Z".
	SpreadsheetID string
	SheetRange    string

	// GCSBucket receives uploaded scan documents. Empty disables uploads.
	GCSBucket string

	// GeminiModel is the vision model used for document scanning.
	GeminiModel string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:          getenv("PORT", "8080"),
		DataFile:      getenv("DATA_FILE", "transactions.json"),
		SpreadsheetID: os.Getenv("SPREADSHEET_ID"),
		SheetRange:    getenv("SHEET_RANGE", "Transactions!A2:Z"),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.5-flash"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
