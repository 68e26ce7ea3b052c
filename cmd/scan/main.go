package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/jelmberg/commission-tracker/internal/config"
	"github.com/jelmberg/commission-tracker/internal/logger"
	"github.com/jelmberg/commission-tracker/internal/scan"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	filePath := flag.String("file", "", "Path of the document to scan (required)")
	model := flag.String("model", cfg.GeminiModel, "Gemini model to use")
	flag.Parse()

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read document")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(*filePath))
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("file", *filePath).
		Str("mime_type", mimeType).
		Str("model", *model).
		Msg("Scanning document")

	scanner := scan.NewGeminiScanner(*model)
	candidate, err := scanner.ScanDocument(ctx, data, mimeType)
	if err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	out, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode candidate")
	}

	fmt.Println(string(out))
}
