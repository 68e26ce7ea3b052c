package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jelmberg/commission-tracker/internal/api/handlers"
	"github.com/jelmberg/commission-tracker/internal/api/middleware"
	"github.com/jelmberg/commission-tracker/internal/archive"
	"github.com/jelmberg/commission-tracker/internal/config"
	"github.com/jelmberg/commission-tracker/internal/jobs"
	"github.com/jelmberg/commission-tracker/internal/jobs/inmemory"
	"github.com/jelmberg/commission-tracker/internal/logger"
	"github.com/jelmberg/commission-tracker/internal/scan"
	"github.com/jelmberg/commission-tracker/internal/sheetsync"
	"github.com/jelmberg/commission-tracker/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	st, err := store.New(cfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open transaction store")
	}

	ctx := context.Background()

	// Job infrastructure for background document scans.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)
	scanResults := scan.NewResults()
	scanner := scan.NewGeminiScanner(cfg.GeminiModel)

	var docArchive archive.Storage
	if cfg.GCSBucket != "" {
		docArchive = archive.NewGCSArchive(cfg.GCSBucket)
	} else {
		log.Warn().Msg("No GCS bucket configured - document scanning is disabled")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		scanJob, ok := job.(*jobs.ScanDocumentJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("scan_id", scanJob.ScanID).
			Str("gcs_uri", scanJob.GCSURI).
			Msg("Processing scan job")

		data, err := docArchive.Fetch(ctx, scanJob.GCSURI)
		if err != nil {
			log.Error().Err(err).Str("job_id", scanJob.JobID).Msg("Failed to fetch archived document")
			return err
		}

		candidate, err := scanner.ScanDocument(ctx, data, scanJob.MIMEType)
		if err != nil {
			log.Error().Err(err).Str("job_id", scanJob.JobID).Msg("Document scan failed")
			if scanJob.RetryCount >= scanJob.MaxRetries {
				scanResults.Fail(scanJob.ScanID, err.Error())
			}
			return err
		}

		scanResults.Put(scanJob.ScanID, candidate)

		log.Info().
			Str("job_id", scanJob.JobID).
			Str("scan_id", scanJob.ScanID).
			Float64("confidence", candidate.Confidence).
			Int("fields", len(candidate.Present)).
			Msg("Scan job completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting scan worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Scan worker stopped with error")
		}
	}()

	// Sheet sync is optional; without a spreadsheet ID the endpoints 503.
	var sheet sheetsync.SheetService
	if cfg.SpreadsheetID != "" {
		sheet, err = sheetsync.NewClient(ctx, cfg.SpreadsheetID, cfg.SheetRange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
	} else {
		log.Warn().Msg("No spreadsheet configured - sheet sync is disabled")
	}

	transactionsHandler := handlers.NewTransactionsHandler(st, log)
	calculateHandler := handlers.NewCalculateHandler(log)
	scansHandler := handlers.NewScansHandler(docArchive, jobQueue, scanResults, log)
	sheetsHandler := handlers.NewSheetsHandler(st, sheet, log)
	exportHandler := handlers.NewExportHandler(st, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.Get(w, r, id)
		case http.MethodPut:
			transactionsHandler.Update(w, r, id)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/calculate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			calculateHandler.Calculate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/scans", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if docArchive == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Document scanning is not configured")
			return
		}
		scansHandler.Upload(w, r)
	})

	mux.HandleFunc("/api/scans/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		scanID := strings.TrimPrefix(r.URL.Path, "/api/scans/")
		if scanID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Scan ID is required")
			return
		}
		scansHandler.Get(w, r, scanID)
	})

	mux.HandleFunc("/api/sheets/push", requireSheet(sheet, sheetsHandler.Push))
	mux.HandleFunc("/api/sheets/pull", requireSheet(sheet, sheetsHandler.Pull))

	mux.HandleFunc("/api/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			exportHandler.Export(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}
		jobsHandler.GetJob(w, r, jobID)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

// requireSheet gates a sheet-sync endpoint on sync being configured.
func requireSheet(sheet sheetsync.SheetService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		if sheet == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, "Sheet sync is not configured")
			return
		}
		next(w, r)
	}
}
