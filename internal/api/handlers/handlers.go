package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jelmberg/commission-tracker/internal/api/middleware"
	"github.com/jelmberg/commission-tracker/internal/archive"
	"github.com/jelmberg/commission-tracker/internal/domain"
	"github.com/jelmberg/commission-tracker/internal/engine"
	"github.com/jelmberg/commission-tracker/internal/export"
	"github.com/jelmberg/commission-tracker/internal/jobs"
	"github.com/jelmberg/commission-tracker/internal/scan"
	"github.com/jelmberg/commission-tracker/internal/sheetsync"
	"github.com/jelmberg/commission-tracker/internal/store"
)

// maxUploadBytes bounds scanned document uploads.
const maxUploadBytes = 20 << 20 // 20 MiB

// transactionRequest is the body for create, update, and calculate calls.
// Touched names the fields the user edited in this request, in order, so
// the edit session can pin or unpin derived values accordingly.
type transactionRequest struct {
	Transaction domain.Transaction `json:"transaction"`
	Touched     []string           `json:"touched"`
}

// TransactionsHandler handles transaction CRUD and recalculation.
type TransactionsHandler struct {
	store *store.Store
	log   zerolog.Logger
}

func NewTransactionsHandler(st *store.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: st, log: log}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.store.List()
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	// Return array directly for frontend compatibility
	middleware.WriteJSON(w, http.StatusOK, txs)
}

// Get handles GET /api/transactions/{id}
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := h.store.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tx)
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx := req.Transaction
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.TransactionType == "" {
		tx.TransactionType = domain.TypeSale
	}
	if tx.Brokerage == "" {
		tx.Brokerage = domain.BrokerageKellerWilliams
	}
	if tx.BDHSplitPct == 0 {
		tx.BDHSplitPct = domain.DefaultBDHSplitPct
	}

	out, ok := h.recalculate(w, &tx, req.Touched)
	if !ok {
		return
	}

	if err := h.store.Save(out); err != nil {
		h.log.Error().Err(err).Str("transaction_id", tx.ID).Msg("Failed to save transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, out)
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	existing, err := h.store.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx := req.Transaction
	tx.ID = id
	tx.CreatedAt = existing.CreatedAt

	out, ok := h.recalculate(w, &tx, req.Touched)
	if !ok {
		return
	}

	if err := h.store.Save(out); err != nil {
		h.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to save transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(id); err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recalculate records the touched fields on the record's edit session and
// runs the engine. It writes the error response itself on failure.
func (h *TransactionsHandler) recalculate(w http.ResponseWriter, tx *domain.Transaction, touched []string) (*domain.Transaction, bool) {
	sess := h.store.Session(tx.ID)
	for _, field := range touched {
		sess.Touch(tx, field)
	}

	out, err := engine.Calculate(*tx, sess)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownBrokerage) {
			middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return nil, false
		}
		h.log.Error().Err(err).Str("transaction_id", tx.ID).Msg("Calculation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Calculation failed")
		return nil, false
	}
	return &out, true
}

// CalculateHandler handles the stateless preview endpoint.
type CalculateHandler struct {
	log zerolog.Logger
}

func NewCalculateHandler(log zerolog.Logger) *CalculateHandler {
	return &CalculateHandler{log: log}
}

// Calculate handles POST /api/calculate. It runs the engine over the
// submitted record without persisting anything, so the dashboard can show
// live derived values while a row is being edited.
func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := engine.NewSession()
	tx := req.Transaction
	for _, field := range req.Touched {
		sess.Touch(&tx, field)
	}

	out, err := engine.Calculate(tx, sess)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownBrokerage) {
			middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Calculation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Calculation failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, out)
}

// ScansHandler handles document upload and scan retrieval.
type ScansHandler struct {
	archive   archive.Storage
	publisher jobs.Publisher
	results   *scan.Results
	log       zerolog.Logger
}

func NewScansHandler(st archive.Storage, publisher jobs.Publisher, results *scan.Results, log zerolog.Logger) *ScansHandler {
	return &ScansHandler{
		archive:   st,
		publisher: publisher,
		results:   results,
		log:       log,
	}
}

// Upload handles POST /api/scans. It archives the uploaded document and
// enqueues a scan job; the candidate is fetched later by scan ID.
func (h *ScansHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	gcsURI, err := h.archive.Upload(ctx, header.Filename, data)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to archive document")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to archive document")
		return
	}

	scanID := uuid.NewString()
	job := &jobs.ScanDocumentJob{
		ScanID:   scanID,
		GCSURI:   gcsURI,
		MIMEType: mimeType,
	}

	if err := h.publisher.PublishScanDocument(ctx, job); err != nil {
		h.log.Error().Err(err).Str("scan_id", scanID).Msg("Failed to enqueue scan job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan job")
		return
	}

	h.log.Info().
		Str("scan_id", scanID).
		Str("job_id", job.JobID).
		Str("gcs_uri", gcsURI).
		Msg("Scan job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"scan_id": scanID,
		"job_id":  job.JobID,
		"gcs_uri": gcsURI,
		"status":  string(job.Status),
	})
}

// Get handles GET /api/scans/{id}
func (h *ScansHandler) Get(w http.ResponseWriter, r *http.Request, scanID string) {
	candidate, errMsg, done := h.results.Get(scanID)
	if !done {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "pending"})
		return
	}
	if errMsg != "" {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "failed",
			"error":  errMsg,
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "completed",
		"candidate": candidate,
	})
}

// SheetsHandler triggers pushes to and pulls from the Google Sheet.
type SheetsHandler struct {
	store *store.Store
	sheet sheetsync.SheetService
	log   zerolog.Logger
}

func NewSheetsHandler(st *store.Store, sheet sheetsync.SheetService, log zerolog.Logger) *SheetsHandler {
	return &SheetsHandler{store: st, sheet: sheet, log: log}
}

// Push handles POST /api/sheets/push
func (h *SheetsHandler) Push(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	if err := sheetsync.Push(r.Context(), h.store, h.sheet, dryRun); err != nil {
		h.log.Error().Err(err).Msg("Sheet push failed")
		middleware.WriteError(w, http.StatusBadGateway, "Sheet push failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "pushed",
		"count":   len(h.store.List()),
		"dry_run": dryRun,
	})
}

// Pull handles POST /api/sheets/pull
func (h *SheetsHandler) Pull(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	count, err := sheetsync.Pull(r.Context(), h.store, h.sheet, dryRun)
	if err != nil {
		h.log.Error().Err(err).Msg("Sheet pull failed")
		middleware.WriteError(w, http.StatusBadGateway, "Sheet pull failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "pulled",
		"count":   count,
		"dry_run": dryRun,
	})
}

// ExportHandler streams the transaction set as an Excel workbook.
type ExportHandler struct {
	store *store.Store
	log   zerolog.Logger
}

func NewExportHandler(st *store.Store, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{store: st, log: log}
}

// Export handles GET /api/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ptrs := h.store.List()
	txs := make([]domain.Transaction, 0, len(ptrs))
	for _, tx := range ptrs {
		txs = append(txs, *tx)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "commissions.xlsx"))

	if err := export.Write(w, txs); err != nil {
		// Headers are already out; all we can do is log.
		h.log.Error().Err(err).Msg("Excel export failed")
	}
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		ScanID: query.Get("scan_id"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
