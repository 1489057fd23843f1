package http

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"spendwise/internal/analytics"
	"spendwise/internal/core"
	"spendwise/internal/log"
	"spendwise/internal/receipt"
)

const receiptFormField = "receipt_image"

type receiptScanResponse struct {
	Success           bool             `json:"success"`
	Amount            string           `json:"amount"`
	Merchant          string           `json:"merchant"`
	SuggestedCategory categoryResponse `json:"suggested_category"`
	RawText           string           `json:"raw_text"`
}

// handleReceiptScan accepts a multipart receipt image, runs it through the
// OCR collaborator and extracts amount, merchant and a suggested category.
// Unlike the insight endpoints this one does propagate upstream failures;
// the client needs to know the scan did not happen.
func (s *Server) handleReceiptScan(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	if s.recognizer == nil {
		respondError(w, http.StatusServiceUnavailable, "receipt scanning is not configured", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxReceiptBytes)
	if err := r.ParseMultipartForm(s.maxReceiptBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload", err.Error())
		return
	}
	file, header, err := r.FormFile(receiptFormField)
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing "+receiptFormField+" file", "")
		return
	}
	defer file.Close()

	// Spool the upload to a uniquely named temp file. The deferred remove
	// covers every exit path below.
	tmpPath := filepath.Join(os.TempDir(), "receipt-"+uuid.NewString()+filepath.Ext(header.Filename))
	tmp, err := os.Create(tmpPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}
	if err := tmp.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload", err.Error())
		return
	}

	image, err := os.ReadFile(tmpPath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read upload", err.Error())
		return
	}

	text, err := s.recognizer.RecognizeText(r.Context(), image, header.Filename)
	if err != nil {
		logger.ErrorContext(r.Context(), "OCR recognition failed",
			log.FieldComponent, log.ComponentOCR, log.FieldError, err)
		extraction := receipt.Failed(err)
		respondJSON(w, http.StatusBadGateway, receiptScanResponse{
			Success:           extraction.Success,
			Amount:            extraction.Amount.StringFixed(2),
			Merchant:          extraction.Merchant,
			SuggestedCategory: toCategoryResponse(core.CategoryOther),
		})
		return
	}

	extraction := receipt.Extract(text)
	suggested := analytics.Categorize(extraction.Merchant, extraction.RawText)

	respondJSON(w, http.StatusOK, receiptScanResponse{
		Success:           extraction.Success,
		Amount:            extraction.Amount.StringFixed(2),
		Merchant:          extraction.Merchant,
		SuggestedCategory: toCategoryResponse(suggested),
		RawText:           extraction.RawText,
	})
}
