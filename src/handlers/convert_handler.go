package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/csv1099/backend/src/config"
	"github.com/username/csv1099/backend/src/logger"
	"github.com/username/csv1099/backend/src/models"
	"github.com/username/csv1099/backend/src/security/validation"
	"github.com/username/csv1099/backend/src/services"
	"github.com/username/csv1099/backend/src/utils"
)

// ConvertRequest is the POST /api/convert payload: the page texts extracted
// from the statement PDF, in reading order.
type ConvertRequest struct {
	Pages []string `json:"pages"`
}

type ConvertHandler struct {
	convertService services.ConvertService
}

func NewConvertHandler(service services.ConvertService) *ConvertHandler {
	return &ConvertHandler{
		convertService: service,
	}
}

// HandleConvert runs the full conversion over the submitted page texts and
// responds with the detected broker, the transactions, the summary, and a
// conversion id for the CSV download.
func (h *ConvertHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxRequestBytes)

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.L.Warn("Failed to decode convert request", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Invalid request body (max %d MB): expected {\"pages\": [...]}", config.Cfg.MaxRequestBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePages(req.Pages, config.Cfg.MaxPagesPerDoc, config.Cfg.MaxRequestBytes); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	pages := validation.SanitizePages(req.Pages)

	logger.L.Info("Processing convert request", "pages", len(pages))
	result, err := h.convertService.Convert(pages)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyDocument):
			utils.SendJSONError(w, "Could not find any pages in this document.", http.StatusBadRequest)
		case errors.Is(err, models.ErrUnknownBroker):
			utils.SendJSONError(w, "Could not detect a supported broker (Fidelity, Robinhood, or Charles Schwab) in this document.", http.StatusUnprocessableEntity)
		case errors.Is(err, models.ErrNoTransactionPages):
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			logger.L.Error("Internal error processing conversion", "error", err)
			utils.SendJSONError(w, "An internal error occurred while converting the document. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Failed to encode convert response", "conversionID", result.ID, "error", err)
	}
}

// HandleDownloadCSV streams the converted transactions of a prior
// conversion as a CSV attachment.
func (h *ConvertHandler) HandleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		utils.SendJSONError(w, "Conversion id is required.", http.StatusBadRequest)
		return
	}

	csvContent, err := h.convertService.ResultCSV(id)
	if err != nil {
		if errors.Is(err, services.ErrConversionNotFound) {
			utils.SendJSONError(w, "Conversion not found or expired. Convert the document again.", http.StatusNotFound)
			return
		}
		logger.L.Error("Internal error rendering CSV", "conversionID", id, "error", err)
		utils.SendJSONError(w, "An internal error occurred while rendering the CSV.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="1099_transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csvContent)); err != nil {
		logger.L.Error("Failed to write CSV response", "conversionID", id, "error", err)
	}
}
