package services

import (
	"errors"

	"github.com/username/csv1099/backend/src/models"
)

// ErrConversionNotFound indicates no cached conversion exists for an id,
// either because it never existed or its cache entry expired.
var ErrConversionNotFound = errors.New("conversion not found or expired")

// ConversionResult holds everything produced by one statement conversion.
type ConversionResult struct {
	ID           string               `json:"id"`
	Broker       models.Broker        `json:"broker"`
	BrokerName   string               `json:"brokerName"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      models.ParseSummary  `json:"summary"`
}

// ConvertService is the core conversion flow: detect the broker, run its
// parser over the page texts, and derive the summary. Results are retained
// briefly so the CSV can be downloaded in a follow-up request.
type ConvertService interface {
	Convert(pages []string) (*ConversionResult, error)
	ResultCSV(id string) (string, error)
}
