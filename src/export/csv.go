// Package export renders canonical transactions to the downloadable CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/username/csv1099/backend/src/models"
)

// csvHeaders is the fixed 18-column header, numbered after the IRS Form
// 1099-B boxes. Column order is a compatibility contract with downstream
// tax software imports; do not reorder.
var csvHeaders = []string{
	"Description (1a)",
	"CUSIP",
	"Symbol",
	"Quantity",
	"Date Acquired (1b)",
	"Date Sold (1c)",
	"Proceeds (1d)",
	"Gross/Net (6)",
	"Cost or Other Basis (1e)",
	"Accrued Market Discount (1f)",
	"Wash Sale Loss Disallowed (1g)",
	"Gain or Loss",
	"Loss Code (7)",
	"Additional Information",
	"Federal Income Tax Withheld (4)",
	"State Tax Withheld",
	"Term",
	"Basis Reported to IRS (12)",
}

// TransactionsCSV renders the transaction list as CRLF-terminated CSV.
// Fields containing commas, quotes, or newlines are quoted with embedded
// quotes doubled.
func TransactionsCSV(transactions []models.Transaction) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(csvHeaders); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}

	for _, txn := range transactions {
		row := []string{
			txn.Description,
			txn.CUSIP,
			txn.Symbol,
			txn.Quantity,
			txn.DateAcquired,
			txn.DateSold,
			txn.Proceeds,
			txn.GrossNet,
			txn.CostBasis,
			txn.AccruedMarketDiscount,
			txn.WashSaleLoss,
			txn.GainLoss,
			txn.GainLossCode,
			txn.AdditionalInfo,
			txn.FedTaxWithheld,
			txn.StateTaxWithheld,
			txn.Term,
			txn.BasisReported,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.String(), nil
}
