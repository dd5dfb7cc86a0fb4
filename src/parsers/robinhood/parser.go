// Package robinhood parses Robinhood consolidated Form 1099-B statements.
//
// The layout puts the sale date first on each transaction line, writes "..."
// for empty columns, and tags the wash-sale/discount column with a one-letter
// marker. Two record shapes exist: plain dated lines, and batch groups opened
// by an "N transactions for DATE." header whose members carry no date of
// their own. The trailing "Total of N transactions" line restates the
// members and must not be emitted again.
package robinhood

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/csv1099/backend/src/models"
)

var (
	leadingDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}\s`)
	exactDateRe   = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	batchHeaderRe = regexp.MustCompile(`^\d+ transactions? for (\d{2}/\d{2}/\d{2})\.`)
	batchMemberRe = regexp.MustCompile(`\d+ of \d+`)
	batchTotalRe  = regexp.MustCompile(`(?i)Total of \d+ transactions`)
	summaryMarkRe = regexp.MustCompile(`(?i)ecurity|otals`)
	cusipMarkerRe = regexp.MustCompile(`/\s*CUSIP:`)
	cusipFieldRe  = regexp.MustCompile(`/\s*CUSIP:\s*(\w*)`)
	descFieldRe   = regexp.MustCompile(`^(.+?)\s*/\s*CUSIP:`)
	symbolFieldRe = regexp.MustCompile(`/\s*Symbol:\s*(\w*)`)
)

// RobinhoodParser implements the statement parser for Robinhood documents.
type RobinhoodParser struct{}

func NewParser() *RobinhoodParser {
	return &RobinhoodParser{}
}

// scanContext is the assembler state threaded through the line scan: the
// active security, the section the page sits in, and the open batch group's
// sale date (empty when no batch is open).
type scanContext struct {
	description   string
	cusip         string
	symbol        string
	term          string
	basisReported string
	batchDateSold string
}

// lineFields are the line-local columns shared by dated and batch lines.
type lineFields struct {
	dateSold              string
	quantity              string
	proceeds              string
	dateAcquired          string
	costBasis             string
	accruedMarketDiscount string
	washSaleLoss          string
	gainLoss              string
	gainLossCode          string
	additionalInfo        string
}

// Parse walks all eligible 1099-B pages and assembles the transactions.
func (p *RobinhoodParser) Parse(pages []string) ([]models.Transaction, error) {
	eligible := extractTransactionPages(pages)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: this statement may not contain Robinhood broker transactions", models.ErrNoTransactionPages)
	}

	var transactions []models.Transaction
	ctx := scanContext{term: "Short-Term", basisReported: "Yes"}

	for _, page := range eligible {
		ctx = applySectionHeaders(ctx, page)

		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}

			if desc, cusip, symbol, ok := parseDescriptionLine(trimmed); ok {
				ctx.description, ctx.cusip, ctx.symbol = desc, cusip, symbol
				ctx.batchDateSold = ""
				continue
			}

			if m := batchHeaderRe.FindStringSubmatch(trimmed); m != nil {
				ctx.batchDateSold = m[1]
				continue
			}

			if fields, ok := parseTransactionLine(trimmed); ok {
				transactions = appendTransaction(transactions, ctx, fields)
				ctx.batchDateSold = ""
				continue
			}

			if ctx.batchDateSold != "" {
				if fields, ok := parseBatchLine(trimmed, ctx.batchDateSold); ok {
					transactions = appendTransaction(transactions, ctx, fields)
				}
			}
		}
	}

	return transactions, nil
}

// extractTransactionPages keeps the pages carrying 1099-B sale sections.
func extractTransactionPages(pages []string) []string {
	var eligible []string
	for _, text := range pages {
		if !strings.Contains(text, "Proceeds from Broker and Barter Exchange Transactions") {
			continue
		}
		if strings.Contains(text, "SHORT TERM TRANSACTIONS") ||
			strings.Contains(text, "LONG TERM TRANSACTIONS") ||
			strings.Contains(text, "UNDETERMINED TERM") ||
			strings.Contains(text, "Security total:") ||
			strings.Contains(text, "Securitytotal:") {
			eligible = append(eligible, text)
		}
	}
	return eligible
}

// applySectionHeaders updates the term and basis-reporting context from the
// covered/noncovered section banners on a page. Pages without a banner keep
// the previous section's classification.
func applySectionHeaders(ctx scanContext, page string) scanContext {
	switch {
	case strings.Contains(page, "SHORT TERM TRANSACTIONS FOR COVERED TAX LOTS"):
		ctx.term, ctx.basisReported = "Short-Term", "Yes"
	case strings.Contains(page, "SHORT TERM TRANSACTIONS FOR NONCOVERED TAX LOTS"):
		ctx.term, ctx.basisReported = "Short-Term", "No"
	case strings.Contains(page, "LONG TERM TRANSACTIONS FOR COVERED TAX LOTS"):
		ctx.term, ctx.basisReported = "Long-Term", "Yes"
	case strings.Contains(page, "LONG TERM TRANSACTIONS FOR NONCOVERED TAX LOTS"):
		ctx.term, ctx.basisReported = "Long-Term", "No"
	}
	return ctx
}

// parseDescriptionLine recognizes a security header such as
//
//	DELTA AIR LINES, INC. / CUSIP: 247361702 / Symbol: DAL
//	AAL 12/04/2020 CALL $15.00 / CUSIP: / Symbol:
//
// CUSIP and symbol may both be blank for options contracts.
func parseDescriptionLine(line string) (description, cusip, symbol string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || !cusipMarkerRe.MatchString(line) {
		return "", "", "", false
	}

	if m := cusipFieldRe.FindStringSubmatch(line); m != nil {
		cusip = strings.TrimSpace(m[1])
	}
	if m := descFieldRe.FindStringSubmatch(line); m != nil {
		description = strings.TrimSpace(m[1])
	}
	if m := symbolFieldRe.FindStringSubmatch(line); m != nil {
		symbol = strings.TrimSpace(m[1])
	}
	return description, cusip, symbol, true
}

// parseTransactionLine recognizes a dated transaction such as
//
//	03/24/25 62.729 3,069.84 03/24/25 3,000.00 ... 69.84 Sale
//	11/25/25 1,332.406 45,368.16 Various 61,000.00 15,631.84 W 0.00 Sale
func parseTransactionLine(line string) (lineFields, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !leadingDateRe.MatchString(line) {
		return lineFields{}, false
	}
	if summaryMarkRe.MatchString(line) || batchTotalRe.MatchString(line) {
		return lineFields{}, false
	}

	tokens := strings.Fields(line)
	if len(tokens) < 7 {
		return lineFields{}, false
	}
	if !exactDateRe.MatchString(tokens[0]) {
		return lineFields{}, false
	}

	fields := lineFields{
		dateSold:     tokens[0],
		quantity:     tokens[1],
		proceeds:     tokens[2],
		dateAcquired: tokens[3], // "MM/DD/YY" or "Various"
		costBasis:    tokens[4],
	}
	parseTailColumns(tokens, 5, &fields)
	return fields, true
}

// parseBatchLine recognizes a batch group member such as
//
//	1.000 85.99 12/01/20 26.00 ... 59.99 1 of 3 - Option sale to close-call
//
// Members carry no sale date of their own; the enclosing batch header's date
// is inherited. The "X of Y" marker is what distinguishes a member from
// arbitrary page text.
func parseBatchLine(line, batchDateSold string) (lineFields, bool) {
	line = strings.TrimSpace(line)
	if line == "" || leadingDateRe.MatchString(line) {
		return lineFields{}, false
	}
	if !batchMemberRe.MatchString(line) {
		return lineFields{}, false
	}

	tokens := strings.Fields(line)
	if len(tokens) < 6 {
		return lineFields{}, false
	}

	fields := lineFields{
		dateSold:     batchDateSold,
		quantity:     tokens[0],
		proceeds:     tokens[1],
		dateAcquired: tokens[2],
		costBasis:    tokens[3],
	}
	parseTailColumns(tokens, 4, &fields)
	return fields, true
}

// parseTailColumns consumes the wash-sale/discount column, the gain/loss
// column with its optional loss code, and the free-text remainder. A "..."
// placeholder means the wash column is empty; otherwise the amount is
// classified by the one-letter marker that follows it (W for wash sale, D
// for market discount), defaulting to wash sale when the marker is absent.
func parseTailColumns(tokens []string, idx int, fields *lineFields) {
	washOrDiscount := ""
	marker := ""

	if idx < len(tokens) && tokens[idx] == "..." {
		idx++
	} else if idx < len(tokens) {
		washOrDiscount = tokens[idx]
		idx++
		if idx < len(tokens) && (tokens[idx] == "W" || tokens[idx] == "D") {
			marker = tokens[idx]
			idx++
		}
	}

	if idx < len(tokens) {
		fields.gainLoss = tokens[idx]
		idx++
		if idx < len(tokens) && (tokens[idx] == "X" || tokens[idx] == "Z") {
			fields.gainLossCode = tokens[idx]
			idx++
		}
	}

	if idx < len(tokens) {
		fields.additionalInfo = strings.Join(tokens[idx:], " ")
	}

	switch {
	case marker == "W":
		fields.washSaleLoss = washOrDiscount
	case marker == "D":
		fields.accruedMarketDiscount = washOrDiscount
	case washOrDiscount != "":
		fields.washSaleLoss = washOrDiscount
	}
}

// appendTransaction combines the scan context with the line-local fields,
// splitting a trailing gross/net marker letter off the proceeds token.
func appendTransaction(transactions []models.Transaction, ctx scanContext, fields lineFields) []models.Transaction {
	proceeds := fields.proceeds
	grossNet := ""
	if strings.HasSuffix(proceeds, "G") || strings.HasSuffix(proceeds, "N") {
		grossNet = proceeds[len(proceeds)-1:]
		proceeds = strings.TrimSpace(proceeds[:len(proceeds)-1])
	}

	txn := models.Transaction{
		Description:           ctx.description,
		CUSIP:                 ctx.cusip,
		Symbol:                ctx.symbol,
		Quantity:              fields.quantity,
		DateAcquired:          fields.dateAcquired,
		DateSold:              fields.dateSold,
		Proceeds:              proceeds,
		CostBasis:             fields.costBasis,
		AccruedMarketDiscount: fields.accruedMarketDiscount,
		WashSaleLoss:          fields.washSaleLoss,
		GainLoss:              fields.gainLoss,
		GainLossCode:          fields.gainLossCode,
		AdditionalInfo:        fields.additionalInfo,
		GrossNet:              grossNet,
		Term:                  ctx.term,
		BasisReported:         ctx.basisReported,
	}
	if !txn.Valid() {
		return transactions
	}
	return append(transactions, txn)
}
