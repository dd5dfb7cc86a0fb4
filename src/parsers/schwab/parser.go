// Package schwab parses Charles Schwab 1099-B statements.
//
// The layout spreads each sale over two physical lines, occasionally three
// for matured bonds: line 1 carries quantity, description, acquisition date,
// and dollar-sign-delimited amounts; line 2 carries CUSIP, symbol, sale date,
// and an optional wash-sale figure. Amounts use "$" prefixes, "--" for empty
// columns, parentheses for negatives, and the literal "Not Provided" for a
// cost basis the broker will not report.
package schwab

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/csv1099/backend/src/models"
)

var (
	dollarSplitRe   = regexp.MustCompile(`\$\s*`)
	quantityRe      = regexp.MustCompile(`^([\d,]+\.?\d*)\s+(.+)`)
	acquiredDateRe  = regexp.MustCompile(`\s+(VARIOUS|\d{2}/\d{2}/\d{2}|--)\s*$`)
	saleTypeRe      = regexp.MustCompile(`\s+[SIP]\s*$`)
	notProvidedRe   = regexp.MustCompile(`\$\s*([\d,]+\.?\d*)\s+Not Provided`)
	trailingAmtRe   = regexp.MustCompile(`\$\s*([\d,]+\.?\d*)\s*$`)
	fullSecondRe    = regexp.MustCompile(`^(\w+)\s*/\s*(\w+)\s+(\d{2}/\d{2}/\d{2})\s*(.*)`)
	noSymbolRe      = regexp.MustCompile(`^(\w+)\s+(\d{2}/\d{2}/\d{2})\s*(.*)`)
	bareCusipRe     = regexp.MustCompile(`^(\w+)\s*$`)
	anyDateRe       = regexp.MustCompile(`\d{2}/\d{2}/\d{2}`)
	cusipShapeRe    = regexp.MustCompile(`^\w{5,12}$`)
	bareDiscountRe  = regexp.MustCompile(`^\$?\s*\d+\.\d{2}$`)
	cusipSlashRe    = regexp.MustCompile(`^\w{5,12}\s*/?\s*/`)
	numericSlashRe  = regexp.MustCompile(`^\d{5,9}\w?\s*/`)
	symbolPairRe    = regexp.MustCompile(`^\w+\s*/\s*\w+\s+\d{2}/\d{2}/\d{2}`)
	looseCusipRe    = regexp.MustCompile(`^\w+\s*/?\s*/?\s*\w*\s+\d{2}/\d{2}/\d{2}`)
	cusipThenDateRe = regexp.MustCompile(`^\w+\s+\d{2}/\d{2}/\d{2}`)
)

// Page furniture that must not be mistaken for transaction line pairs.
var skipPatterns = []string{
	"Schwab One", "FORM 1099", "DESIGNATED BENE", "Date Prepared",
	"Taxpayer ID", "Recipient's Name", "Payer's Name", "CHARLES SCHWAB",
	"Telephone", "Account Number", "Federal ID", "__",
	"Proceeds from Broker", "Department of the Treasury",
	"SHORT-TERM TRANSACTIONS", "LONG-TERM TRANSACTIONS",
	"1b-Date", "1a-Description", "1c-Date", "(Example 100",
	"CUSIP Number / Symbol", "Security Subtotal", "Total Short-Term",
	"Total Long-Term", "Total Sales Price", "Total Federal",
	"FATCA Filing", "Please see", "This is important", "on you if",
	"Copy B for Recipient", "6-Reported to IRS", "acquired", "disposed",
	"Page ", "Charles Schwab",
}

// Subtotal and banner lines that contain "$" yet are never transactions.
var neverTransaction = []string{
	"Security Subtotal", "Total Short", "Total Long", "Total Sales",
	"Total Federal", "FATCA", "Department of the Treasury", "Copy B",
	"Proceeds from Broker",
}

// SchwabParser implements the statement parser for Schwab documents.
type SchwabParser struct{}

func NewParser() *SchwabParser {
	return &SchwabParser{}
}

// classifiedPage is an eligible page tagged with the section context that
// was active when it appeared. Section banners do not repeat on
// continuation pages, so the classification carries across pages.
type classifiedPage struct {
	text          string
	term          string
	basisReported string
}

// Parse walks all eligible 1099-B pages and assembles the transactions.
func (p *SchwabParser) Parse(pages []string) ([]models.Transaction, error) {
	eligible := extractTransactionPages(pages)
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: this statement may not contain Schwab broker transactions", models.ErrNoTransactionPages)
	}

	var transactions []models.Transaction
	for _, page := range eligible {
		transactions = append(transactions, parsePage(page)...)
	}
	return transactions, nil
}

// extractTransactionPages filters and classifies the 1099-B sale pages,
// threading the term/basis section context across page boundaries.
func extractTransactionPages(pages []string) []classifiedPage {
	var eligible []classifiedPage
	term, basis := "Short-Term", "Yes"

	for _, text := range pages {
		if !strings.Contains(text, "Proceeds from Broker Transactions") {
			continue
		}
		if strings.Contains(text, "INSTRUCTIONS FOR RECIPIENTS") {
			continue
		}
		if strings.Contains(text, "Notes for Your Form 1099-B") && !strings.Contains(text, "CUSIP Number") {
			continue
		}
		if !strings.Contains(text, "CUSIP Number") {
			continue
		}

		switch {
		case strings.Contains(text, "SHORT-TERM TRANSACTIONS FOR WHICH BASIS IS REPORTED"):
			term, basis = "Short-Term", "Yes"
		case strings.Contains(text, "SHORT-TERM TRANSACTIONS FOR WHICH BASIS IS MISSING"):
			term, basis = "Short-Term", "No"
		case strings.Contains(text, "SHORT-TERM TRANSACTIONS FOR WHICH BASIS IS AVAILABLE BUT"):
			term, basis = "Short-Term", "Available but not reported"
		case strings.Contains(text, "LONG-TERM TRANSACTIONS FOR WHICH BASIS IS REPORTED"):
			term, basis = "Long-Term", "Yes"
		case strings.Contains(text, "LONG-TERM TRANSACTIONS FOR WHICH BASIS IS MISSING"):
			term, basis = "Long-Term", "No"
		case strings.Contains(text, "LONG-TERM TRANSACTIONS FOR WHICH BASIS IS AVAILABLE BUT"):
			term, basis = "Long-Term", "Available but not reported"
		}

		eligible = append(eligible, classifiedPage{text: text, term: term, basisReported: basis})
	}
	return eligible
}

// parsePage scans one classified page, pairing adjacent lines into
// transactions. An unterminated pair at the end of the page is dropped.
func parsePage(page classifiedPage) []models.Transaction {
	var transactions []models.Transaction
	lines := strings.Split(page.text, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if skipLine(line) {
			i++
			continue
		}

		hasDollar := strings.Contains(line, "$")
		nextLine := ""
		if i+1 < len(lines) {
			nextLine = strings.TrimSpace(lines[i+1])
		}
		nextIsSecondLine := secondLineShape(nextLine)

		if hasDollar && nextIsSecondLine {
			txn := parseTransactionPair(line, nextLine, page.term, page.basisReported)
			i += 2

			// A third line may supply a CUSIP that line 2 omitted, or an
			// extra accrued-discount figure.
			if i < len(lines) {
				extra := strings.TrimSpace(lines[i])
				if cusipShapeRe.MatchString(extra) && txn.CUSIP == "" {
					txn.CUSIP = extra
					i++
				} else if bareDiscountRe.MatchString(extra) {
					txn.AccruedMarketDiscount = strings.TrimSpace(strings.ReplaceAll(extra, "$", ""))
					i++
				}
			}

			if txn.Valid() {
				transactions = append(transactions, txn)
			}
			continue
		}

		// Matured bonds span three lines: amounts, then a dated
		// continuation, then a bare CUSIP.
		if hasDollar {
			dateLoc := anyDateRe.FindStringIndex(nextLine)
			lineAfter := ""
			if i+2 < len(lines) {
				lineAfter = strings.TrimSpace(lines[i+2])
			}
			if dateLoc != nil && cusipShapeRe.MatchString(lineAfter) {
				txn := parseTransactionPair(line, nextLine, page.term, page.basisReported)
				txn.CUSIP = lineAfter
				if extraDesc := strings.TrimSpace(nextLine[:dateLoc[0]]); extraDesc != "" {
					txn.Description = txn.Description + " " + extraDesc
				}
				if txn.Valid() {
					transactions = append(transactions, txn)
				}
				i += 3
				continue
			}
		}

		i++
	}

	return transactions
}

// skipLine reports whether a line is page furniture. Lines matching a skip
// pattern are still examined when they contain a currency symbol, since
// security descriptions can embed words from the pattern list; subtotal and
// banner lines are excluded unconditionally.
func skipLine(line string) bool {
	matched := false
	for _, p := range skipPatterns {
		if strings.HasPrefix(line, p) || strings.Contains(line, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if !strings.Contains(line, "$") {
		return true
	}
	for _, p := range neverTransaction {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}

// secondLineShape reports whether a line looks like the CUSIP/date second
// line of a transaction pair.
func secondLineShape(line string) bool {
	if line == "" {
		return false
	}
	return cusipSlashRe.MatchString(line) ||
		numericSlashRe.MatchString(line) ||
		symbolPairRe.MatchString(line) ||
		looseCusipRe.MatchString(line) ||
		cusipThenDateRe.MatchString(line) ||
		strings.HasPrefix(line, "--") ||
		cusipShapeRe.MatchString(line)
}

// parseTransactionPair assembles one transaction from its two physical
// lines.
//
// Line 1: [qty] [description] [S|I|P] [date acquired|VARIOUS|--]
// followed by $-delimited proceeds, cost basis, accrued discount or "--",
// gain/loss, and federal withholding.
//
// Line 2: [cusip] [/ symbol] [date sold] [wash sale|--]
func parseTransactionPair(line1, line2, term, basisReported string) models.Transaction {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	dollarParts := dollarSplitRe.Split(line1, -1)
	prefix := strings.TrimSpace(dollarParts[0])

	quantity := ""
	rest := prefix
	if m := quantityRe.FindStringSubmatch(prefix); m != nil {
		quantity = strings.ReplaceAll(m[1], ",", "")
		rest = strings.TrimSpace(m[2])
	}

	dateAcquired := ""
	if loc := acquiredDateRe.FindStringSubmatchIndex(rest); loc != nil {
		dateAcquired = rest[loc[2]:loc[3]]
		rest = strings.TrimSpace(rest[:loc[0]])
	}

	description := strings.TrimSpace(saleTypeRe.ReplaceAllString(rest, ""))

	var tokens []string
	for _, part := range dollarParts[1:] {
		tokens = append(tokens, strings.Fields(part)...)
	}

	var proceeds, costBasis, accrued, gainLoss, fedTax string

	if strings.Contains(line1, "Not Provided") {
		// "Not Provided" is a distinguished non-numeric basis: keep the
		// literal and pull the two amounts around it directly.
		if m := notProvidedRe.FindStringSubmatch(line1); m != nil {
			proceeds = models.NormalizeAmount(m[1])
		}
		costBasis = "Not Provided"
		if m := trailingAmtRe.FindStringSubmatch(line1); m != nil {
			fedTax = models.NormalizeAmount(m[1])
		}
	} else {
		idx := 0
		if idx < len(tokens) {
			proceeds = models.NormalizeAmount(tokens[idx])
			idx++
		}
		if idx < len(tokens) {
			costBasis = models.NormalizeAmount(tokens[idx])
			idx++
		}
		if idx < len(tokens) {
			if tokens[idx] == "--" {
				idx++
			} else {
				accrued = models.NormalizeAmount(tokens[idx])
				idx++
			}
		}
		if idx < len(tokens) {
			gainLoss = models.NormalizeAmount(tokens[idx])
			idx++
		}
		if idx < len(tokens) {
			fedTax = models.NormalizeAmount(tokens[idx])
		}
	}

	var cusip, symbol, dateSold, washSale string
	if m := fullSecondRe.FindStringSubmatch(line2); m != nil {
		cusip, symbol, dateSold = m[1], m[2], m[3]
		washSale = washField(m[4])
	} else if m := noSymbolRe.FindStringSubmatch(line2); m != nil {
		cusip, dateSold = m[1], m[2]
		washSale = washField(m[3])
	} else if m := bareCusipRe.FindStringSubmatch(line2); m != nil {
		cusip = m[1]
	}

	return models.Transaction{
		Description:           description,
		CUSIP:                 cusip,
		Symbol:                symbol,
		Quantity:              quantity,
		DateAcquired:          dateAcquired,
		DateSold:              dateSold,
		Proceeds:              proceeds,
		CostBasis:             costBasis,
		AccruedMarketDiscount: accrued,
		WashSaleLoss:          washSale,
		GainLoss:              gainLoss,
		FedTaxWithheld:        fedTax,
		Term:                  term,
		BasisReported:         basisReported,
	}
}

func washField(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" {
		return ""
	}
	return models.NormalizeAmount(s)
}
