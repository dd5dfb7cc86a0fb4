package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeSummary derives the portfolio-level aggregate from a transaction
// list. Sums are accumulated as exact decimals and rounded to two places
// once at the end, so per-addend rounding error cannot compound.
func ComputeSummary(transactions []Transaction) ParseSummary {
	var proceeds, costBasis, gainLoss, washSales decimal.Decimal
	shortTerm, longTerm := 0, 0
	securities := make(map[string]struct{})

	for _, txn := range transactions {
		// Proceeds may carry a trailing gross/net marker letter.
		p := strings.TrimRight(txn.Proceeds, "GN")
		if d, ok := summand(p); ok {
			proceeds = proceeds.Add(d)
		}

		// "Not Provided" counts as zero in the total; the stored field
		// keeps the literal string.
		if txn.CostBasis != "Not Provided" {
			if d, ok := summand(txn.CostBasis); ok {
				costBasis = costBasis.Add(d)
			}
		}

		if d, ok := summand(txn.GainLoss); ok {
			gainLoss = gainLoss.Add(d)
		}
		if txn.WashSaleLoss != "" {
			if d, ok := summand(txn.WashSaleLoss); ok {
				washSales = washSales.Add(d)
			}
		}

		if txn.Description != "" {
			securities[txn.Description] = struct{}{}
		}

		term := strings.ToLower(txn.Term)
		if strings.Contains(term, "short") {
			shortTerm++
		} else if strings.Contains(term, "long") {
			longTerm++
		}
	}

	return ParseSummary{
		TotalTransactions: len(transactions),
		UniqueSecurities:  len(securities),
		TotalProceeds:     proceeds.Round(2).InexactFloat64(),
		TotalCostBasis:    costBasis.Round(2).InexactFloat64(),
		TotalGainLoss:     gainLoss.Round(2).InexactFloat64(),
		TotalWashSales:    washSales.Round(2).InexactFloat64(),
		ShortTermCount:    shortTerm,
		LongTermCount:     longTerm,
	}
}

// summand parses a stored field into a decimal for totaling. Empty and
// non-numeric values contribute nothing.
func summand(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
