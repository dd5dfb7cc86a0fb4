package schwab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/csv1099/backend/src/models"
)

const pageHeader = "Proceeds from Broker Transactions\n" +
	"SHORT-TERM TRANSACTIONS FOR WHICH BASIS IS REPORTED TO THE IRS\n" +
	"1a-Description of Property/CUSIP Number / Symbol\n"

func TestParseTransactionPair(t *testing.T) {
	page := pageHeader +
		"10 APPLE INC S 01/02/23 $ 1,500.00 $ 1,200.00 $ 300.00 $ 0.00\n" +
		"037833100 / AAPL 06/01/23 --\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "APPLE INC", txn.Description)
	assert.Equal(t, "037833100", txn.CUSIP)
	assert.Equal(t, "AAPL", txn.Symbol)
	assert.Equal(t, "10", txn.Quantity)
	assert.Equal(t, "01/02/23", txn.DateAcquired)
	assert.Equal(t, "06/01/23", txn.DateSold)
	assert.Equal(t, "1500.00", txn.Proceeds)
	assert.Equal(t, "1200.00", txn.CostBasis)
	// The "--" on line 2 is the empty sentinel for the wash-sale column.
	assert.Equal(t, "", txn.WashSaleLoss)
	assert.Equal(t, "300.00", txn.AccruedMarketDiscount)
	assert.Equal(t, "0.00", txn.GainLoss)
	assert.Equal(t, "Short-Term", txn.Term)
	assert.Equal(t, "Yes", txn.BasisReported)
}

func TestParseWashSaleAndNegativeGain(t *testing.T) {
	page := pageHeader +
		"5 GIZMO CORP S 02/10/23 $ 900.00 $ 1,150.00 -- $ (250.00) $ 0.00\n" +
		"12345X678 / GZMO 03/01/23 $ 150.00\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "900.00", txns[0].Proceeds)
	assert.Equal(t, "1150.00", txns[0].CostBasis)
	assert.Equal(t, "", txns[0].AccruedMarketDiscount)
	assert.Equal(t, "-250.00", txns[0].GainLoss)
	assert.Equal(t, "150.00", txns[0].WashSaleLoss)
}

func TestNotProvidedCostBasis(t *testing.T) {
	page := pageHeader +
		"50 MYSTERY FUND S VARIOUS $ 1,200.00 Not Provided $ 10.00\n" +
		"99999Y999 06/30/24\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	// The literal survives untouched, never coerced to "0.00" or emptied.
	assert.Equal(t, "Not Provided", txn.CostBasis)
	assert.Equal(t, "1200.00", txn.Proceeds)
	assert.Equal(t, "10.00", txn.FedTaxWithheld)
	assert.Equal(t, "VARIOUS", txn.DateAcquired)
	assert.Equal(t, "99999Y999", txn.CUSIP)
	assert.Equal(t, "06/30/24", txn.DateSold)
	assert.Equal(t, "MYSTERY FUND", txn.Description)
}

func TestThirdLineAccruedDiscount(t *testing.T) {
	page := pageHeader +
		"10 APPLE INC S 01/02/23 $ 1,500.00 $ 1,200.00 -- $ 300.00 $ 0.00\n" +
		"037833100 / AAPL 06/01/23 --\n" +
		"$ 12.34\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "12.34", txns[0].AccruedMarketDiscount)
}

func TestMaturedBondThreeLines(t *testing.T) {
	page := pageHeader +
		"1,000 US TREASURY BILL DUE 09/15/24 S 03/12/24 $ 1,000.00 $ 990.00 -- $ 10.00 $ 0.00\n" +
		"(CALLED) 09/15/24\n" +
		"912796XY0\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "US TREASURY BILL DUE 09/15/24 (CALLED)", txn.Description)
	assert.Equal(t, "912796XY0", txn.CUSIP)
	assert.Equal(t, "1000", txn.Quantity)
	assert.Equal(t, "03/12/24", txn.DateAcquired)
	assert.Equal(t, "1000.00", txn.Proceeds)
	assert.Equal(t, "990.00", txn.CostBasis)
	assert.Equal(t, "10.00", txn.GainLoss)
}

func TestTruncatedPairIsDropped(t *testing.T) {
	page := pageHeader +
		"10 APPLE INC S 01/02/23 $ 1,500.00 $ 1,200.00 -- $ 300.00 $ 0.00\n" +
		"037833100 / AAPL 06/01/23 --\n" +
		"5 GIZMO CORP S 02/10/23 $ 900.00 $ 1,150.00 -- $ 250.00 $ 0.00\n"

	txns, err := NewParser().Parse([]string{page})
	require.NoError(t, err)
	// The second amounts line never got its CUSIP/date line.
	require.Len(t, txns, 1)
	assert.Equal(t, "APPLE INC", txns[0].Description)
}

func TestSectionContextCarriesAcrossPages(t *testing.T) {
	longMissing := "Proceeds from Broker Transactions\n" +
		"LONG-TERM TRANSACTIONS FOR WHICH BASIS IS MISSING AND NOT REPORTED TO THE IRS\n" +
		"1a-Description of Property/CUSIP Number / Symbol\n" +
		"10 APPLE INC S 01/02/21 $ 1,500.00 $ 1,200.00 -- $ 300.00 $ 0.00\n" +
		"037833100 / AAPL 06/01/23 --\n"
	continuation := "Proceeds from Broker Transactions\n" +
		"1a-Description of Property/CUSIP Number / Symbol\n" +
		"5 GIZMO CORP S 02/10/21 $ 900.00 $ 650.00 -- $ 250.00 $ 0.00\n" +
		"12345X678 / GZMO 03/01/23 --\n"
	available := "Proceeds from Broker Transactions\n" +
		"SHORT-TERM TRANSACTIONS FOR WHICH BASIS IS AVAILABLE BUT NOT REPORTED TO THE IRS\n" +
		"1a-Description of Property/CUSIP Number / Symbol\n" +
		"1 WIDGET CO S 02/10/24 $ 90.00 $ 65.00 -- $ 25.00 $ 0.00\n" +
		"55555Z555 / WDGT 03/01/24 --\n"

	txns, err := NewParser().Parse([]string{longMissing, continuation, available})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "Long-Term", txns[0].Term)
	assert.Equal(t, "No", txns[0].BasisReported)
	// The continuation page carries the previous section forward.
	assert.Equal(t, "Long-Term", txns[1].Term)
	assert.Equal(t, "No", txns[1].BasisReported)
	assert.Equal(t, "Short-Term", txns[2].Term)
	assert.Equal(t, "Available but not reported", txns[2].BasisReported)
}

func TestInstructionPagesAreExcluded(t *testing.T) {
	instructions := "Proceeds from Broker Transactions\n" +
		"INSTRUCTIONS FOR RECIPIENTS\n" +
		"CUSIP Number\n"

	txns, err := NewParser().Parse([]string{instructions})
	assert.Nil(t, txns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoTransactionPages))
}

func TestNoTransactionPages(t *testing.T) {
	txns, err := NewParser().Parse([]string{"a page about something else"})
	assert.Nil(t, txns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoTransactionPages))
}
