package models

// Broker identifies which brokerage issued a 1099-B statement. The set is
// closed: parser dispatch switches over exactly these values.
type Broker string

const (
	BrokerFidelity  Broker = "fidelity"
	BrokerRobinhood Broker = "robinhood"
	BrokerSchwab    Broker = "schwab"
	BrokerUnknown   Broker = "unknown"
)

// DisplayName returns the user-facing name for a broker.
func (b Broker) DisplayName() string {
	switch b {
	case BrokerFidelity:
		return "Fidelity"
	case BrokerRobinhood:
		return "Robinhood"
	case BrokerSchwab:
		return "Charles Schwab"
	default:
		return "Unknown Broker"
	}
}

// Transaction is the canonical representation of one brokerage sale, as it
// will appear in the exported CSV. Every field is decimal-preserving text or
// enumerated text, never a parsed currency value: source documents mix
// numeric tokens with sentinel strings ("Not Provided", "Various") that must
// survive the round trip untouched.
type Transaction struct {
	Description           string `json:"description"`
	Symbol                string `json:"symbol"`
	CUSIP                 string `json:"cusip"`
	Quantity              string `json:"quantity"`
	DateAcquired          string `json:"dateAcquired"`
	DateSold              string `json:"dateSold"`
	Proceeds              string `json:"proceeds"`
	CostBasis             string `json:"costBasis"`
	AccruedMarketDiscount string `json:"accruedMarketDiscount"`
	WashSaleLoss          string `json:"washSaleLoss"`
	GainLoss              string `json:"gainLoss"`
	GainLossCode          string `json:"gainLossCode"`
	FedTaxWithheld        string `json:"fedTaxWithheld"`
	StateTaxWithheld      string `json:"stateTaxWithheld"`
	Term                  string `json:"term"`
	BasisReported         string `json:"basisReported"`
	AdditionalInfo        string `json:"additionalInfo"`
	GrossNet              string `json:"grossNet"`
}

// Valid reports whether a transaction carries enough substance to emit.
// Records with no description, or with neither a sale date nor proceeds,
// are dropped by the assemblers rather than emitted half-empty.
func (t Transaction) Valid() bool {
	if t.Description == "" {
		return false
	}
	return t.DateSold != "" || t.Proceeds != ""
}

// ParseSummary is the portfolio-level aggregate derived from a transaction
// list. It is recomputed in full by ComputeSummary, never mutated
// incrementally.
type ParseSummary struct {
	TotalTransactions int     `json:"totalTransactions"`
	UniqueSecurities  int     `json:"uniqueSecurities"`
	TotalProceeds     float64 `json:"totalProceeds"`
	TotalCostBasis    float64 `json:"totalCostBasis"`
	TotalGainLoss     float64 `json:"totalGainLoss"`
	TotalWashSales    float64 `json:"totalWashSales"`
	ShortTermCount    int     `json:"shortTermCount"`
	LongTermCount     int     `json:"longTermCount"`
}
