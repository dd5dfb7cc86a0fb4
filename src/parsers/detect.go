package parsers

import (
	"strings"

	"github.com/username/csv1099/backend/src/models"
)

// prefixPages bounds how many leading pages carry the statement cover and
// payer identification on every supported broker's layout.
const prefixPages = 5

// DetectBroker scans the extracted page texts for brand signatures and
// returns the issuing broker. The cover pages are checked first, then the
// whole document, in fixed priority order Fidelity, Robinhood, Schwab.
// Detection never fails: an unrecognized statement yields BrokerUnknown,
// which the caller surfaces as an error at the service layer.
func DetectBroker(pages []string) models.Broker {
	n := len(pages)
	if n > prefixPages {
		n = prefixPages
	}
	prefix := strings.Join(pages[:n], "\n")
	full := strings.Join(pages, "\n")

	if strings.Contains(prefix, "FIDELITY BROKERAGE") ||
		strings.Contains(prefix, "Fidelity Brokerage") ||
		(strings.Contains(prefix, "Fidelity") && strings.Contains(prefix, "TAX REPORTING STATEMENT")) ||
		(strings.Contains(prefix, "FORM 1099-B") && strings.Contains(prefix, "Fidelity")) ||
		strings.Contains(full, "FIDELITY BROKERAGE") {
		return models.BrokerFidelity
	}

	if strings.Contains(prefix, "Robinhood Markets") ||
		strings.Contains(prefix, "Robinhood Securities") ||
		strings.Contains(prefix, "ROBINHOOD SECURITIES") ||
		strings.Contains(full, "Robinhood Markets") {
		return models.BrokerRobinhood
	}

	if strings.Contains(prefix, "Schwab One") ||
		strings.Contains(prefix, "Charles Schwab") ||
		strings.Contains(prefix, "CHARLES SCHWAB") ||
		strings.Contains(full, "Charles Schwab") ||
		strings.Contains(full, "CHARLES SCHWAB") {
		return models.BrokerSchwab
	}

	return models.BrokerUnknown
}
