package parsers

import (
	"fmt"

	"github.com/username/csv1099/backend/src/models"
	"github.com/username/csv1099/backend/src/parsers/fidelity"
	"github.com/username/csv1099/backend/src/parsers/robinhood"
	"github.com/username/csv1099/backend/src/parsers/schwab"
)

// ParserFor returns the statement parser for a detected broker.
func ParserFor(broker models.Broker) (StatementParser, error) {
	switch broker {
	case models.BrokerFidelity:
		return fidelity.NewParser(), nil
	case models.BrokerRobinhood:
		return robinhood.NewParser(), nil
	case models.BrokerSchwab:
		return schwab.NewParser(), nil
	default:
		return nil, fmt.Errorf("%w: no parser for %q", models.ErrUnknownBroker, broker)
	}
}
