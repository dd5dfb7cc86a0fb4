package parsers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/csv1099/backend/src/models"
)

func TestParserFor(t *testing.T) {
	for _, broker := range []models.Broker{models.BrokerFidelity, models.BrokerRobinhood, models.BrokerSchwab} {
		parser, err := ParserFor(broker)
		require.NoError(t, err, "broker %s", broker)
		assert.NotNil(t, parser)
	}
}

func TestParserForUnknown(t *testing.T) {
	parser, err := ParserFor(models.BrokerUnknown)
	assert.Nil(t, parser)
	assert.True(t, errors.Is(err, models.ErrUnknownBroker))
}
