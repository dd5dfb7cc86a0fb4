package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/csv1099/backend/src/export"
	"github.com/username/csv1099/backend/src/logger"
	"github.com/username/csv1099/backend/src/models"
	"github.com/username/csv1099/backend/src/parsers"
)

const (
	ckConversionResult = "conv_result_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type convertServiceImpl struct {
	resultCache *cache.Cache
}

// NewConvertService builds the conversion service around a result cache.
func NewConvertService(resultCache *cache.Cache) ConvertService {
	return &convertServiceImpl{resultCache: resultCache}
}

func (s *convertServiceImpl) Convert(pages []string) (*ConversionResult, error) {
	startTime := time.Now()
	logger.L.Info("Convert START", "pages", len(pages))

	if len(pages) == 0 {
		return nil, models.ErrEmptyDocument
	}

	broker := parsers.DetectBroker(pages)
	if broker == models.BrokerUnknown {
		return nil, fmt.Errorf("%w: no Fidelity, Robinhood, or Schwab signature on any page", models.ErrUnknownBroker)
	}

	parser, err := parsers.ParserFor(broker)
	if err != nil {
		return nil, err
	}

	transactions, err := parser.Parse(pages)
	if err != nil {
		return nil, fmt.Errorf("parsing %s statement: %w", broker.DisplayName(), err)
	}

	result := &ConversionResult{
		ID:           uuid.NewString(),
		Broker:       broker,
		BrokerName:   broker.DisplayName(),
		Transactions: transactions,
		Summary:      models.ComputeSummary(transactions),
	}

	s.resultCache.Set(fmt.Sprintf(ckConversionResult, result.ID), result, cache.DefaultExpiration)

	logger.L.Info("Convert DONE",
		"conversionID", result.ID,
		"broker", broker,
		"transactions", len(transactions),
		"duration", time.Since(startTime))
	return result, nil
}

func (s *convertServiceImpl) ResultCSV(id string) (string, error) {
	cached, found := s.resultCache.Get(fmt.Sprintf(ckConversionResult, id))
	if !found {
		return "", fmt.Errorf("%w: id %s", ErrConversionNotFound, id)
	}
	result, ok := cached.(*ConversionResult)
	if !ok {
		return "", fmt.Errorf("%w: unexpected cache entry for id %s", ErrConversionNotFound, id)
	}
	return export.TransactionsCSV(result.Transactions)
}
