package parsers

import (
	"github.com/username/csv1099/backend/src/models"
)

// StatementParser converts the ordered page texts of one broker statement
// into canonical transactions. Pages are newline-separated line sequences,
// already reconstructed into reading order by the upstream PDF extraction.
//
// Implementations are pure and stateless across calls: all scan context is
// local to a single Parse invocation, so one parser value is safe to share
// between concurrent conversions.
type StatementParser interface {
	Parse(pages []string) ([]models.Transaction, error)
}
