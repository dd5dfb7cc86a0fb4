package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/username/csv1099/backend/src/logger"
)

// ErrValidationFailed marks rejections of the request payload itself, as
// opposed to parse failures inside an accepted document.
var ErrValidationFailed = errors.New("request validation failed")

// ValidatePages bounds the extracted page payload before it reaches the
// parsers. Page texts come from client-side PDF extraction, so size limits
// are enforced here rather than trusted upstream.
func ValidatePages(pages []string, maxPages int, maxBytes int64) error {
	if len(pages) > maxPages {
		logger.L.Warn("Rejecting oversized page payload", "pages", len(pages), "limit", maxPages)
		return fmt.Errorf("%w: %d pages exceeds the %d page limit", ErrValidationFailed, len(pages), maxPages)
	}

	var total int64
	for _, p := range pages {
		total += int64(len(p))
	}
	if total > maxBytes {
		logger.L.Warn("Rejecting oversized page payload", "bytes", total, "limit", maxBytes)
		return fmt.Errorf("%w: %d bytes of page text exceeds the %d byte limit", ErrValidationFailed, total, maxBytes)
	}
	return nil
}

// SanitizePages strips non-printable characters from every page, keeping
// the whitespace the parsers rely on for line and column structure.
func SanitizePages(pages []string) []string {
	sanitized := make([]string, len(pages))
	for i, p := range pages {
		sanitized[i] = stripUnprintable(p)
	}
	return sanitized
}

func stripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
