package models

import "errors"

// Document-level parse failures. Everything else a statement can throw at
// the parsers is handled by silently rejecting the offending line.
var (
	// ErrEmptyDocument indicates the caller supplied no page texts at all.
	ErrEmptyDocument = errors.New("document contains no pages")

	// ErrUnknownBroker indicates no brand signature matched any page.
	ErrUnknownBroker = errors.New("could not detect a supported broker")

	// ErrNoTransactionPages indicates the broker was recognized but the
	// statement held zero eligible 1099-B transaction pages. Wrapping
	// messages name the forms that were found, to aid self-diagnosis.
	ErrNoTransactionPages = errors.New("no 1099-B transaction pages found")
)
