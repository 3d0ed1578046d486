package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects input before any write (non-positive numbers,
	// missing required fields).
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateDocument means (document_number, document_genre,
	// document_date) already exists in the ledger.
	ErrDuplicateDocument = errors.New("document already recorded")
	// ErrDuplicatePage means (document_source, page_number) already exists in
	// the ledger.
	ErrDuplicatePage = errors.New("page already recorded")
	// ErrDuplicateDiscard means (document_source, page_number) already has a
	// discard row.
	ErrDuplicateDiscard = errors.New("page already discarded")
	// ErrWarningNotFound means the referenced warning id does not exist.
	ErrWarningNotFound = errors.New("warning message not found")
	// ErrWarningReferenced rejects deletion of a warning that still has
	// dependent discard rows.
	ErrWarningReferenced = errors.New("warning message has dependent discards")
	// ErrDeliveryNotFound means no ledger row matched the lookup.
	ErrDeliveryNotFound = errors.New("delivery record not found")
	// ErrDiscardNotFound means no active discard row matched the lookup.
	ErrDiscardNotFound = errors.New("discard record not found")
	// ErrDistanceUnknown means no single recorded distance exists for a city.
	ErrDistanceUnknown = errors.New("no recorded distance for city")
)

func wrapValidation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
