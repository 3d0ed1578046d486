package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryRecord represents one accepted transport-manifest page in the
// ledger. Rows are immutable after creation and are never deleted; they form
// the audit trail downstream reporting reads directly.
type DeliveryRecord struct {
	ID             int64               `json:"id"`
	DocumentNumber int                 `json:"document_number"`
	DocumentGenre  string              `json:"document_genre"`
	DocumentDate   time.Time           `json:"document_date"`
	CompanyName    string              `json:"company_name"`
	DeliveryCity   string              `json:"delivery_city"`
	Quantity       int                 `json:"quantity"`
	DeliveryDate   time.Time           `json:"delivery_date"`
	Vehicle        string              `json:"vehicle"`
	VehicleDriver  *string             `json:"vehicle_driver,omitempty"`
	Distance       decimal.NullDecimal `json:"distance,omitempty"`
	DocumentSource string              `json:"document_source"`
	PageNumber     int                 `json:"page_number"`
	RecordingDate  time.Time           `json:"recording_date"`
}

// Validate applies the pre-write rules. Uniqueness is not checked here; the
// store's constraints are the single authority on duplicates.
func (d *DeliveryRecord) Validate() error {
	if d.DocumentNumber <= 0 {
		return wrapValidation("document_number must be positive")
	}
	if d.Quantity <= 0 {
		return wrapValidation("quantity must be positive")
	}
	if d.PageNumber <= 0 {
		return wrapValidation("page_number must be positive")
	}
	if d.DocumentGenre == "" {
		return wrapValidation("document_genre is required")
	}
	if d.DocumentDate.IsZero() {
		return wrapValidation("document_date is required")
	}
	if d.DocumentSource == "" {
		return wrapValidation("document_source is required")
	}
	return nil
}

// YearNumberMonth is one distinct (filing year, document number) point of the
// ledger with the month of the record carrying it. The gap detector consumes
// these ordered by year then number.
type YearNumberMonth struct {
	DocumentYear   int
	DocumentNumber int
	DocumentMonth  int
}

// GapEntry is a document number missing from its year's observed numbering
// range. DocumentMonth is the month of the nearest preceding number in the
// same year (numbering order approximates filing chronology), nil when the
// gap precedes every recorded number. IsDiscard marks gaps explained by an
// active discard.
type GapEntry struct {
	DocumentNumber int  `json:"document_number"`
	DocumentYear   int  `json:"document_year"`
	DocumentMonth  *int `json:"document_month,omitempty"`
	IsDiscard      bool `json:"is_discard"`
}
