package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarningGenre classifies an anomaly message.
type WarningGenre string

const (
	// WarningGenreDiscard explains a rejected page; its message text embeds
	// the partially parsed document fields.
	WarningGenreDiscard WarningGenre = "DISCARD"
	// WarningGenreGap flags a missing document number in a year's sequence.
	WarningGenreGap WarningGenre = "GAP"
	// WarningGenreSimilarity flags a vehicle/driver value the ingestion
	// client could not match against its reference list.
	WarningGenreSimilarity WarningGenre = "WARNING"
)

// WarningMessage is an anomaly record. Only Status ever changes after
// creation (active=true, resolved=false); rows referenced by a discard can
// never be deleted.
type WarningMessage struct {
	ID          int64        `json:"id"`
	Genre       WarningGenre `json:"message_genre"`
	MessageText string       `json:"message_text"`
	Status      bool         `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DiscardRecord is a rejected ingestion attempt for a physical page, tied to
// exactly one warning. Parsed fields are best-effort copies and may be nil
// when parsing failed before they were known; Status always mirrors the
// parent warning's status.
type DiscardRecord struct {
	ID             int64               `json:"id"`
	DocumentNumber *int                `json:"document_number,omitempty"`
	DocumentGenre  *string             `json:"document_genre,omitempty"`
	DocumentDate   *time.Time          `json:"document_date,omitempty"`
	CompanyName    *string             `json:"company_name,omitempty"`
	DeliveryCity   *string             `json:"delivery_city,omitempty"`
	Quantity       *int                `json:"quantity,omitempty"`
	DeliveryDate   *time.Time          `json:"delivery_date,omitempty"`
	Vehicle        *string             `json:"vehicle,omitempty"`
	VehicleDriver  *string             `json:"vehicle_driver,omitempty"`
	Distance       decimal.NullDecimal `json:"distance,omitempty"`
	DocumentSource string              `json:"document_source"`
	PageNumber     int                 `json:"page_number"`
	RecordingDate  time.Time           `json:"recording_date"`
	WarningID      int64               `json:"id_warning_message"`
	Status         bool                `json:"status"`
}

// DecodedDiscardMessage is the structured view of an active DISCARD warning's
// text. Derived on read, never stored.
type DecodedDiscardMessage struct {
	WarningID      int64      `json:"warning_id"`
	DocumentNumber *int       `json:"document_number,omitempty"`
	DocumentGenre  *string    `json:"document_genre,omitempty"`
	DocumentDate   *time.Time `json:"document_date,omitempty"`
	ErrorDetail    string     `json:"error_detail"`
	DocumentSource string     `json:"document_source"`
	PageNumber     int        `json:"page_number"`
}

// DecodedGapMessage is the structured view of an active GAP warning's text.
type DecodedGapMessage struct {
	WarningID      int64 `json:"warning_id"`
	DocumentNumber int   `json:"document_number"`
	DocumentYear   int   `json:"document_year"`
}
