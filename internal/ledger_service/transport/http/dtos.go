package http

import (
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/shopspring/decimal"
)

// Dates travel as "2006-01-02" strings; the ingestion client produces them
// from the scanned document text.
const dateLayout = "2006-01-02"

// --- Request DTOs ---

// RecordDeliveryRequestDTO carries one parsed manifest page for ingestion.
type RecordDeliveryRequestDTO struct {
	DocumentNumber int     `json:"document_number" validate:"required,gt=0"`
	DocumentGenre  string  `json:"document_genre" validate:"required,max=10"`
	DocumentDate   string  `json:"document_date" validate:"required,datetime=2006-01-02"`
	CompanyName    string  `json:"company_name" validate:"required"`
	DeliveryCity   string  `json:"delivery_city" validate:"required"`
	Quantity       int     `json:"quantity" validate:"required,gt=0"`
	DeliveryDate   string  `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	Vehicle        string  `json:"vehicle" validate:"required"`
	VehicleDriver  *string `json:"vehicle_driver,omitempty"`
	Distance       *string `json:"distance,omitempty" validate:"omitempty,numeric"`
	DocumentSource string  `json:"document_source" validate:"required"`
	PageNumber     int     `json:"page_number" validate:"required,gt=0"`
}

// ToDomain converts the DTO; date formats were already validated.
func (d *RecordDeliveryRequestDTO) ToDomain() (*domain.DeliveryRecord, error) {
	docDate, err := time.Parse(dateLayout, d.DocumentDate)
	if err != nil {
		return nil, err
	}
	delDate, err := time.Parse(dateLayout, d.DeliveryDate)
	if err != nil {
		return nil, err
	}

	rec := &domain.DeliveryRecord{
		DocumentNumber: d.DocumentNumber,
		DocumentGenre:  d.DocumentGenre,
		DocumentDate:   docDate,
		CompanyName:    d.CompanyName,
		DeliveryCity:   d.DeliveryCity,
		Quantity:       d.Quantity,
		DeliveryDate:   delDate,
		Vehicle:        d.Vehicle,
		VehicleDriver:  d.VehicleDriver,
		DocumentSource: d.DocumentSource,
		PageNumber:     d.PageNumber,
	}
	if d.Distance != nil {
		dist, err := decimal.NewFromString(*d.Distance)
		if err != nil {
			return nil, err
		}
		rec.Distance = decimal.NullDecimal{Decimal: dist, Valid: true}
	}
	return rec, nil
}

// RecordWarningRequestDTO files a pre-formatted anomaly message.
type RecordWarningRequestDTO struct {
	MessageGenre string `json:"message_genre" validate:"required,oneof=DISCARD GAP WARNING"`
	MessageText  string `json:"message_text" validate:"required"`
}

// FileDiscardRequestDTO records a rejected page against an existing warning.
// The document fields are best-effort copies and may all be absent.
type FileDiscardRequestDTO struct {
	WarningID      int64   `json:"id_warning_message" validate:"required,gt=0"`
	DocumentNumber *int    `json:"document_number,omitempty" validate:"omitempty,gt=0"`
	DocumentGenre  *string `json:"document_genre,omitempty"`
	DocumentDate   *string `json:"document_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CompanyName    *string `json:"company_name,omitempty"`
	DeliveryCity   *string `json:"delivery_city,omitempty"`
	Quantity       *int    `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	DeliveryDate   *string `json:"delivery_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Vehicle        *string `json:"vehicle,omitempty"`
	VehicleDriver  *string `json:"vehicle_driver,omitempty"`
	Distance       *string `json:"distance,omitempty" validate:"omitempty,numeric"`
	DocumentSource string  `json:"document_source" validate:"required"`
	PageNumber     int     `json:"page_number" validate:"required,gt=0"`
}

func (d *FileDiscardRequestDTO) ToDomain() (*domain.DiscardRecord, error) {
	rec := &domain.DiscardRecord{
		WarningID:      d.WarningID,
		DocumentNumber: d.DocumentNumber,
		DocumentGenre:  d.DocumentGenre,
		CompanyName:    d.CompanyName,
		DeliveryCity:   d.DeliveryCity,
		Quantity:       d.Quantity,
		Vehicle:        d.Vehicle,
		VehicleDriver:  d.VehicleDriver,
		DocumentSource: d.DocumentSource,
		PageNumber:     d.PageNumber,
	}
	if d.DocumentDate != nil {
		t, err := time.Parse(dateLayout, *d.DocumentDate)
		if err != nil {
			return nil, err
		}
		rec.DocumentDate = &t
	}
	if d.DeliveryDate != nil {
		t, err := time.Parse(dateLayout, *d.DeliveryDate)
		if err != nil {
			return nil, err
		}
		rec.DeliveryDate = &t
	}
	if d.Distance != nil {
		dist, err := decimal.NewFromString(*d.Distance)
		if err != nil {
			return nil, err
		}
		rec.Distance = decimal.NullDecimal{Decimal: dist, Valid: true}
	}
	return rec, nil
}

// UpdateWarningStatusRequestDTO toggles a warning between active and resolved.
type UpdateWarningStatusRequestDTO struct {
	Status *bool `json:"status" validate:"required"`
}

// --- Response DTOs ---

// RecordedDeliveryResponseDTO is the identity assigned to an accepted record.
type RecordedDeliveryResponseDTO struct {
	ID            int64     `json:"id"`
	RecordingDate time.Time `json:"recording_date"`
}

// ConflictResponseDTO tells the ingestion client which uniqueness rule fired,
// so it can decide whether to file a DISCARD warning instead.
type ConflictResponseDTO struct {
	Conflict string `json:"conflict"` // "duplicate_document", "duplicate_page", "duplicate_discard"
	Message  string `json:"message"`
}

// ErrorResponseDTO is the generic error body.
type ErrorResponseDTO struct {
	Error string `json:"error"`
}

// GapCheckResponseDTO reports a detector run that filed warnings.
type GapCheckResponseDTO struct {
	GapWarningsFiled int `json:"gap_warnings_filed"`
}

// KnownDistanceResponseDTO carries the cached distance for a city.
type KnownDistanceResponseDTO struct {
	DeliveryCity string `json:"delivery_city"`
	Distance     string `json:"distance"`
}
