package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDelivery() *DeliveryRecord {
	return &DeliveryRecord{
		DocumentNumber: 17,
		DocumentGenre:  "TD",
		DocumentDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		CompanyName:    "ACME Logistics",
		DeliveryCity:   "Rotterdam",
		Quantity:       10,
		DeliveryDate:   time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		Vehicle:        "TRUCK-99",
		DocumentSource: "SRC1",
		PageNumber:     3,
	}
}

func TestDeliveryRecordValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, validDelivery().Validate())
	})

	mutations := map[string]func(*DeliveryRecord){
		"ZeroDocumentNumber":     func(d *DeliveryRecord) { d.DocumentNumber = 0 },
		"NegativeDocumentNumber": func(d *DeliveryRecord) { d.DocumentNumber = -1 },
		"ZeroQuantity":           func(d *DeliveryRecord) { d.Quantity = 0 },
		"ZeroPageNumber":         func(d *DeliveryRecord) { d.PageNumber = 0 },
		"EmptyGenre":             func(d *DeliveryRecord) { d.DocumentGenre = "" },
		"ZeroDocumentDate":       func(d *DeliveryRecord) { d.DocumentDate = time.Time{} },
		"EmptySource":            func(d *DeliveryRecord) { d.DocumentSource = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			rec := validDelivery()
			mutate(rec)
			err := rec.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}
