package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anyArgs returns n pgxmock.AnyArg matchers; pgxmock requires the expected
// argument count to match the actual call even when values are irrelevant.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func setupDeliveryTest(t *testing.T) (repository.DeliveryRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPgDeliveryRepository(logger), mockPool
}

func testDelivery() *domain.DeliveryRecord {
	return &domain.DeliveryRecord{
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

func TestPgDeliveryRepository_Create(t *testing.T) {
	repo, mockPool := setupDeliveryTest(t)
	defer mockPool.Close()

	rec := testDelivery()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectQuery(`INSERT INTO ledger\.delivery`).
			WithArgs(rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate, rec.CompanyName,
				rec.DeliveryCity, rec.Quantity, rec.DeliveryDate, rec.Vehicle, rec.VehicleDriver,
				rec.Distance, rec.DocumentSource, rec.PageNumber, pgxmock.AnyArg()).
			WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(int64(101)))

		created, err := repo.Create(context.Background(), mockPool, rec)
		require.NoError(t, err)
		assert.Equal(t, int64(101), created.ID)
		assert.False(t, created.RecordingDate.IsZero())
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateDocumentIdentity", func(t *testing.T) {
		mockPool.ExpectQuery(`INSERT INTO ledger\.delivery`).
			WithArgs(anyArgs(13)...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "delivery_document_identity_key"})

		_, err := repo.Create(context.Background(), mockPool, testDelivery())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicateDocument))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateSourcePage", func(t *testing.T) {
		mockPool.ExpectQuery(`INSERT INTO ledger\.delivery`).
			WithArgs(anyArgs(13)...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "delivery_source_page_key"})

		_, err := repo.Create(context.Background(), mockPool, testDelivery())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDuplicatePage))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgDeliveryRepository_GetByIdentity(t *testing.T) {
	repo, mockPool := setupDeliveryTest(t)
	defer mockPool.Close()

	rec := testDelivery()
	rec.ID = 101
	rec.RecordingDate = time.Now().UTC()

	columns := []string{"id", "document_number", "document_genre", "document_date", "company_name",
		"delivery_city", "quantity", "delivery_date", "vehicle", "vehicle_driver", "distance",
		"document_source", "page_number", "recording_date"}

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows(columns).
			AddRow(rec.ID, rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate, rec.CompanyName,
				rec.DeliveryCity, rec.Quantity, rec.DeliveryDate, rec.Vehicle, rec.VehicleDriver,
				rec.Distance, rec.DocumentSource, rec.PageNumber, rec.RecordingDate)

		mockPool.ExpectQuery(`SELECT .+ FROM ledger\.delivery`).
			WithArgs(rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate).
			WillReturnRows(rows)

		got, err := repo.GetByIdentity(context.Background(), mockPool, rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.CompanyName, got.CompanyName)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT .+ FROM ledger\.delivery`).
			WithArgs(rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate).
			WillReturnRows(mockPool.NewRows(columns))

		_, err := repo.GetByIdentity(context.Background(), mockPool, rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDeliveryNotFound))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgDeliveryRepository_ListYearNumberMonths(t *testing.T) {
	repo, mockPool := setupDeliveryTest(t)
	defer mockPool.Close()

	rows := mockPool.NewRows([]string{"document_year", "document_number", "document_month"}).
		AddRow(2023, 1, 2).
		AddRow(2023, 2, 3).
		AddRow(2024, 1, 1)

	mockPool.ExpectQuery(`SELECT EXTRACT\(YEAR FROM document_date\)`).
		WillReturnRows(rows)

	points, err := repo.ListYearNumberMonths(context.Background(), mockPool)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, domain.YearNumberMonth{DocumentYear: 2023, DocumentNumber: 1, DocumentMonth: 2}, points[0])
	assert.Equal(t, domain.YearNumberMonth{DocumentYear: 2024, DocumentNumber: 1, DocumentMonth: 1}, points[2])
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgDeliveryRepository_GetKnownDistance(t *testing.T) {
	repo, mockPool := setupDeliveryTest(t)
	defer mockPool.Close()

	t.Run("SingleValue", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT DISTINCT distance`).
			WithArgs("Rotterdam").
			WillReturnRows(mockPool.NewRows([]string{"distance"}).AddRow(decimal.NewFromInt(120)))

		dist, err := repo.GetKnownDistance(context.Background(), mockPool, "Rotterdam")
		require.NoError(t, err)
		assert.True(t, dist.Equal(decimal.NewFromInt(120)))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NoValue", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT DISTINCT distance`).
			WithArgs("Atlantis").
			WillReturnRows(mockPool.NewRows([]string{"distance"}))

		_, err := repo.GetKnownDistance(context.Background(), mockPool, "Atlantis")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDistanceUnknown))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("AmbiguousValues", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT DISTINCT distance`).
			WithArgs("Rotterdam").
			WillReturnRows(mockPool.NewRows([]string{"distance"}).
				AddRow(decimal.NewFromInt(120)).
				AddRow(decimal.NewFromInt(125)))

		_, err := repo.GetKnownDistance(context.Background(), mockPool, "Rotterdam")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDistanceUnknown))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
