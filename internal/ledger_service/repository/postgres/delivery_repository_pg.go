package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const deliveryColumns = `id, document_number, document_genre, document_date, company_name,
	delivery_city, quantity, delivery_date, vehicle, vehicle_driver, distance,
	document_source, page_number, recording_date`

type pgDeliveryRepository struct {
	logger *slog.Logger
}

// NewPgDeliveryRepository creates a DeliveryRepository backed by the ledger.delivery table.
func NewPgDeliveryRepository(logger *slog.Logger) repository.DeliveryRepository {
	return &pgDeliveryRepository{logger: logger.With("repository", "delivery")}
}

func (r *pgDeliveryRepository) Create(ctx context.Context, q repository.Querier, rec *domain.DeliveryRecord) (*domain.DeliveryRecord, error) {
	rec.RecordingDate = time.Now().UTC()

	query := `
		INSERT INTO ledger.delivery (
			document_number, document_genre, document_date, company_name,
			delivery_city, quantity, delivery_date, vehicle, vehicle_driver,
			distance, document_source, page_number, recording_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := q.QueryRow(ctx, query,
		rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate, rec.CompanyName,
		rec.DeliveryCity, rec.Quantity, rec.DeliveryDate, rec.Vehicle, rec.VehicleDriver,
		rec.Distance, rec.DocumentSource, rec.PageNumber, rec.RecordingDate,
	).Scan(&rec.ID)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return rec, nil
}

func (r *pgDeliveryRepository) GetByIdentity(ctx context.Context, q repository.Querier, number int, genre string, date time.Time) (*domain.DeliveryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger.delivery
		WHERE document_number = $1 AND document_genre = $2 AND document_date = $3`, deliveryColumns)
	return r.scanOne(q.QueryRow(ctx, query, number, genre, date))
}

func (r *pgDeliveryRepository) GetBySourcePage(ctx context.Context, q repository.Querier, source string, page int) (*domain.DeliveryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger.delivery
		WHERE document_source = $1 AND page_number = $2`, deliveryColumns)
	return r.scanOne(q.QueryRow(ctx, query, source, page))
}

func (r *pgDeliveryRepository) ListByCompany(ctx context.Context, q repository.Querier, company string) ([]domain.DeliveryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger.delivery
		WHERE company_name = $1
		ORDER BY document_date, document_number`, deliveryColumns)
	rows, err := q.Query(ctx, query, company)
	if err != nil {
		return nil, err
	}
	return r.scanMany(rows)
}

func (r *pgDeliveryRepository) ListByCity(ctx context.Context, q repository.Querier, city string) ([]domain.DeliveryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger.delivery
		WHERE delivery_city = $1
		ORDER BY document_date, document_number`, deliveryColumns)
	rows, err := q.Query(ctx, query, city)
	if err != nil {
		return nil, err
	}
	return r.scanMany(rows)
}

func (r *pgDeliveryRepository) ListByMonth(ctx context.Context, q repository.Querier, year, month int) ([]domain.DeliveryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger.delivery
		WHERE EXTRACT(YEAR FROM delivery_date) = $1
			AND EXTRACT(MONTH FROM delivery_date) = $2
		ORDER BY document_number`, deliveryColumns)
	rows, err := q.Query(ctx, query, year, month)
	if err != nil {
		return nil, err
	}
	return r.scanMany(rows)
}

func (r *pgDeliveryRepository) ListYearNumberMonths(ctx context.Context, q repository.Querier) ([]domain.YearNumberMonth, error) {
	// One row per (year, number); MAX(month) mirrors "top match ordered
	// descending" when the same number appears more than once in a year.
	query := `
		SELECT EXTRACT(YEAR FROM document_date)::INT AS document_year,
			document_number,
			MAX(EXTRACT(MONTH FROM document_date))::INT AS document_month
		FROM ledger.delivery
		GROUP BY 1, 2
		ORDER BY 1, 2
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.YearNumberMonth
	for rows.Next() {
		var p domain.YearNumberMonth
		if err := rows.Scan(&p.DocumentYear, &p.DocumentNumber, &p.DocumentMonth); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *pgDeliveryRepository) GetKnownDistance(ctx context.Context, q repository.Querier, city string) (decimal.Decimal, error) {
	query := `
		SELECT DISTINCT distance
		FROM ledger.delivery
		WHERE delivery_city = $1 AND distance IS NOT NULL
	`
	rows, err := q.Query(ctx, query, city)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer rows.Close()

	var distances []decimal.Decimal
	for rows.Next() {
		var d decimal.Decimal
		if err := rows.Scan(&d); err != nil {
			return decimal.Decimal{}, err
		}
		distances = append(distances, d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, err
	}
	// Ambiguous or absent values force the caller back to the geocoder.
	if len(distances) != 1 {
		return decimal.Decimal{}, domain.ErrDistanceUnknown
	}
	return distances[0], nil
}

func (r *pgDeliveryRepository) scanOne(row pgx.Row) (*domain.DeliveryRecord, error) {
	rec := &domain.DeliveryRecord{}
	err := row.Scan(
		&rec.ID, &rec.DocumentNumber, &rec.DocumentGenre, &rec.DocumentDate, &rec.CompanyName,
		&rec.DeliveryCity, &rec.Quantity, &rec.DeliveryDate, &rec.Vehicle, &rec.VehicleDriver,
		&rec.Distance, &rec.DocumentSource, &rec.PageNumber, &rec.RecordingDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeliveryNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *pgDeliveryRepository) scanMany(rows pgx.Rows) ([]domain.DeliveryRecord, error) {
	defer rows.Close()

	var records []domain.DeliveryRecord
	for rows.Next() {
		var rec domain.DeliveryRecord
		err := rows.Scan(
			&rec.ID, &rec.DocumentNumber, &rec.DocumentGenre, &rec.DocumentDate, &rec.CompanyName,
			&rec.DeliveryCity, &rec.Quantity, &rec.DeliveryDate, &rec.Vehicle, &rec.VehicleDriver,
			&rec.Distance, &rec.DocumentSource, &rec.PageNumber, &rec.RecordingDate,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
