package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository"
	"github.com/jackc/pgx/v5"
)

type pgDiscardRepository struct {
	logger *slog.Logger
}

// NewPgDiscardRepository creates a DiscardRepository backed by the
// ledger.delivery_discard table.
func NewPgDiscardRepository(logger *slog.Logger) repository.DiscardRepository {
	return &pgDiscardRepository{logger: logger.With("repository", "discard")}
}

func (r *pgDiscardRepository) Create(ctx context.Context, q repository.Querier, rec *domain.DiscardRecord) (*domain.DiscardRecord, error) {
	rec.RecordingDate = time.Now().UTC()

	// Status is copied from the parent warning in the same statement, so the
	// copy and the existence check cannot race with a concurrent resolution.
	query := `
		INSERT INTO ledger.delivery_discard (
			document_number, document_genre, document_date, company_name,
			delivery_city, quantity, delivery_date, vehicle, vehicle_driver,
			distance, document_source, page_number, recording_date,
			id_warning_message, status
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, w.id, w.status
		FROM ledger.delivery_warning w
		WHERE w.id = $14
		RETURNING id, status
	`
	err := q.QueryRow(ctx, query,
		rec.DocumentNumber, rec.DocumentGenre, rec.DocumentDate, rec.CompanyName,
		rec.DeliveryCity, rec.Quantity, rec.DeliveryDate, rec.Vehicle, rec.VehicleDriver,
		rec.Distance, rec.DocumentSource, rec.PageNumber, rec.RecordingDate,
		rec.WarningID,
	).Scan(&rec.ID, &rec.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWarningNotFound
		}
		return nil, mapConstraintError(err)
	}
	return rec, nil
}

func (r *pgDiscardRepository) GetActiveBySourcePage(ctx context.Context, q repository.Querier, source string, page int) (*domain.DiscardRecord, error) {
	rec := &domain.DiscardRecord{}
	query := `
		SELECT id, document_number, document_genre, document_date, company_name,
			delivery_city, quantity, delivery_date, vehicle, vehicle_driver,
			distance, document_source, page_number, recording_date,
			id_warning_message, status
		FROM ledger.delivery_discard
		WHERE status IS TRUE AND document_source = $1 AND page_number = $2
	`
	err := q.QueryRow(ctx, query, source, page).Scan(
		&rec.ID, &rec.DocumentNumber, &rec.DocumentGenre, &rec.DocumentDate, &rec.CompanyName,
		&rec.DeliveryCity, &rec.Quantity, &rec.DeliveryDate, &rec.Vehicle, &rec.VehicleDriver,
		&rec.Distance, &rec.DocumentSource, &rec.PageNumber, &rec.RecordingDate,
		&rec.WarningID, &rec.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDiscardNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *pgDiscardRepository) UpdateStatusByWarningID(ctx context.Context, q repository.Querier, warningID int64, status bool) (int64, error) {
	tag, err := q.Exec(ctx,
		`UPDATE ledger.delivery_discard SET status = $2 WHERE id_warning_message = $1`,
		warningID, status,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
