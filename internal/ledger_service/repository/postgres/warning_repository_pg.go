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

type pgWarningRepository struct {
	logger *slog.Logger
}

// NewPgWarningRepository creates a WarningRepository backed by the
// ledger.delivery_warning table.
func NewPgWarningRepository(logger *slog.Logger) repository.WarningRepository {
	return &pgWarningRepository{logger: logger.With("repository", "warning")}
}

func (r *pgWarningRepository) Create(ctx context.Context, q repository.Querier, genre domain.WarningGenre, messageText string) (*domain.WarningMessage, error) {
	msg := &domain.WarningMessage{
		Genre:       genre,
		MessageText: messageText,
		Status:      true,
		CreatedAt:   time.Now().UTC(),
	}
	query := `
		INSERT INTO ledger.delivery_warning (message_genre, message_text, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := q.QueryRow(ctx, query, msg.Genre, msg.MessageText, msg.Status, msg.CreatedAt).Scan(&msg.ID); err != nil {
		return nil, mapConstraintError(err)
	}
	return msg, nil
}

func (r *pgWarningRepository) GetByID(ctx context.Context, q repository.Querier, id int64) (*domain.WarningMessage, error) {
	msg := &domain.WarningMessage{}
	query := `
		SELECT id, message_genre, message_text, status, created_at
		FROM ledger.delivery_warning
		WHERE id = $1
	`
	err := q.QueryRow(ctx, query, id).Scan(&msg.ID, &msg.Genre, &msg.MessageText, &msg.Status, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWarningNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (r *pgWarningRepository) ListActiveByGenre(ctx context.Context, q repository.Querier, genre domain.WarningGenre) ([]domain.WarningMessage, error) {
	query := `
		SELECT id, message_genre, message_text, status, created_at
		FROM ledger.delivery_warning
		WHERE message_genre = $1 AND status IS TRUE
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, genre)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.WarningMessage
	for rows.Next() {
		var msg domain.WarningMessage
		if err := rows.Scan(&msg.ID, &msg.Genre, &msg.MessageText, &msg.Status, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *pgWarningRepository) UpdateStatus(ctx context.Context, q repository.Querier, id int64, status bool) (domain.WarningGenre, error) {
	var genre domain.WarningGenre
	query := `
		UPDATE ledger.delivery_warning
		SET status = $2
		WHERE id = $1
		RETURNING message_genre
	`
	err := q.QueryRow(ctx, query, id, status).Scan(&genre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrWarningNotFound
		}
		return "", err
	}
	return genre, nil
}

func (r *pgWarningRepository) FindActiveGapID(ctx context.Context, q repository.Querier, number, year int) (int64, bool, error) {
	// GAP messages are written by this core through the codec, so equality on
	// the canonical rendering is the same join the decoded-gap projection does.
	var id int64
	query := `
		SELECT id
		FROM ledger.delivery_warning
		WHERE message_genre = $1 AND status IS TRUE AND message_text = $2
		ORDER BY id
		LIMIT 1
	`
	err := q.QueryRow(ctx, query, domain.WarningGenreGap, domain.FormatGapMessage(number, year)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// Delete removes an unreferenced warning. The FK on delivery_discard is
// delete-restricted, so a referenced warning always fails with
// domain.ErrWarningReferenced. Maintenance use only.
func (r *pgWarningRepository) Delete(ctx context.Context, q repository.Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM ledger.delivery_warning WHERE id = $1`, id)
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWarningNotFound
	}
	return nil
}
