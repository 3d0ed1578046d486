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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWarningTest(t *testing.T) (repository.WarningRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPgWarningRepository(logger), mockPool
}

func TestPgWarningRepository_Create(t *testing.T) {
	repo, mockPool := setupWarningTest(t)
	defer mockPool.Close()

	text := domain.FormatGapMessage(3, 2024)
	mockPool.ExpectQuery(`INSERT INTO ledger\.delivery_warning`).
		WithArgs(domain.WarningGenreGap, text, true, pgxmock.AnyArg()).
		WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(int64(7)))

	msg, err := repo.Create(context.Background(), mockPool, domain.WarningGenreGap, text)
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.ID)
	assert.Equal(t, domain.WarningGenreGap, msg.Genre)
	assert.True(t, msg.Status)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgWarningRepository_ListActiveByGenre(t *testing.T) {
	repo, mockPool := setupWarningTest(t)
	defer mockPool.Close()

	now := time.Now().UTC()
	rows := mockPool.NewRows([]string{"id", "message_genre", "message_text", "status", "created_at"}).
		AddRow(int64(1), domain.WarningGenreGap, domain.FormatGapMessage(3, 2024), true, now).
		AddRow(int64(2), domain.WarningGenreGap, domain.FormatGapMessage(9, 2024), true, now)

	mockPool.ExpectQuery(`SELECT id, message_genre, message_text, status, created_at`).
		WithArgs(domain.WarningGenreGap).
		WillReturnRows(rows)

	messages, err := repo.ListActiveByGenre(context.Background(), mockPool, domain.WarningGenreGap)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, int64(1), messages[0].ID)
	assert.Equal(t, domain.FormatGapMessage(9, 2024), messages[1].MessageText)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgWarningRepository_UpdateStatus(t *testing.T) {
	repo, mockPool := setupWarningTest(t)
	defer mockPool.Close()

	t.Run("ReturnsGenre", func(t *testing.T) {
		mockPool.ExpectQuery(`UPDATE ledger\.delivery_warning`).
			WithArgs(int64(7), false).
			WillReturnRows(mockPool.NewRows([]string{"message_genre"}).AddRow(domain.WarningGenreDiscard))

		genre, err := repo.UpdateStatus(context.Background(), mockPool, 7, false)
		require.NoError(t, err)
		assert.Equal(t, domain.WarningGenreDiscard, genre)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`UPDATE ledger\.delivery_warning`).
			WithArgs(int64(404), false).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), mockPool, 404, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrWarningNotFound))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgWarningRepository_FindActiveGapID(t *testing.T) {
	repo, mockPool := setupWarningTest(t)
	defer mockPool.Close()

	t.Run("Found", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT id`).
			WithArgs(domain.WarningGenreGap, domain.FormatGapMessage(3, 2024)).
			WillReturnRows(mockPool.NewRows([]string{"id"}).AddRow(int64(7)))

		id, found, err := repo.FindActiveGapID(context.Background(), mockPool, 3, 2024)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT id`).
			WithArgs(domain.WarningGenreGap, domain.FormatGapMessage(8, 2024)).
			WillReturnError(pgx.ErrNoRows)

		_, found, err := repo.FindActiveGapID(context.Background(), mockPool, 8, 2024)
		require.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgWarningRepository_Delete(t *testing.T) {
	repo, mockPool := setupWarningTest(t)
	defer mockPool.Close()

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(`DELETE FROM ledger\.delivery_warning`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(context.Background(), mockPool, 7))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ReferencedByDiscard", func(t *testing.T) {
		mockPool.ExpectExec(`DELETE FROM ledger\.delivery_warning`).
			WithArgs(int64(7)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "discard_warning_fkey"})

		err := repo.Delete(context.Background(), mockPool, 7)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrWarningReferenced))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec(`DELETE FROM ledger\.delivery_warning`).
			WithArgs(int64(404)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), mockPool, 404)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrWarningNotFound))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
