package repository

import (
	"context"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Querier is the common surface of *pgxpool.Pool and pgx.Tx, so repository
// methods can run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is what app services hold: a Querier that can also open transactions.
// Satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DeliveryRepository persists accepted delivery records. The ledger is
// append-only: no update or delete methods exist.
type DeliveryRepository interface {
	Create(ctx context.Context, q Querier, rec *domain.DeliveryRecord) (*domain.DeliveryRecord, error)
	GetByIdentity(ctx context.Context, q Querier, number int, genre string, date time.Time) (*domain.DeliveryRecord, error)
	GetBySourcePage(ctx context.Context, q Querier, source string, page int) (*domain.DeliveryRecord, error)
	ListByCompany(ctx context.Context, q Querier, company string) ([]domain.DeliveryRecord, error)
	ListByCity(ctx context.Context, q Querier, city string) ([]domain.DeliveryRecord, error)
	ListByMonth(ctx context.Context, q Querier, year, month int) ([]domain.DeliveryRecord, error)
	// ListYearNumberMonths returns the distinct (year, number) points of the
	// ledger with a representative month, ordered by year then number.
	ListYearNumberMonths(ctx context.Context, q Querier) ([]domain.YearNumberMonth, error)
	// GetKnownDistance returns the recorded distance for a city when exactly
	// one distinct non-null value exists; domain.ErrDistanceUnknown otherwise.
	GetKnownDistance(ctx context.Context, q Querier, city string) (decimal.Decimal, error)
}

// WarningRepository persists anomaly messages. Status is the only mutable
// field; Delete exists for maintenance only and is never reachable from the
// app surface.
type WarningRepository interface {
	Create(ctx context.Context, q Querier, genre domain.WarningGenre, messageText string) (*domain.WarningMessage, error)
	GetByID(ctx context.Context, q Querier, id int64) (*domain.WarningMessage, error)
	ListActiveByGenre(ctx context.Context, q Querier, genre domain.WarningGenre) ([]domain.WarningMessage, error)
	// UpdateStatus flips the status flag and reports the warning's genre so
	// the caller can decide whether discard propagation applies.
	UpdateStatus(ctx context.Context, q Querier, id int64, status bool) (domain.WarningGenre, error)
	// FindActiveGapID resolves the id of the active GAP warning whose text
	// matches the canonical message for (number, year), if any.
	FindActiveGapID(ctx context.Context, q Querier, number, year int) (int64, bool, error)
	Delete(ctx context.Context, q Querier, id int64) error
}

// DiscardRepository persists rejected ingestion attempts.
type DiscardRepository interface {
	// Create inserts the discard with status copied from the parent warning
	// in the same statement; domain.ErrWarningNotFound when the warning id
	// does not exist.
	Create(ctx context.Context, q Querier, rec *domain.DiscardRecord) (*domain.DiscardRecord, error)
	GetActiveBySourcePage(ctx context.Context, q Querier, source string, page int) (*domain.DiscardRecord, error)
	// UpdateStatusByWarningID propagates a warning's new status to every
	// dependent discard row; returns the number of rows updated.
	UpdateStatusByWarningID(ctx context.Context, q Querier, warningID int64, status bool) (int64, error)
}
