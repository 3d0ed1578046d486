package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository"
	"github.com/freightdocs/golang_services/internal/platform/messagebroker"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerService owns invariant enforcement for the delivery ledger, the
// warning/discard lifecycle with its status-synchronization rule, and the
// read-only projections (decoded messages, gap entries).
type LedgerService struct {
	db           repository.DB
	deliveryRepo repository.DeliveryRepository
	warningRepo  repository.WarningRepository
	discardRepo  repository.DiscardRepository
	events       messagebroker.Publisher
	logger       *slog.Logger
}

// NewLedgerService creates a LedgerService. events may be nil when no broker
// is configured.
func NewLedgerService(
	db repository.DB,
	deliveryRepo repository.DeliveryRepository,
	warningRepo repository.WarningRepository,
	discardRepo repository.DiscardRepository,
	events messagebroker.Publisher,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		db:           db,
		deliveryRepo: deliveryRepo,
		warningRepo:  warningRepo,
		discardRepo:  discardRepo,
		events:       events,
		logger:       logger.With("service", "ledger"),
	}
}

// RecordDelivery validates and inserts a delivery record. In the same
// transaction, an active GAP warning matching (document_number, filing year)
// is resolved: the gap closes the moment the missing document arrives.
func (s *LedgerService) RecordDelivery(ctx context.Context, rec *domain.DeliveryRecord) (*domain.DeliveryRecord, error) {
	defer observe("record_delivery")()

	if err := rec.Validate(); err != nil {
		deliveriesRecordedCounter.WithLabelValues("validation_error").Inc()
		return nil, err
	}

	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.deliveryRepo.Create(ctx, tx, rec); err != nil {
			return err
		}

		gapID, found, err := s.warningRepo.FindActiveGapID(ctx, tx, rec.DocumentNumber, rec.DocumentDate.Year())
		if err != nil {
			return fmt.Errorf("gap warning lookup failed: %w", err)
		}
		if found {
			s.logger.InfoContext(ctx, "resolving gap warning closed by incoming delivery",
				"warning_id", gapID, "document_number", rec.DocumentNumber, "document_year", rec.DocumentDate.Year())
			if _, err := s.warningRepo.UpdateStatus(ctx, tx, gapID, false); err != nil {
				return fmt.Errorf("gap warning resolution failed: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		deliveriesRecordedCounter.WithLabelValues(deliveryOutcome(txErr)).Inc()
		return nil, txErr
	}

	deliveriesRecordedCounter.WithLabelValues("accepted").Inc()
	s.logger.InfoContext(ctx, "delivery recorded",
		"id", rec.ID, "document_number", rec.DocumentNumber,
		"document_genre", rec.DocumentGenre, "document_source", rec.DocumentSource,
		"page_number", rec.PageNumber)
	return rec, nil
}

func (s *LedgerService) GetDeliveryByIdentity(ctx context.Context, number int, genre string, date time.Time) (*domain.DeliveryRecord, error) {
	return s.deliveryRepo.GetByIdentity(ctx, s.db, number, genre, date)
}

func (s *LedgerService) GetDeliveryBySourcePage(ctx context.Context, source string, page int) (*domain.DeliveryRecord, error) {
	return s.deliveryRepo.GetBySourcePage(ctx, s.db, source, page)
}

func (s *LedgerService) ListDeliveriesByCompany(ctx context.Context, company string) ([]domain.DeliveryRecord, error) {
	return s.deliveryRepo.ListByCompany(ctx, s.db, company)
}

func (s *LedgerService) ListDeliveriesByCity(ctx context.Context, city string) ([]domain.DeliveryRecord, error) {
	return s.deliveryRepo.ListByCity(ctx, s.db, city)
}

func (s *LedgerService) ListDeliveriesByMonth(ctx context.Context, year, month int) ([]domain.DeliveryRecord, error) {
	return s.deliveryRepo.ListByMonth(ctx, s.db, year, month)
}

// LookupKnownDistance returns the previously recorded distance for a city.
// The ingestion client consults this before falling back to the external
// geocoder; domain.ErrDistanceUnknown means no single recorded value exists.
func (s *LedgerService) LookupKnownDistance(ctx context.Context, city string) (decimal.Decimal, error) {
	return s.deliveryRepo.GetKnownDistance(ctx, s.db, city)
}

// RecordWarning files an anomaly message with status active. Message text is
// not validated here; decoding is lenient by contract.
func (s *LedgerService) RecordWarning(ctx context.Context, genre domain.WarningGenre, messageText string) (*domain.WarningMessage, error) {
	defer observe("record_warning")()

	msg, err := s.warningRepo.Create(ctx, s.db, genre, messageText)
	if err != nil {
		return nil, err
	}
	warningsFiledCounter.WithLabelValues(string(genre)).Inc()
	s.logger.InfoContext(ctx, "warning filed", "warning_id", msg.ID, "message_genre", genre)

	s.publishWarningCreated(ctx, msg)
	return msg, nil
}

func (s *LedgerService) GetWarning(ctx context.Context, id int64) (*domain.WarningMessage, error) {
	return s.warningRepo.GetByID(ctx, s.db, id)
}

// FileDiscard records a rejected page against an existing warning. The
// discard's status is copied from the warning inside a single atomic insert.
func (s *LedgerService) FileDiscard(ctx context.Context, rec *domain.DiscardRecord) (*domain.DiscardRecord, error) {
	defer observe("file_discard")()

	if rec.DocumentSource == "" {
		discardsFiledCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: document_source is required", domain.ErrValidation)
	}
	if rec.PageNumber <= 0 {
		discardsFiledCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: page_number must be positive", domain.ErrValidation)
	}

	created, err := s.discardRepo.Create(ctx, s.db, rec)
	if err != nil {
		discardsFiledCounter.WithLabelValues(discardOutcome(err)).Inc()
		return nil, err
	}
	discardsFiledCounter.WithLabelValues("filed").Inc()
	s.logger.InfoContext(ctx, "discard filed",
		"id", created.ID, "warning_id", created.WarningID,
		"document_source", created.DocumentSource, "page_number", created.PageNumber)
	return created, nil
}

// GetActiveDiscardBySourcePage returns the active discard row for a page, so
// a re-scan of an already-discarded page can reuse previously parsed fields
// and later resolve the old warning.
func (s *LedgerService) GetActiveDiscardBySourcePage(ctx context.Context, source string, page int) (*domain.DiscardRecord, error) {
	return s.discardRepo.GetActiveBySourcePage(ctx, s.db, source, page)
}

// ResolveWarning toggles a warning's status. For DISCARD-genre warnings every
// dependent discard row is updated in the same transaction: no reader may
// observe the warning's new status alongside a stale discard status.
func (s *LedgerService) ResolveWarning(ctx context.Context, id int64, status bool) error {
	defer observe("resolve_warning")()

	var genre domain.WarningGenre
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		genre, err = s.warningRepo.UpdateStatus(ctx, tx, id, status)
		if err != nil {
			return err
		}
		if genre != domain.WarningGenreDiscard {
			return nil
		}
		updated, err := s.discardRepo.UpdateStatusByWarningID(ctx, tx, id, status)
		if err != nil {
			return fmt.Errorf("discard status propagation failed: %w", err)
		}
		s.logger.InfoContext(ctx, "propagated warning status to discards",
			"warning_id", id, "status", status, "discard_rows", updated)
		return nil
	})
	if txErr != nil {
		return txErr
	}

	warningResolutionsCounter.WithLabelValues(string(genre)).Inc()
	return nil
}

// ListDecodedDiscardMessages decodes every active DISCARD warning. Recomputed
// per call: resolution toggles change the active set.
func (s *LedgerService) ListDecodedDiscardMessages(ctx context.Context) ([]domain.DecodedDiscardMessage, error) {
	warnings, err := s.warningRepo.ListActiveByGenre(ctx, s.db, domain.WarningGenreDiscard)
	if err != nil {
		return nil, err
	}

	decoded := make([]domain.DecodedDiscardMessage, 0, len(warnings))
	for _, msg := range warnings {
		d, err := domain.DecodeDiscardMessage(msg.MessageText)
		if err != nil {
			// Required anchors can only be missing for text written outside
			// the codec; skip rather than fail the whole projection.
			s.logger.WarnContext(ctx, "skipping undecodable discard message", "warning_id", msg.ID, "error", err)
			continue
		}
		d.WarningID = msg.ID
		decoded = append(decoded, *d)
	}
	return decoded, nil
}

// ListDecodedGapMessages decodes every active GAP warning.
func (s *LedgerService) ListDecodedGapMessages(ctx context.Context) ([]domain.DecodedGapMessage, error) {
	warnings, err := s.warningRepo.ListActiveByGenre(ctx, s.db, domain.WarningGenreGap)
	if err != nil {
		return nil, err
	}

	decoded := make([]domain.DecodedGapMessage, 0, len(warnings))
	for _, msg := range warnings {
		d, err := domain.DecodeGapMessage(msg.MessageText)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping undecodable gap message", "warning_id", msg.ID, "error", err)
			continue
		}
		d.WarningID = msg.ID
		decoded = append(decoded, *d)
	}
	return decoded, nil
}

func deliveryOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateDocument):
		return "duplicate_document"
	case errors.Is(err, domain.ErrDuplicatePage):
		return "duplicate_page"
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	default:
		return "error"
	}
}

func discardOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateDiscard):
		return "duplicate"
	case errors.Is(err, domain.ErrWarningNotFound):
		return "unknown_warning"
	default:
		return "error"
	}
}

func observe(operation string) func() {
	start := time.Now()
	return func() {
		operationDurationHist.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
