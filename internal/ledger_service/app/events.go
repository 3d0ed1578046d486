package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/google/uuid"
)

// NATS subjects for post-commit anomaly events consumed by reporting tooling.
const (
	subjectWarningCreated = "ledger.warning.created"
	subjectGapDetected    = "ledger.gap.detected"
)

type warningCreatedEvent struct {
	EventID   string              `json:"event_id"`
	WarningID int64               `json:"warning_id"`
	Genre     domain.WarningGenre `json:"message_genre"`
	CreatedAt time.Time           `json:"created_at"`
}

type gapDetectedEvent struct {
	EventID        string `json:"event_id"`
	WarningID      int64  `json:"warning_id"`
	DocumentNumber int    `json:"document_number"`
	DocumentYear   int    `json:"document_year"`
}

// publishEvent is fire-and-forget: events are a convenience for listeners,
// never part of the transaction, so failures are logged and swallowed.
func (s *LedgerService) publishEvent(ctx context.Context, subject string, event any) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal event", "subject", subject, "error", err)
		return
	}
	if err := s.events.Publish(ctx, subject, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "subject", subject, "error", err)
	}
}

func (s *LedgerService) publishWarningCreated(ctx context.Context, msg *domain.WarningMessage) {
	s.publishEvent(ctx, subjectWarningCreated, warningCreatedEvent{
		EventID:   uuid.NewString(),
		WarningID: msg.ID,
		Genre:     msg.Genre,
		CreatedAt: msg.CreatedAt,
	})
}

func (s *LedgerService) publishGapDetected(ctx context.Context, warningID int64, number, year int) {
	s.publishEvent(ctx, subjectGapDetected, gapDetectedEvent{
		EventID:        uuid.NewString(),
		WarningID:      warningID,
		DocumentNumber: number,
		DocumentYear:   year,
	})
}
