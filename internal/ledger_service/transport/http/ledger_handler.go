package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// LedgerApp is the application surface the handler depends on.
type LedgerApp interface {
	RecordDelivery(ctx context.Context, rec *domain.DeliveryRecord) (*domain.DeliveryRecord, error)
	GetDeliveryByIdentity(ctx context.Context, number int, genre string, date time.Time) (*domain.DeliveryRecord, error)
	GetDeliveryBySourcePage(ctx context.Context, source string, page int) (*domain.DeliveryRecord, error)
	ListDeliveriesByCompany(ctx context.Context, company string) ([]domain.DeliveryRecord, error)
	ListDeliveriesByCity(ctx context.Context, city string) ([]domain.DeliveryRecord, error)
	LookupKnownDistance(ctx context.Context, city string) (decimal.Decimal, error)
	RecordWarning(ctx context.Context, genre domain.WarningGenre, messageText string) (*domain.WarningMessage, error)
	GetWarning(ctx context.Context, id int64) (*domain.WarningMessage, error)
	FileDiscard(ctx context.Context, rec *domain.DiscardRecord) (*domain.DiscardRecord, error)
	GetActiveDiscardBySourcePage(ctx context.Context, source string, page int) (*domain.DiscardRecord, error)
	ResolveWarning(ctx context.Context, id int64, status bool) error
	ListDecodedDiscardMessages(ctx context.Context) ([]domain.DecodedDiscardMessage, error)
	ListDecodedGapMessages(ctx context.Context) ([]domain.DecodedGapMessage, error)
	DetectGaps(ctx context.Context) ([]domain.GapEntry, error)
	FileGapWarnings(ctx context.Context) (int, error)
}

// LedgerHandler exposes ingestion and read-projection endpoints.
type LedgerHandler struct {
	app      LedgerApp
	logger   *slog.Logger
	validate *validator.Validate
}

func NewLedgerHandler(app LedgerApp, logger *slog.Logger, validate *validator.Validate) *LedgerHandler {
	return &LedgerHandler{app: app, logger: logger, validate: validate}
}

// RegisterRoutes mounts all ledger endpoints under the given router.
func (h *LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/deliveries", h.RecordDelivery)
	r.Get("/deliveries/by-identity", h.GetDeliveryByIdentity)
	r.Get("/deliveries/by-page", h.GetDeliveryBySourcePage)
	r.Get("/deliveries", h.ListDeliveries)
	r.Get("/distances/{city}", h.GetKnownDistance)

	r.Post("/warnings", h.RecordWarning)
	r.Get("/warnings/{id}", h.GetWarning)
	r.Put("/warnings/{id}/status", h.UpdateWarningStatus)

	r.Post("/discards", h.FileDiscard)
	r.Get("/discards/by-page", h.GetActiveDiscardBySourcePage)

	r.Get("/projections/discard-messages", h.ListDecodedDiscardMessages)
	r.Get("/projections/gap-messages", h.ListDecodedGapMessages)
	r.Get("/projections/gaps", h.ListGaps)
	r.Post("/gaps/check", h.RunGapCheck)
}

func (h *LedgerHandler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reqDTO RecordDeliveryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.logger.WarnContext(ctx, "failed to decode RecordDelivery body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %s", err))
		return
	}

	rec, err := reqDTO.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field value: %s", err))
		return
	}

	created, err := h.app.RecordDelivery(ctx, rec)
	if err != nil {
		h.writeDomainError(ctx, w, err, "RecordDelivery")
		return
	}
	writeJSON(w, http.StatusCreated, RecordedDeliveryResponseDTO{
		ID:            created.ID,
		RecordingDate: created.RecordingDate,
	})
}

func (h *LedgerHandler) GetDeliveryByIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number, err := strconv.Atoi(r.URL.Query().Get("number"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "number must be a positive integer")
		return
	}
	genre := r.URL.Query().Get("genre")
	if genre == "" {
		writeError(w, http.StatusBadRequest, "genre is required")
		return
	}
	date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.app.GetDeliveryByIdentity(ctx, number, genre, date)
	if err != nil {
		h.writeDomainError(ctx, w, err, "GetDeliveryByIdentity")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *LedgerHandler) GetDeliveryBySourcePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source, page, ok := sourcePageParams(w, r)
	if !ok {
		return
	}
	rec, err := h.app.GetDeliveryBySourcePage(ctx, source, page)
	if err != nil {
		h.writeDomainError(ctx, w, err, "GetDeliveryBySourcePage")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ListDeliveries serves the selective company/city scans used by reporting.
func (h *LedgerHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	company := r.URL.Query().Get("company")
	city := r.URL.Query().Get("city")

	var (
		records []domain.DeliveryRecord
		err     error
	)
	switch {
	case company != "":
		records, err = h.app.ListDeliveriesByCompany(ctx, company)
	case city != "":
		records, err = h.app.ListDeliveriesByCity(ctx, city)
	default:
		writeError(w, http.StatusBadRequest, "company or city query parameter is required")
		return
	}
	if err != nil {
		h.writeDomainError(ctx, w, err, "ListDeliveries")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *LedgerHandler) GetKnownDistance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city := chi.URLParam(r, "city")

	dist, err := h.app.LookupKnownDistance(ctx, city)
	if err != nil {
		h.writeDomainError(ctx, w, err, "GetKnownDistance")
		return
	}
	writeJSON(w, http.StatusOK, KnownDistanceResponseDTO{DeliveryCity: city, Distance: dist.String()})
}

func (h *LedgerHandler) RecordWarning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reqDTO RecordWarningRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %s", err))
		return
	}

	msg, err := h.app.RecordWarning(ctx, domain.WarningGenre(reqDTO.MessageGenre), reqDTO.MessageText)
	if err != nil {
		h.writeDomainError(ctx, w, err, "RecordWarning")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *LedgerHandler) GetWarning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	msg, err := h.app.GetWarning(ctx, id)
	if err != nil {
		h.writeDomainError(ctx, w, err, "GetWarning")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *LedgerHandler) UpdateWarningStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var reqDTO UpdateWarningStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %s", err))
		return
	}

	if err := h.app.ResolveWarning(ctx, id, *reqDTO.Status); err != nil {
		h.writeDomainError(ctx, w, err, "UpdateWarningStatus")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LedgerHandler) FileDiscard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reqDTO FileDiscardRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %s", err))
		return
	}

	rec, err := reqDTO.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid field value: %s", err))
		return
	}

	created, err := h.app.FileDiscard(ctx, rec)
	if err != nil {
		h.writeDomainError(ctx, w, err, "FileDiscard")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *LedgerHandler) GetActiveDiscardBySourcePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source, page, ok := sourcePageParams(w, r)
	if !ok {
		return
	}
	rec, err := h.app.GetActiveDiscardBySourcePage(ctx, source, page)
	if err != nil {
		h.writeDomainError(ctx, w, err, "GetActiveDiscardBySourcePage")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *LedgerHandler) ListDecodedDiscardMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	decoded, err := h.app.ListDecodedDiscardMessages(ctx)
	if err != nil {
		h.writeDomainError(ctx, w, err, "ListDecodedDiscardMessages")
		return
	}
	writeJSON(w, http.StatusOK, decoded)
}

func (h *LedgerHandler) ListDecodedGapMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	decoded, err := h.app.ListDecodedGapMessages(ctx)
	if err != nil {
		h.writeDomainError(ctx, w, err, "ListDecodedGapMessages")
		return
	}
	writeJSON(w, http.StatusOK, decoded)
}

func (h *LedgerHandler) ListGaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gaps, err := h.app.DetectGaps(ctx)
	if err != nil {
		h.writeDomainError(ctx, w, err, "ListGaps")
		return
	}
	writeJSON(w, http.StatusOK, gaps)
}

func (h *LedgerHandler) RunGapCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filed, err := h.app.FileGapWarnings(ctx)
	if err != nil {
		h.writeDomainError(ctx, w, err, "RunGapCheck")
		return
	}
	writeJSON(w, http.StatusOK, GapCheckResponseDTO{GapWarningsFiled: filed})
}

// writeDomainError maps domain sentinels to HTTP statuses. Conflicts carry a
// machine-readable kind so the ingestion client can pick its follow-up.
func (h *LedgerHandler) writeDomainError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateDocument):
		writeJSON(w, http.StatusConflict, ConflictResponseDTO{Conflict: "duplicate_document", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicatePage):
		writeJSON(w, http.StatusConflict, ConflictResponseDTO{Conflict: "duplicate_page", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateDiscard):
		writeJSON(w, http.StatusConflict, ConflictResponseDTO{Conflict: "duplicate_discard", Message: err.Error()})
	case errors.Is(err, domain.ErrWarningNotFound),
		errors.Is(err, domain.ErrDeliveryNotFound),
		errors.Is(err, domain.ErrDiscardNotFound),
		errors.Is(err, domain.ErrDistanceUnknown):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.ErrorContext(ctx, "unhandled error", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func sourcePageParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	source := r.URL.Query().Get("source")
	if source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return "", 0, false
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return "", 0, false
	}
	return source, page, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponseDTO{Error: msg})
}
