package postgres

import (
	"errors"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes. Constraint violations must surface from the store
// itself so concurrent writers race on the index, not on application reads.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// Constraint names from migrations/0001_create_ledger_schema.sql. The
// mapping from constraint to domain error is part of the schema contract.
const (
	constraintDocumentIdentity = "delivery_document_identity_key"
	constraintDeliveryPage     = "delivery_source_page_key"
	constraintDiscardPage      = "discard_source_page_key"
	constraintDiscardWarning   = "discard_warning_fkey"
)

// mapConstraintError translates a pgconn constraint violation into the
// matching domain sentinel, or returns the original error untouched.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCodeUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintDocumentIdentity:
			return domain.ErrDuplicateDocument
		case constraintDeliveryPage:
			return domain.ErrDuplicatePage
		case constraintDiscardPage:
			return domain.ErrDuplicateDiscard
		}
	case pgCodeForeignKeyViolation:
		if pgErr.ConstraintName == constraintDiscardWarning {
			return domain.ErrWarningReferenced
		}
	case pgCodeCheckViolation:
		return domain.ErrValidation
	}
	return err
}
