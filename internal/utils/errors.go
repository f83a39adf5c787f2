package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrContractNotFound          = errors.New("contract_not_found")
	ErrInvoiceNotFound           = errors.New("invoice_not_found")
	ErrPartnerNotFound           = errors.New("partner_not_found")
	ErrInvalidStateForOperation  = errors.New("invalid_state_for_operation")
	ErrInvalidTermination        = errors.New("invalid_termination")
	ErrOverlappingContractPeriod = errors.New("overlapping_contract_period")
	ErrUpcomingContractConflict  = errors.New("upcoming_contract_conflict")
	ErrFeatureDisabled           = errors.New("feature_disabled")

	// ErrEvictionLedgerCorrupted marks a breach of the eviction amount
	// invariant. It is logged as a defect and never surfaced with
	// ledger internals.
	ErrEvictionLedgerCorrupted = errors.New("eviction_ledger_corrupted")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
