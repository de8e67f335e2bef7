package services

import (
	"errors"
	"fmt"

	"github.com/equiptrack/backend/internal/models"
)

// ErrNotFound is returned by lookups for ids that do not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError means the caller sent missing or malformed input.
// Nothing has been written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// DuplicateReportError is a soft warning: an open report for the same
// equipment already exists inside the suppression window. The caller
// may resubmit with the force flag set.
type DuplicateReportError struct {
	EquipmentID      uint
	ExistingReportID uint
}

func (e *DuplicateReportError) Error() string {
	return fmt.Sprintf("an open report (#%d) already exists for equipment %d within the last 24 hours",
		e.ExistingReportID, e.EquipmentID)
}

// InvalidTransitionError identifies the rejected status edge. The
// report is left unmodified.
type InvalidTransitionError struct {
	From models.ReportStatus
	To   models.ReportStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition report from %s to %s", e.From, e.To)
}

// StorageError wraps a photo store failure. Report creation aborts
// entirely when one occurs.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("photo storage failed: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
