package services

import (
	"testing"

	"github.com/equiptrack/backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    models.ReportStatus
		to      models.ReportStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusInProgress, true},
		{models.StatusPending, models.StatusRejected, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusCompleted, false},

		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusPending, true},
		{models.StatusInProgress, models.StatusCancelled, true},
		{models.StatusInProgress, models.StatusRejected, false},

		// Completed is terminal.
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCompleted, models.StatusInProgress, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCompleted, models.StatusRejected, false},

		// Rejected and cancelled only reopen.
		{models.StatusRejected, models.StatusPending, true},
		{models.StatusRejected, models.StatusCompleted, false},
		{models.StatusRejected, models.StatusInProgress, false},
		{models.StatusCancelled, models.StatusPending, true},
		{models.StatusCancelled, models.StatusCompleted, false},
		{models.StatusCancelled, models.StatusInProgress, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestValidReportStatus(t *testing.T) {
	for _, status := range []models.ReportStatus{
		models.StatusPending, models.StatusInProgress, models.StatusCompleted,
		models.StatusRejected, models.StatusCancelled,
	} {
		if !ValidReportStatus(status) {
			t.Errorf("expected %s to be a valid status", status)
		}
	}
	if ValidReportStatus("ARCHIVED") {
		t.Error("expected ARCHIVED to be rejected")
	}
}
