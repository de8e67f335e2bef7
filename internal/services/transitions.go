package services

import (
	"github.com/equiptrack/backend/internal/models"
)

// allowedTransitions is the fixed status edge table. Completed is
// terminal; rejected and cancelled only return to pending.
var allowedTransitions = map[models.ReportStatus][]models.ReportStatus{
	models.StatusPending:    {models.StatusInProgress, models.StatusRejected, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusPending, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusRejected:   {models.StatusPending},
	models.StatusCancelled:  {models.StatusPending},
}

// CanTransition reports whether the from→to edge is in the table.
func CanTransition(from, to models.ReportStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidReportStatus reports whether s is a known status value.
func ValidReportStatus(s models.ReportStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
