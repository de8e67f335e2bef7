package models

import (
	"time"
)

// ReportStatusHistory is the append-only audit trail of a report.
// Status is null for annotations that are not status transitions
// (priority changes, assignments); that null is what distinguishes the
// entry kinds.
type ReportStatusHistory struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	ReportID  uint          `json:"reportId" gorm:"not null;index"`
	Report    DefectReport  `json:"-" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	Status    *ReportStatus `json:"status"`
	Note      string        `json:"note" gorm:"type:text"`
	ActorID   *uint         `json:"actorId"`
	Actor     *User         `json:"actor" gorm:"foreignKey:ActorID"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (ReportStatusHistory) TableName() string {
	return "defect_report_status_history"
}
