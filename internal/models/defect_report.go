package models

import (
	"time"
)

type ReportStatus string
type ReportPriority string
type ReportCategory string

const (
	StatusPending    ReportStatus = "PENDING"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusCompleted  ReportStatus = "COMPLETED"
	StatusRejected   ReportStatus = "REJECTED"
	StatusCancelled  ReportStatus = "CANCELLED"
)

const (
	PriorityLow      ReportPriority = "LOW"
	PriorityMedium   ReportPriority = "MEDIUM"
	PriorityHigh     ReportPriority = "HIGH"
	PriorityCritical ReportPriority = "CRITICAL"
)

const (
	CategoryHardware       ReportCategory = "HARDWARE"
	CategorySoftware       ReportCategory = "SOFTWARE"
	CategoryPhysicalDamage ReportCategory = "PHYSICAL_DAMAGE"
	CategoryPerformance    ReportCategory = "PERFORMANCE"
	CategoryOther          ReportCategory = "OTHER"
)

// IsTerminal reports whether the status accepts no further transition.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusCompleted
}

// IsOpen reports whether the report still counts against the duplicate
// suppression window (anything that can still reach completion).
func (s ReportStatus) IsOpen() bool {
	return s == StatusPending || s == StatusInProgress
}

// DefectReport is hard-deleted on purpose: history and comments go with
// it, unlike equipment which is soft-deleted.
type DefectReport struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	ReporterID          uint           `json:"reporterId" gorm:"not null;index"`
	Reporter            User           `json:"reporter" gorm:"foreignKey:ReporterID"`
	EquipmentID         uint           `json:"equipmentId" gorm:"not null;index"`
	Equipment           Equipment      `json:"equipment" gorm:"foreignKey:EquipmentID"`
	Description         string         `json:"description" gorm:"type:text;not null"`
	Location            string         `json:"location" gorm:"not null"`
	PhotoPaths          []string       `json:"photoPaths" gorm:"serializer:json"`
	Status              ReportStatus   `json:"status" gorm:"not null;default:'PENDING';index"`
	Priority            ReportPriority `json:"priority" gorm:"not null"`
	Category            ReportCategory `json:"category" gorm:"not null"`
	AssignedTo          *uint          `json:"assignedTo"`
	Handler             *User          `json:"handler" gorm:"foreignKey:AssignedTo"`
	CompletedDate       *time.Time     `json:"completedDate"`
	AdminNotes          *string        `json:"adminNotes" gorm:"type:text"`
	EstimatedRepairTime float64        `json:"estimatedRepairTime"`
	ActualRepairTime    *float64       `json:"actualRepairTime"`
	CostEstimate        *float64       `json:"costEstimate"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (DefectReport) TableName() string {
	return "defect_reports"
}
