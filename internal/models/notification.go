package models

import (
	"time"
)

type NotificationType string

const (
	NotifyReportCreated  NotificationType = "REPORT_CREATED"
	NotifyStatusChanged  NotificationType = "STATUS_CHANGED"
	NotifyPriorityChange NotificationType = "PRIORITY_CHANGED"
	NotifyAssignment     NotificationType = "ASSIGNMENT"
	NotifyUrgentReport   NotificationType = "URGENT_REPORT"
	NotifyReservation    NotificationType = "RESERVATION"
)

// Notification with a nil UserID is a broadcast, visible to every
// staff account.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    *uint            `json:"userId" gorm:"index"`
	Type      NotificationType `json:"type" gorm:"not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"type:text"`
	RelatedID *uint            `json:"relatedId"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false"`
	ReadAt    *time.Time       `json:"readAt"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
