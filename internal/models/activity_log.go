package models

import (
	"time"
)

type ActivityLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ActorID    *uint     `json:"actorId"`
	Action     string    `json:"action" gorm:"not null"`
	EntityType string    `json:"entityType" gorm:"not null"`
	EntityID   uint      `json:"entityId"`
	Detail     string    `json:"detail" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
