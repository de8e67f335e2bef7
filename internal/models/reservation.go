package models

import (
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationApproved  ReservationStatus = "APPROVED"
	ReservationRejected  ReservationStatus = "REJECTED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationReturned  ReservationStatus = "RETURNED"
)

type Reservation struct {
	ID           uint              `json:"id" gorm:"primaryKey"`
	EquipmentID  uint              `json:"equipmentId" gorm:"not null;index"`
	Equipment    Equipment         `json:"equipment" gorm:"foreignKey:EquipmentID"`
	UserID       uint              `json:"userId" gorm:"not null;index"`
	User         User              `json:"user" gorm:"foreignKey:UserID"`
	StartTime    time.Time         `json:"startTime" gorm:"not null"`
	EndTime      time.Time         `json:"endTime" gorm:"not null"`
	Purpose      string            `json:"purpose" gorm:"type:text"`
	Status       ReservationStatus `json:"status" gorm:"not null;default:'PENDING'"`
	HandlerNotes *string           `json:"handlerNotes" gorm:"type:text"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (Reservation) TableName() string {
	return "reservations"
}
