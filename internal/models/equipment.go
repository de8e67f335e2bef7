package models

import (
	"time"

	"gorm.io/gorm"
)

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "AVAILABLE"
	EquipmentReserved    EquipmentStatus = "RESERVED"
	EquipmentInUse       EquipmentStatus = "IN_USE"
	EquipmentDefective   EquipmentStatus = "DEFECTIVE"
	EquipmentMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentRetired     EquipmentStatus = "RETIRED"
)

// Equipment is soft-deleted so retired items keep their report history.
type Equipment struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"not null"`
	SerialNumber string          `json:"serialNumber" gorm:"uniqueIndex;not null"`
	Category     string          `json:"category" gorm:"not null"`
	Location     string          `json:"location"`
	Description  string          `json:"description" gorm:"type:text"`
	Status       EquipmentStatus `json:"status" gorm:"not null;default:'AVAILABLE'"`
	PurchaseDate *time.Time      `json:"purchaseDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Equipment) TableName() string {
	return "equipment"
}
