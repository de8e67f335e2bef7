package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/equiptrack/backend/internal/logger"
	"github.com/equiptrack/backend/internal/models"
	"gorm.io/gorm"
)

// EquipmentService owns the equipment inventory. Equipment is
// soft-deleted, unlike defect reports.
type EquipmentService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewEquipmentService(db *gorm.DB, activity *ActivityService) *EquipmentService {
	return &EquipmentService{db: db, activity: activity}
}

type CreateEquipmentInput struct {
	Name         string
	SerialNumber string
	Category     string
	Location     string
	Description  string
}

func (es *EquipmentService) Create(input CreateEquipmentInput, actorID uint) (*models.Equipment, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(input.SerialNumber) == "" {
		return nil, &ValidationError{Field: "serialNumber", Message: "serial number is required"}
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, &ValidationError{Field: "category", Message: "category is required"}
	}

	var existing models.Equipment
	if err := es.db.Where("serial_number = ?", input.SerialNumber).First(&existing).Error; err == nil {
		return nil, &ValidationError{Field: "serialNumber", Message: "serial number already registered"}
	}

	equipment := models.Equipment{
		Name:         input.Name,
		SerialNumber: input.SerialNumber,
		Category:     input.Category,
		Location:     input.Location,
		Description:  input.Description,
		Status:       models.EquipmentAvailable,
	}
	if err := es.db.Create(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	es.activity.Record(&actorID, "equipment_created", "equipment", equipment.ID, equipment.Name)
	return &equipment, nil
}

func (es *EquipmentService) GetByID(id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := es.db.First(&equipment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	return &equipment, nil
}

type EquipmentFilter struct {
	Category string
	Status   models.EquipmentStatus
	Search   string
	Offset   int
	Limit    int
}

func (es *EquipmentService) List(filter EquipmentFilter) ([]models.Equipment, int64, error) {
	query := es.db.Model(&models.Equipment{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(serial_number) LIKE ? OR LOWER(location) LIKE ?",
			needle, needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	var items []models.Equipment
	if err := query.Order("name asc").Offset(filter.Offset).Limit(filter.Limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	return items, total, nil
}

type UpdateEquipmentInput struct {
	Name        *string
	Category    *string
	Location    *string
	Description *string
}

func (es *EquipmentService) Update(id uint, input UpdateEquipmentInput, actorID uint) (*models.Equipment, error) {
	equipment, err := es.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		equipment.Name = *input.Name
	}
	if input.Category != nil {
		equipment.Category = *input.Category
	}
	if input.Location != nil {
		equipment.Location = *input.Location
	}
	if input.Description != nil {
		equipment.Description = *input.Description
	}

	if err := es.db.Save(equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}

	es.activity.Record(&actorID, "equipment_updated", "equipment", equipment.ID, equipment.Name)
	return equipment, nil
}

// SetStatus flips the equipment status. Used by the report workflow to
// mark items defective and release them on repair completion; failures
// there are treated as best-effort by the caller.
func (es *EquipmentService) SetStatus(id uint, status models.EquipmentStatus) error {
	result := es.db.Model(&models.Equipment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update equipment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	logger.WithEquipment(id).Infof("Equipment status set to %s", status)
	return nil
}

// Delete soft-deletes the equipment record so report history keeps
// resolving.
func (es *EquipmentService) Delete(id uint, actorID uint) error {
	equipment, err := es.GetByID(id)
	if err != nil {
		return err
	}
	if err := es.db.Delete(equipment).Error; err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	es.activity.Record(&actorID, "equipment_deleted", "equipment", id, equipment.Name)
	return nil
}
