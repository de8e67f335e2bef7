package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/equiptrack/backend/internal/logger"
	"github.com/equiptrack/backend/internal/models"
	"gorm.io/gorm"
)

// ReservationService handles equipment booking requests and their
// approval flow.
type ReservationService struct {
	db       *gorm.DB
	notifier *NotificationService
	activity *ActivityService
}

func NewReservationService(db *gorm.DB, notifier *NotificationService, activity *ActivityService) *ReservationService {
	return &ReservationService{db: db, notifier: notifier, activity: activity}
}

type CreateReservationInput struct {
	UserID      uint
	EquipmentID uint
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
}

func (vs *ReservationService) Create(input CreateReservationInput) (*models.Reservation, error) {
	if input.EquipmentID == 0 {
		return nil, &ValidationError{Field: "equipmentId", Message: "equipment is required"}
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, &ValidationError{Field: "endTime", Message: "end time must be after start time"}
	}
	if input.StartTime.Before(time.Now()) {
		return nil, &ValidationError{Field: "startTime", Message: "start time must be in the future"}
	}

	var equipment models.Equipment
	if err := vs.db.First(&equipment, input.EquipmentID).Error; err != nil {
		return nil, &ValidationError{Field: "equipmentId", Message: "equipment not found"}
	}
	if equipment.Status == models.EquipmentDefective || equipment.Status == models.EquipmentRetired {
		return nil, &ValidationError{Field: "equipmentId", Message: fmt.Sprintf("equipment is %s and cannot be reserved", equipment.Status)}
	}

	// Overlap against approved reservations only; pending requests can
	// compete for the same slot until one is approved.
	var overlapping int64
	err := vs.db.Model(&models.Reservation{}).
		Where("equipment_id = ? AND status = ? AND start_time < ? AND end_time > ?",
			input.EquipmentID, models.ReservationApproved, input.EndTime, input.StartTime).
		Count(&overlapping).Error
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if overlapping > 0 {
		return nil, &ValidationError{Field: "startTime", Message: "equipment is already reserved for that window"}
	}

	reservation := models.Reservation{
		EquipmentID: input.EquipmentID,
		UserID:      input.UserID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Purpose:     input.Purpose,
		Status:      models.ReservationPending,
	}
	if err := vs.db.Create(&reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	vs.activity.Record(&input.UserID, "reservation_created", "reservation", reservation.ID, equipment.Name)
	return &reservation, nil
}

// Decide approves or rejects a pending reservation. Approval flips the
// equipment to reserved.
func (vs *ReservationService) Decide(reservationID uint, approve bool, handlerNotes string, actorID uint) (*models.Reservation, error) {
	reservation, err := vs.getReservation(reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationPending {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("reservation is already %s", reservation.Status)}
	}

	newStatus := models.ReservationRejected
	if approve {
		newStatus = models.ReservationApproved
	}

	updates := map[string]interface{}{"status": newStatus}
	if handlerNotes != "" {
		updates["handler_notes"] = handlerNotes
	}
	if err := vs.db.Model(reservation).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if approve {
		if err := vs.db.Model(&models.Equipment{}).Where("id = ?", reservation.EquipmentID).
			Update("status", models.EquipmentReserved).Error; err != nil {
			logger.WithEquipment(reservation.EquipmentID).Warnf("Failed to mark equipment reserved: %v", err)
		}
	}

	userID := reservation.UserID
	title := "Reservation rejected"
	if approve {
		title = "Reservation approved"
	}
	if err := vs.notifier.Notify(&userID, models.NotifyReservation, title,
		fmt.Sprintf("Your reservation #%d was %s.", reservation.ID, newStatus), &reservation.ID); err != nil {
		logger.Warn("Failed to notify reservation decision", map[string]interface{}{
			"reservation_id": reservation.ID,
			"error":          err.Error(),
		})
	}

	vs.activity.Record(&actorID, "reservation_decided", "reservation", reservation.ID, string(newStatus))
	return vs.getReservation(reservationID)
}

// Cancel lets the requester withdraw a reservation that has not been
// returned yet. Cancelling an approved reservation releases the
// equipment.
func (vs *ReservationService) Cancel(reservationID, userID uint) error {
	reservation, err := vs.getReservation(reservationID)
	if err != nil {
		return err
	}
	if reservation.UserID != userID {
		return &ValidationError{Field: "reservationId", Message: "only the requester can cancel a reservation"}
	}
	if reservation.Status == models.ReservationReturned || reservation.Status == models.ReservationCancelled {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("reservation is already %s", reservation.Status)}
	}

	wasApproved := reservation.Status == models.ReservationApproved
	if err := vs.db.Model(reservation).Update("status", models.ReservationCancelled).Error; err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if wasApproved {
		if err := vs.db.Model(&models.Equipment{}).Where("id = ?", reservation.EquipmentID).
			Update("status", models.EquipmentAvailable).Error; err != nil {
			logger.WithEquipment(reservation.EquipmentID).Warnf("Failed to release equipment: %v", err)
		}
	}

	vs.activity.Record(&userID, "reservation_cancelled", "reservation", reservation.ID, "")
	return nil
}

// Return closes out an approved reservation and releases the
// equipment.
func (vs *ReservationService) Return(reservationID uint, actorID uint) error {
	reservation, err := vs.getReservation(reservationID)
	if err != nil {
		return err
	}
	if reservation.Status != models.ReservationApproved {
		return &ValidationError{Field: "status", Message: "only approved reservations can be returned"}
	}

	if err := vs.db.Model(reservation).Update("status", models.ReservationReturned).Error; err != nil {
		return fmt.Errorf("failed to return reservation: %w", err)
	}
	if err := vs.db.Model(&models.Equipment{}).Where("id = ?", reservation.EquipmentID).
		Update("status", models.EquipmentAvailable).Error; err != nil {
		logger.WithEquipment(reservation.EquipmentID).Warnf("Failed to release equipment: %v", err)
	}

	vs.activity.Record(&actorID, "reservation_returned", "reservation", reservation.ID, "")
	return nil
}

type ReservationFilter struct {
	UserID      *uint
	EquipmentID *uint
	Status      models.ReservationStatus
	Offset      int
	Limit       int
}

func (vs *ReservationService) List(filter ReservationFilter) ([]models.Reservation, int64, error) {
	query := vs.db.Model(&models.Reservation{}).Preload("Equipment").Preload("User")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EquipmentID != nil {
		query = query.Where("equipment_id = ?", *filter.EquipmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	var reservations []models.Reservation
	if err := query.Order("start_time desc").Offset(filter.Offset).Limit(filter.Limit).Find(&reservations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reservations: %w", err)
	}
	return reservations, total, nil
}

func (vs *ReservationService) getReservation(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := vs.db.First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return &reservation, nil
}
