package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/equiptrack/backend/internal/logger"
	"github.com/equiptrack/backend/internal/models"
	"github.com/equiptrack/backend/internal/storage"
	"gorm.io/gorm"
)

const (
	maxPhotosPerReport  = 5
	maxPhotoUploadBytes = 5 << 20
	minDescriptionLen   = 10
	duplicateWindow     = 24 * time.Hour
)

// ReportService owns the defect report lifecycle: creation with derived
// fields, the status state machine, the audit trail, and the
// notification fan-out. The primary write and its history entry share a
// transaction; notifications, equipment flips and activity records run
// best-effort after commit.
type ReportService struct {
	db        *gorm.DB
	photos    storage.PhotoStore
	notifier  *NotificationService
	equipment *EquipmentService
	activity  *ActivityService
}

func NewReportService(db *gorm.DB, photos storage.PhotoStore, notifier *NotificationService, equipment *EquipmentService, activity *ActivityService) *ReportService {
	return &ReportService{
		db:        db,
		photos:    photos,
		notifier:  notifier,
		equipment: equipment,
		activity:  activity,
	}
}

type PhotoUpload struct {
	Data     []byte
	MimeType string
}

type CreateReportInput struct {
	ReporterID  uint
	EquipmentID uint
	Description string
	Location    string
	// Priority and Category are derived from the description when left
	// empty.
	Priority models.ReportPriority
	Category models.ReportCategory
	Photos   []PhotoUpload
	// Force skips duplicate suppression on resubmission.
	Force bool
}

type CreateReportResult struct {
	ReportID       uint                  `json:"reportId"`
	Priority       models.ReportPriority `json:"priority"`
	EstimatedHours float64               `json:"estimatedHours"`
}

// Create validates, derives, persists and fans out a new defect report.
// No side effect happens before validation passes; a photo storage
// failure aborts the whole creation.
func (rs *ReportService) Create(input CreateReportInput) (*CreateReportResult, error) {
	if err := rs.validateCreate(&input); err != nil {
		return nil, err
	}

	if !input.Force {
		if err := rs.checkDuplicate(input.EquipmentID); err != nil {
			return nil, err
		}
	}

	photoPaths, err := rs.storePhotos(input.Photos)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = DetectPriority(input.Description)
	}
	category := input.Category
	if category == "" {
		category = DetectCategory(input.Description)
	}
	estimate := EstimateRepairHours(priority, category)

	report := models.DefectReport{
		ReporterID:          input.ReporterID,
		EquipmentID:         input.EquipmentID,
		Description:         input.Description,
		Location:            input.Location,
		PhotoPaths:          photoPaths,
		Status:              models.StatusPending,
		Priority:            priority,
		Category:            category,
		EstimatedRepairTime: estimate,
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		status := models.StatusPending
		history := models.ReportStatusHistory{
			ReportID: report.ID,
			Status:   &status,
			Note:     "Report created",
			ActorID:  &input.ReporterID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		rs.removePhotos(photoPaths)
		return nil, err
	}

	rs.afterCreate(&report)

	return &CreateReportResult{
		ReportID:       report.ID,
		Priority:       report.Priority,
		EstimatedHours: report.EstimatedRepairTime,
	}, nil
}

func (rs *ReportService) validateCreate(input *CreateReportInput) error {
	if input.ReporterID == 0 {
		return &ValidationError{Field: "reporterId", Message: "reporter is required"}
	}
	if input.EquipmentID == 0 {
		return &ValidationError{Field: "equipmentId", Message: "equipment is required"}
	}
	if len(strings.TrimSpace(input.Description)) < minDescriptionLen {
		return &ValidationError{Field: "description", Message: fmt.Sprintf("description must be at least %d characters", minDescriptionLen)}
	}
	if strings.TrimSpace(input.Location) == "" {
		return &ValidationError{Field: "location", Message: "location is required"}
	}
	if input.Priority != "" && !ValidReportPriority(input.Priority) {
		return &ValidationError{Field: "priority", Message: "unknown priority value"}
	}
	if input.Category != "" && !ValidReportCategory(input.Category) {
		return &ValidationError{Field: "category", Message: "unknown category value"}
	}
	if len(input.Photos) > maxPhotosPerReport {
		return &ValidationError{Field: "photos", Message: fmt.Sprintf("at most %d photos per report", maxPhotosPerReport)}
	}
	for _, photo := range input.Photos {
		if len(photo.Data) > maxPhotoUploadBytes {
			return &ValidationError{Field: "photos", Message: "each photo must be 5MB or smaller"}
		}
		if !storage.AllowedMimeType(photo.MimeType) {
			return &ValidationError{Field: "photos", Message: fmt.Sprintf("unsupported photo type %s", photo.MimeType)}
		}
	}

	var reporter models.User
	if err := rs.db.First(&reporter, input.ReporterID).Error; err != nil {
		return &ValidationError{Field: "reporterId", Message: "reporter not found"}
	}
	var equipment models.Equipment
	if err := rs.db.First(&equipment, input.EquipmentID).Error; err != nil {
		return &ValidationError{Field: "equipmentId", Message: "equipment not found"}
	}
	return nil
}

// checkDuplicate is a read-then-write hint, not a uniqueness
// constraint: concurrent submissions can both pass it.
func (rs *ReportService) checkDuplicate(equipmentID uint) error {
	cutoff := time.Now().Add(-duplicateWindow)
	var existing models.DefectReport
	err := rs.db.
		Where("equipment_id = ? AND created_at > ? AND status IN ?",
			equipmentID, cutoff, []models.ReportStatus{models.StatusPending, models.StatusInProgress}).
		First(&existing).Error
	if err == nil {
		return &DuplicateReportError{EquipmentID: equipmentID, ExistingReportID: existing.ID}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("duplicate check failed: %w", err)
}

func (rs *ReportService) storePhotos(photos []PhotoUpload) ([]string, error) {
	var paths []string
	for _, photo := range photos {
		path, err := rs.photos.Store(photo.Data, photo.MimeType)
		if err != nil {
			rs.removePhotos(paths)
			return nil, &StorageError{Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (rs *ReportService) removePhotos(paths []string) {
	for _, path := range paths {
		if err := rs.photos.Remove(path); err != nil {
			logger.Warn("Failed to remove stored photo", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}

func (rs *ReportService) afterCreate(report *models.DefectReport) {
	reporterID := report.ReporterID
	if err := rs.notifier.Notify(&reporterID, models.NotifyReportCreated,
		"Defect report submitted",
		fmt.Sprintf("Your report #%d was received and is pending review (estimated repair: %.1f hours).", report.ID, report.EstimatedRepairTime),
		&report.ID); err != nil {
		logger.WithReport(report.ID).Warnf("Failed to notify reporter: %v", err)
	}

	if report.Priority == models.PriorityHigh || report.Priority == models.PriorityCritical {
		if err := rs.notifier.Notify(nil, models.NotifyUrgentReport,
			fmt.Sprintf("%s priority defect reported", report.Priority),
			fmt.Sprintf("Report #%d for equipment %d needs attention: %s", report.ID, report.EquipmentID, report.Description),
			&report.ID); err != nil {
			logger.WithReport(report.ID).Warnf("Failed to broadcast urgent report: %v", err)
		}
	}

	if err := rs.equipment.SetStatus(report.EquipmentID, models.EquipmentDefective); err != nil {
		logger.WithReport(report.ID).Warnf("Failed to mark equipment defective: %v", err)
	}

	rs.activity.Record(&reporterID, "report_created", "defect_report", report.ID,
		fmt.Sprintf("priority=%s category=%s", report.Priority, report.Category))
}

// UpdateStatus applies a status transition from the fixed edge table.
// The status write and its history entry commit together; the
// equipment flip and reporter notification follow best-effort.
func (rs *ReportService) UpdateStatus(reportID uint, newStatus models.ReportStatus, actorID *uint, notes string) (models.ReportStatus, models.ReportStatus, error) {
	if !ValidReportStatus(newStatus) {
		return "", "", &ValidationError{Field: "status", Message: "unknown status value"}
	}

	report, err := rs.getReport(reportID)
	if err != nil {
		return "", "", err
	}

	oldStatus := report.Status
	if !CanTransition(oldStatus, newStatus) {
		return "", "", &InvalidTransitionError{From: oldStatus, To: newStatus}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         newStatus,
		"completed_date": nil,
	}
	if newStatus == models.StatusCompleted {
		updates["completed_date"] = &now
		actual := roundHours(now.Sub(report.CreatedAt).Hours())
		updates["actual_repair_time"] = &actual
	}

	note := notes
	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DefectReport{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update report status: %w", err)
		}
		status := newStatus
		history := models.ReportStatusHistory{
			ReportID: reportID,
			Status:   &status,
			Note:     note,
			ActorID:  actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	if newStatus == models.StatusCompleted {
		if err := rs.equipment.SetStatus(report.EquipmentID, models.EquipmentAvailable); err != nil {
			logger.WithReport(reportID).Warnf("Failed to release equipment: %v", err)
		}
	}

	reporterID := report.ReporterID
	if err := rs.notifier.Notify(&reporterID, models.NotifyStatusChanged,
		"Report status updated",
		fmt.Sprintf("Your report #%d moved from %s to %s.", reportID, oldStatus, newStatus),
		&reportID); err != nil {
		logger.WithReport(reportID).Warnf("Failed to notify reporter: %v", err)
	}

	return oldStatus, newStatus, nil
}

// UpdatePriority changes the priority at any time; there is no
// transition table for priorities. The history annotation carries a
// null status, which is what marks it as a non-transition entry.
func (rs *ReportService) UpdatePriority(reportID uint, newPriority models.ReportPriority, reason string, actorID *uint) error {
	if !ValidReportPriority(newPriority) {
		return &ValidationError{Field: "priority", Message: "unknown priority value"}
	}

	report, err := rs.getReport(reportID)
	if err != nil {
		return err
	}
	oldPriority := report.Priority

	note := fmt.Sprintf("Priority changed from %s to %s", oldPriority, newPriority)
	if reason != "" {
		note += ": " + reason
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DefectReport{}).Where("id = ?", reportID).Update("priority", newPriority).Error; err != nil {
			return fmt.Errorf("failed to update report priority: %w", err)
		}
		history := models.ReportStatusHistory{
			ReportID: reportID,
			Status:   nil,
			Note:     note,
			ActorID:  actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	reporterID := report.ReporterID
	if err := rs.notifier.Notify(&reporterID, models.NotifyPriorityChange,
		"Report priority updated",
		fmt.Sprintf("Your report #%d priority was changed from %s to %s.", reportID, oldPriority, newPriority),
		&reportID); err != nil {
		logger.WithReport(reportID).Warnf("Failed to notify reporter: %v", err)
	}

	return nil
}

// AssignToHandler sets the handler and, when the report is still
// pending, moves it straight to in progress. That move deliberately
// skips the transition table; the history row records an assignment
// note, not a status change.
func (rs *ReportService) AssignToHandler(reportID, handlerID uint, notes string, actorID *uint) error {
	report, err := rs.getReport(reportID)
	if err != nil {
		return err
	}

	var handler models.User
	if err := rs.db.First(&handler, handlerID).Error; err != nil {
		return &ValidationError{Field: "handlerId", Message: "handler not found"}
	}

	note := fmt.Sprintf("Assigned to %s", handler.FullName())
	if notes != "" {
		note += ": " + notes
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"assigned_to": handlerID}
		if report.Status == models.StatusPending {
			updates["status"] = models.StatusInProgress
		}
		if err := tx.Model(&models.DefectReport{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to assign report: %w", err)
		}
		history := models.ReportStatusHistory{
			ReportID: reportID,
			Status:   nil,
			Note:     note,
			ActorID:  actorID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create history entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	reporterID := report.ReporterID
	if err := rs.notifier.Notify(&reporterID, models.NotifyAssignment,
		"Report assigned",
		fmt.Sprintf("Your report #%d was assigned to %s.", reportID, handler.FullName()),
		&reportID); err != nil {
		logger.WithReport(reportID).Warnf("Failed to notify reporter: %v", err)
	}

	return nil
}

// ReportDetail is a report plus its audit trail and comments.
type ReportDetail struct {
	Report   models.DefectReport          `json:"report"`
	History  []models.ReportStatusHistory `json:"history"`
	Comments []models.ReportComment       `json:"comments"`
}

func (rs *ReportService) GetByID(reportID uint) (*ReportDetail, error) {
	var report models.DefectReport
	err := rs.db.Preload("Reporter").Preload("Equipment").Preload("Handler").First(&report, reportID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	var history []models.ReportStatusHistory
	if err := rs.db.Preload("Actor").Where("report_id = ?", reportID).Order("created_at asc").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch report history: %w", err)
	}

	var comments []models.ReportComment
	if err := rs.db.Preload("Author").Where("report_id = ?", reportID).Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch report comments: %w", err)
	}

	return &ReportDetail{Report: report, History: history, Comments: comments}, nil
}

func (rs *ReportService) AddComment(reportID, authorID uint, text string) (*models.ReportComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "comment text is required"}
	}
	if _, err := rs.getReport(reportID); err != nil {
		return nil, err
	}

	comment := models.ReportComment{
		ReportID: reportID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := rs.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

func (rs *ReportService) DeleteComment(reportID, commentID, actorID uint, role models.UserRole) error {
	var comment models.ReportComment
	if err := rs.db.Where("id = ? AND report_id = ?", commentID, reportID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch comment: %w", err)
	}
	if comment.AuthorID != actorID && role != models.RoleAdmin {
		return &ValidationError{Field: "commentId", Message: "only the author or an admin can delete a comment"}
	}
	if err := rs.db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// Delete hard-deletes the report with its history and comments, then
// removes stored photos best-effort. There is no tombstone for
// reports.
func (rs *ReportService) Delete(reportID uint, actorID *uint) error {
	report, err := rs.getReport(reportID)
	if err != nil {
		return err
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete report comments: %w", err)
		}
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportStatusHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete report history: %w", err)
		}
		if err := tx.Delete(&models.DefectReport{}, reportID).Error; err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	rs.removePhotos(report.PhotoPaths)
	rs.activity.Record(actorID, "report_deleted", "defect_report", reportID,
		fmt.Sprintf("equipment=%d", report.EquipmentID))

	return nil
}

func (rs *ReportService) getReport(reportID uint) (*models.DefectReport, error) {
	var report models.DefectReport
	if err := rs.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}
	return &report, nil
}
