package services

import (
	"fmt"
	"time"

	"github.com/equiptrack/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationService writes and reads the notification table. The UI
// polls this table; nothing here pushes.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify inserts a notification. A nil userID makes it a broadcast
// visible to all staff accounts.
func (ns *NotificationService) Notify(userID *uint, ntype models.NotificationType, title, message string, relatedID *uint) error {
	n := models.Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := ns.db.Create(&n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns the user's notifications, newest first. Staff
// roles also see broadcasts.
func (ns *NotificationService) ListForUser(userID uint, role models.UserRole, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := ns.db.Model(&models.Notification{})
	if role.IsStaff() {
		query = query.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		query = query.Where("user_id = ?", userID)
	}
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns how many unread notifications the user can see.
func (ns *NotificationService) UnreadCount(userID uint, role models.UserRole) (int64, error) {
	query := ns.db.Model(&models.Notification{}).Where("is_read = ?", false)
	if role.IsStaff() {
		query = query.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets the read flag. Only the read flag and timestamp are
// ever mutated on a notification.
func (ns *NotificationService) MarkRead(notificationID, userID uint, role models.UserRole) error {
	query := ns.db.Model(&models.Notification{}).Where("id = ?", notificationID)
	if role.IsStaff() {
		query = query.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	now := time.Now()
	result := query.Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every visible unread notification read.
func (ns *NotificationService) MarkAllRead(userID uint, role models.UserRole) error {
	query := ns.db.Model(&models.Notification{}).Where("is_read = ?", false)
	if role.IsStaff() {
		query = query.Where("user_id = ? OR user_id IS NULL", userID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	now := time.Now()
	if err := query.Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
