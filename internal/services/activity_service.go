package services

import (
	"github.com/equiptrack/backend/internal/logger"
	"github.com/equiptrack/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityService appends to the activity log. Recording is always
// best-effort: a failed insert is logged and swallowed so it never
// fails the operation being recorded.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (as *ActivityService) Record(actorID *uint, action, entityType string, entityID uint, detail string) {
	entry := models.ActivityLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := as.db.Create(&entry).Error; err != nil {
		logger.Warn("Failed to record activity", map[string]interface{}{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
			"error":       err.Error(),
		})
	}
}

// List returns recent activity entries, newest first.
func (as *ActivityService) List(limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.ActivityLog
	if err := as.db.Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
