package activity

import (
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/utils"
	"gorm.io/gorm"
)

// ActivityService records and reads the activity feed.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// RecordActivity appends a feed entry. Failures are logged and never block
// the caller's request.
func (s *ActivityService) RecordActivity(activityType string, content string) error {
	activity := models.Activity{
		Type:    activityType,
		Content: content,
	}

	if err := s.db.Create(&activity).Error; err != nil {
		utils.LogError("failed to record activity", err)
		return err
	}

	return nil
}

// GetRecentActivities returns the newest feed entries, paginated.
func (s *ActivityService) GetRecentActivities(page, pageSize int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	if err := s.db.Model(&models.Activity{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := s.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activities).Error
	if err != nil {
		utils.LogError("failed to fetch recent activities", err)
		return nil, 0, err
	}

	return activities, total, nil
}
