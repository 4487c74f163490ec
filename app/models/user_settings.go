package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	WeightUnitKg = "kg"
	WeightUnitLb = "lb"
)

// UserSettings stores per-user preferences, plan info and the status flags
// consumed by the inactivity notification jobs.
type UserSettings struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	UserID                uint           `gorm:"uniqueIndex" json:"user_id"`
	Plan                  string         `gorm:"type:varchar(50);default:'free'" json:"plan"`
	WeightUnit            string         `gorm:"type:varchar(10);default:'kg'" json:"weight_unit" validate:"oneof=kg lb"`
	HeightCm              float64        `gorm:"default:0" json:"height_cm"`
	Sex                   string         `gorm:"type:varchar(10);default:''" json:"sex" validate:"omitempty,oneof=male female other"`
	WeeklyWorkoutGoal     int            `gorm:"default:3" json:"weekly_workout_goal"`
	NotifyWorkoutReminder bool           `gorm:"default:true" json:"notify_workout_reminder"`
	NotifyProgressUpdates bool           `gorm:"default:true" json:"notify_progress_updates"`
	NotifyNewFeatures     bool           `gorm:"default:false" json:"notify_new_features"`
	InitialMotivationSent bool           `gorm:"default:false" json:"-"`
	LowMotivationSent     bool           `gorm:"default:false" json:"-"`
	WelcomeBackSent       bool           `gorm:"default:false" json:"-"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// GetOrCreateUserSettings returns existing settings or creates defaults
func GetOrCreateUserSettings(db *gorm.DB, userID uint) (*UserSettings, error) {
	var us UserSettings
	if err := db.Where("user_id = ?", userID).First(&us).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			us = UserSettings{
				UserID:                userID,
				Plan:                  "free",
				WeightUnit:            WeightUnitKg,
				WeeklyWorkoutGoal:     3,
				NotifyWorkoutReminder: true,
				NotifyProgressUpdates: true,
			}
			if err := db.Create(&us).Error; err != nil {
				return nil, err
			}
			return &us, nil
		}
		return nil, err
	}
	return &us, nil
}

// ResetInactivityFlags clears all inactivity notification flags
func (us *UserSettings) ResetInactivityFlags() {
	us.InitialMotivationSent = false
	us.LowMotivationSent = false
	us.WelcomeBackSent = false
}
