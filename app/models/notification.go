package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeMotivation    = "motivation"
	NotificationTypeLowMotivation = "low_motivation_alert"
	NotificationTypeWelcomeBack   = "welcome_back"
	NotificationTypeWeeklySummary = "weekly_summary"
	NotificationTypeSystem        = "system"
)

type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type        string         `gorm:"type:varchar(50)" json:"type" validate:"oneof=motivation low_motivation_alert welcome_back weekly_summary system"`
	Message     string         `gorm:"type:text" json:"message"`
	DetailsJSON string         `gorm:"type:text" json:"details_json"`
	IsRead      bool           `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarkAsRead marks a notification as read
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateNotification stores a new notification for a user
func CreateNotification(db *gorm.DB, userID uint, notificationType string, message string, detailsJSON string) error {
	notification := Notification{
		UserID:      userID,
		Type:        notificationType,
		Message:     message,
		DetailsJSON: detailsJSON,
		IsRead:      false,
	}

	return db.Create(&notification).Error
}
