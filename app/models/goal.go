package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GoalTypeStrength    = "strength"
	GoalTypeWeightLoss  = "weight_loss"
	GoalTypeConsistency = "consistency"
	GoalTypeEndurance   = "endurance"
	GoalTypeCustom      = "custom"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusFailed    = "failed"
	GoalStatusArchived  = "archived"
)

// Goal tracks a user objective toward a target value.
type Goal struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Type         string         `gorm:"type:varchar(30);not null" json:"type" validate:"oneof=strength weight_loss consistency endurance custom"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	TargetValue  float64        `gorm:"not null" json:"target_value" validate:"gt=0"`
	CurrentValue float64        `gorm:"not null;default:0" json:"current_value"`
	Unit         string         `gorm:"type:varchar(30);not null" json:"unit" validate:"required,max=30"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      *time.Time     `gorm:"default:null" json:"end_date,omitempty"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status" validate:"oneof=active completed failed archived"`
	ExerciseID   string         `gorm:"type:varchar(64);default:''" json:"exercise_id,omitempty"`
	Description  string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ApplyProgress sets the current value and completes the goal when the target
// is reached.
func (g *Goal) ApplyProgress(newValue float64) {
	g.CurrentValue = newValue
	if g.Status == GoalStatusActive && g.CurrentValue >= g.TargetValue {
		g.Status = GoalStatusCompleted
	}
}
