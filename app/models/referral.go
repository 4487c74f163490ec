package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral links a referring user to a newly signed-up user. It is created in
// pending state when the referred user signs up with the referrer's code and
// transitions to completed exactly once, when the referred user's first
// subscription payment succeeds. The transition never reverses.
type Referral struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReferrerID  uint           `gorm:"not null;index" json:"referrer_id"`
	ReferredID  uint           `gorm:"not null;uniqueIndex" json:"referred_id"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt *time.Time     `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsCompleted reports whether the referral already completed.
func (r *Referral) IsCompleted() bool {
	return r.Status == ReferralStatusCompleted
}
