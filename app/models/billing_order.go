package models

import "time"

const (
	OrderStatusCompleted = "completed"
	OrderStatusRefunded  = "refunded"
)

// BillingOrder records a completed one-time payment (checkout in payment
// mode), mirrored from the provider's checkout session.
type BillingOrder struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CheckoutSessionID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"checkout_session_id"`
	PaymentIntentID   string    `gorm:"type:varchar(191);default:''" json:"payment_intent_id"`
	CustomerID        string    `gorm:"type:varchar(191);not null;index" json:"customer_id"`
	AmountSubtotal    int64     `gorm:"default:0" json:"amount_subtotal"`
	AmountTotal       int64     `gorm:"default:0" json:"amount_total"`
	Currency          string    `gorm:"type:varchar(8);default:''" json:"currency"`
	PaymentStatus     string    `gorm:"type:varchar(32);default:''" json:"payment_status"`
	Status            string    `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
