package models

import "time"

const (
	BillingStatusNotStarted = "not_started"
	BillingStatusActive     = "active"
	BillingStatusTrialing   = "trialing"
	BillingStatusPastDue    = "past_due"
	BillingStatusCanceled   = "canceled"
	BillingStatusIncomplete = "incomplete"
	BillingStatusUnpaid     = "unpaid"
	BillingStatusPaused     = "paused"
)

// BillingSubscription mirrors the provider's subscription snapshot for one
// customer. It is keyed uniquely by customer id and replaced wholesale on
// every relevant billing event; there are no local-only fields to preserve.
type BillingSubscription struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CustomerID         string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"customer_id"`
	SubscriptionID     string    `gorm:"type:varchar(191);default:''" json:"subscription_id"`
	PriceID            string    `gorm:"type:varchar(191);default:''" json:"price_id"`
	Status             string    `gorm:"type:varchar(32);not null;default:'not_started';index" json:"status"`
	CurrentPeriodStart int64     `gorm:"default:0" json:"current_period_start"`
	CurrentPeriodEnd   int64     `gorm:"default:0" json:"current_period_end"`
	CancelAtPeriodEnd  bool      `gorm:"default:false" json:"cancel_at_period_end"`
	PaymentMethodBrand string    `gorm:"type:varchar(32);default:''" json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string    `gorm:"type:varchar(8);default:''" json:"payment_method_last4,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEntitling reports whether the mirrored status grants paid features.
func (s *BillingSubscription) IsEntitling() bool {
	switch s.Status {
	case BillingStatusActive, BillingStatusTrialing, BillingStatusPastDue:
		return true
	default:
		return false
	}
}
