package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillingSubscriptionIsEntitling(t *testing.T) {
	for _, status := range []string{BillingStatusActive, BillingStatusTrialing, BillingStatusPastDue} {
		s := &BillingSubscription{Status: status}
		assert.True(t, s.IsEntitling(), status)
	}
	for _, status := range []string{BillingStatusNotStarted, BillingStatusCanceled, BillingStatusIncomplete, BillingStatusUnpaid, BillingStatusPaused} {
		s := &BillingSubscription{Status: status}
		assert.False(t, s.IsEntitling(), status)
	}
}
