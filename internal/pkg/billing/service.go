package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
)

// Provider is the subset of the payment-provider API the service depends on.
// *StripeClient satisfies it; tests substitute fakes.
type Provider interface {
	ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]Subscription, error)
	UpdateSubscriptionTrialEnd(ctx context.Context, subscriptionID string, trialEndUnix int64) (*Subscription, error)
	CreateCustomer(ctx context.Context, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}

// Service provides billing synchronization between the payment provider and
// the local subscription mirror.
type Service struct {
	repo     Repository
	provider Provider
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, provider Provider) *Service {
	return &Service{repo: repo, provider: provider}
}

// NewServiceFromDB creates a billing service from a GORM DB handle using the
// environment-configured provider client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewStripeClientFromEnv())
}

// EnsureCustomer returns the user's linked provider customer, creating one at
// the provider and persisting the linkage when missing.
func (s *Service) EnsureCustomer(ctx context.Context, userID uint, email, name string) (*models.BillingCustomer, error) {
	if userID == 0 {
		return nil, errors.New("user_id is required")
	}

	bc, err := s.repo.GetCustomerByUserID(userID)
	if err == nil {
		return bc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customerID, err := s.provider.CreateCustomer(ctx, email, name)
	if err != nil {
		return nil, err
	}

	bc = &models.BillingCustomer{UserID: userID, CustomerID: customerID}
	if err := s.repo.UpsertCustomer(bc); err != nil {
		return nil, err
	}
	return bc, nil
}

// ResolveCustomerUser maps a provider customer id to the local user id.
func (s *Service) ResolveCustomerUser(ctx context.Context, customerID string) (uint, error) {
	_ = ctx
	if strings.TrimSpace(customerID) == "" {
		return 0, errors.New("customer id is required")
	}
	bc, err := s.repo.GetCustomerByCustomerID(customerID)
	if err != nil {
		return 0, err
	}
	return bc.UserID, nil
}

// SyncCustomerSubscription fetches the customer's current subscription
// snapshot from the provider and replaces the local mirror row wholesale.
// A customer without any subscription gets a not_started row.
func (s *Service) SyncCustomerSubscription(ctx context.Context, customerID string) (*models.BillingSubscription, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customer id is required")
	}

	subs, err := s.provider.ListSubscriptions(ctx, customerID, "all", 1)
	if err != nil {
		return nil, err
	}

	mirror := &models.BillingSubscription{
		CustomerID: customerID,
		Status:     models.BillingStatusNotStarted,
	}
	if len(subs) > 0 {
		// A customer is assumed to have a single subscription.
		sub := subs[0]
		brand, last4 := sub.PaymentMethodCard()
		mirror.SubscriptionID = sub.ID
		mirror.PriceID = sub.PriceID()
		mirror.Status = strings.ToLower(strings.TrimSpace(sub.Status))
		mirror.CurrentPeriodStart = sub.CurrentPeriodStart
		mirror.CurrentPeriodEnd = sub.CurrentPeriodEnd
		mirror.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
		mirror.PaymentMethodBrand = brand
		mirror.PaymentMethodLast4 = last4
	}

	if err := s.repo.ReplaceSubscription(mirror); err != nil {
		return nil, err
	}
	return mirror, nil
}

// GetSubscriptionForUser returns the local mirror row for the user's
// customer, if any.
func (s *Service) GetSubscriptionForUser(ctx context.Context, userID uint) (*models.BillingSubscription, error) {
	_ = ctx
	bc, err := s.repo.GetCustomerByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetSubscriptionByCustomerID(bc.CustomerID)
}

// CreateCheckoutSession creates a hosted checkout session for the user's
// provider customer.
func (s *Service) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	return s.provider.CreateCheckoutSession(ctx, params)
}

// RecordOrder persists a completed one-time payment, idempotent per checkout
// session id.
func (s *Service) RecordOrder(ctx context.Context, obj *EventObject) (bool, error) {
	_ = ctx
	if obj == nil || strings.TrimSpace(obj.ID) == "" {
		return false, errors.New("checkout session id is required")
	}
	order := &models.BillingOrder{
		CheckoutSessionID: obj.ID,
		PaymentIntentID:   obj.PaymentIntent,
		CustomerID:        obj.Customer,
		AmountSubtotal:    obj.AmountSubtotal,
		AmountTotal:       obj.AmountTotal,
		Currency:          obj.Currency,
		PaymentStatus:     obj.PaymentStatus,
		Status:            models.OrderStatusCompleted,
	}
	return s.repo.CreateOrderIfNotExists(order)
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
