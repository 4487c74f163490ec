package billing

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/fitrekhq/fitrek/app/models"
)

type fakeBillingRepo struct {
	customersByUser     map[uint]*models.BillingCustomer
	customersByProvider map[string]*models.BillingCustomer
	subscription        *models.BillingSubscription
	orders              map[string]*models.BillingOrder
	events              map[string]*models.BillingWebhookEvent
	processed           map[uint]string
	nextEventID         uint
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		customersByUser:     map[uint]*models.BillingCustomer{},
		customersByProvider: map[string]*models.BillingCustomer{},
		orders:              map[string]*models.BillingOrder{},
		events:              map[string]*models.BillingWebhookEvent{},
		processed:           map[uint]string{},
	}
}

func (f *fakeBillingRepo) UpsertCustomer(bc *models.BillingCustomer) error {
	f.customersByUser[bc.UserID] = bc
	f.customersByProvider[bc.CustomerID] = bc
	return nil
}

func (f *fakeBillingRepo) GetCustomerByCustomerID(customerID string) (*models.BillingCustomer, error) {
	if bc, ok := f.customersByProvider[customerID]; ok {
		return bc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) GetCustomerByUserID(userID uint) (*models.BillingCustomer, error) {
	if bc, ok := f.customersByUser[userID]; ok {
		return bc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) ReplaceSubscription(sub *models.BillingSubscription) error {
	f.subscription = sub
	return nil
}

func (f *fakeBillingRepo) GetSubscriptionByCustomerID(customerID string) (*models.BillingSubscription, error) {
	if f.subscription != nil && f.subscription.CustomerID == customerID {
		return f.subscription, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) CreateOrderIfNotExists(order *models.BillingOrder) (bool, error) {
	if _, ok := f.orders[order.CheckoutSessionID]; ok {
		return false, nil
	}
	f.orders[order.CheckoutSessionID] = order
	return true, nil
}

func (f *fakeBillingRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		return false, existing, nil
	}
	f.nextEventID++
	event.ID = f.nextEventID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeBillingRepo) MarkWebhookProcessed(id uint, processingError string) error {
	f.processed[id] = processingError
	return nil
}

type fakeStripeProvider struct {
	subs          []Subscription
	createdCustID string
}

func (f *fakeStripeProvider) ListSubscriptions(_ context.Context, _, _ string, _ int) ([]Subscription, error) {
	return f.subs, nil
}

func (f *fakeStripeProvider) UpdateSubscriptionTrialEnd(_ context.Context, subscriptionID string, _ int64) (*Subscription, error) {
	return &Subscription{ID: subscriptionID}, nil
}

func (f *fakeStripeProvider) CreateCustomer(_ context.Context, _, _ string) (string, error) {
	if f.createdCustID == "" {
		f.createdCustID = "cus_new"
	}
	return f.createdCustID, nil
}

func (f *fakeStripeProvider) CreateCheckoutSession(_ context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	return &CheckoutSession{ID: "cs_test", URL: "https://checkout.example/" + params.PriceID}, nil
}

func TestEnsureCustomer(t *testing.T) {
	repo := newFakeBillingRepo()
	provider := &fakeStripeProvider{}
	svc := NewService(repo, provider)
	ctx := context.Background()

	bc, err := svc.EnsureCustomer(ctx, 1, "user@example.com", "Test User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.CustomerID != "cus_new" {
		t.Fatalf("expected provider customer to be created, got %q", bc.CustomerID)
	}

	again, err := svc.EnsureCustomer(ctx, 1, "user@example.com", "Test User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.CustomerID != bc.CustomerID {
		t.Fatalf("expected existing linkage to be reused")
	}
}

func TestSyncCustomerSubscription(t *testing.T) {
	repo := newFakeBillingRepo()
	provider := &fakeStripeProvider{subs: []Subscription{{
		ID:                   "sub_1",
		Customer:             "cus_1",
		Status:               "Active",
		CurrentPeriodStart:   100,
		CurrentPeriodEnd:     200,
		CancelAtPeriodEnd:    true,
		Items:                SubscriptionItemList{Data: []SubscriptionItem{{Price: Price{ID: "price_pro"}}}},
		DefaultPaymentMethod: []byte(`{"card":{"brand":"visa","last4":"4242"}}`),
	}}}
	svc := NewService(repo, provider)

	mirror, err := svc.SyncCustomerSubscription(context.Background(), "cus_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.SubscriptionID != "sub_1" || mirror.PriceID != "price_pro" {
		t.Fatalf("unexpected mirror: %+v", mirror)
	}
	if mirror.Status != models.BillingStatusActive {
		t.Fatalf("expected normalized status active, got %q", mirror.Status)
	}
	if !mirror.CancelAtPeriodEnd || mirror.CurrentPeriodEnd != 200 {
		t.Fatalf("unexpected period fields: %+v", mirror)
	}
	if mirror.PaymentMethodBrand != "visa" || mirror.PaymentMethodLast4 != "4242" {
		t.Fatalf("unexpected card: %q %q", mirror.PaymentMethodBrand, mirror.PaymentMethodLast4)
	}
}

func TestSyncCustomerSubscription_NoSubscription(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeStripeProvider{})

	mirror, err := svc.SyncCustomerSubscription(context.Background(), "cus_empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mirror.Status != models.BillingStatusNotStarted {
		t.Fatalf("expected not_started mirror, got %q", mirror.Status)
	}
	if mirror.SubscriptionID != "" {
		t.Fatalf("expected empty subscription id, got %q", mirror.SubscriptionID)
	}
}

func TestRecordWebhookEvent_Dedup(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeStripeProvider{})
	ctx := context.Background()

	in := WebhookEventInput{
		Provider:        "Stripe",
		ProviderEventID: "evt_1",
		EventType:       "invoice.paid",
		PayloadJSON:     `{"id":"evt_1"}`,
		SignatureValid:  true,
	}

	created, event, err := svc.RecordWebhookEvent(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || event.ID == 0 {
		t.Fatalf("expected first delivery to create a row")
	}
	if event.Provider != "stripe" {
		t.Fatalf("expected normalized provider, got %q", event.Provider)
	}

	createdAgain, _, err := svc.RecordWebhookEvent(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdAgain {
		t.Fatalf("expected duplicate delivery to be ignored")
	}
}

func TestRecordWebhookEvent_MissingEventID(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeStripeProvider{})

	_, event, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: `{"type":"ping"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(event.ProviderEventID, "hash:") {
		t.Fatalf("expected payload-hash fallback id, got %q", event.ProviderEventID)
	}
}

func TestMarkWebhookProcessed(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeStripeProvider{})
	ctx := context.Background()

	_, event, err := svc.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		PayloadJSON:     `{}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.MarkWebhookProcessed(ctx, event.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg, ok := repo.processed[event.ID]; !ok || msg != "" {
		t.Fatalf("expected clean processed mark, got %q (ok=%v)", msg, ok)
	}
}

func TestRecordOrder(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeStripeProvider{})
	ctx := context.Background()

	obj := &EventObject{
		ID:             "cs_1",
		Customer:       "cus_1",
		PaymentIntent:  "pi_1",
		PaymentStatus:  "paid",
		AmountSubtotal: 1000,
		AmountTotal:    1190,
		Currency:       "eur",
	}

	created, err := svc.RecordOrder(ctx, obj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected order to be created")
	}

	createdAgain, err := svc.RecordOrder(ctx, obj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdAgain {
		t.Fatalf("expected duplicate order to be ignored")
	}
}
