package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fitrekhq/fitrek/internal/pkg/env"
)

const defaultStripeAPIBaseURL = "https://api.stripe.com/v1"

// StripeClient is a minimal REST client for the payment provider. Requests
// are form-encoded with the secret key as bearer token, responses are JSON.
type StripeClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// Subscription is the provider-side subscription snapshot.
type Subscription struct {
	ID                 string               `json:"id"`
	Customer           string               `json:"customer"`
	Status             string               `json:"status"`
	CurrentPeriodStart int64                `json:"current_period_start"`
	CurrentPeriodEnd   int64                `json:"current_period_end"`
	CancelAtPeriodEnd  bool                 `json:"cancel_at_period_end"`
	Items              SubscriptionItemList `json:"items"`
	// Raw because the field is an id string unless expanded.
	DefaultPaymentMethod json.RawMessage `json:"default_payment_method"`
}

// SubscriptionItemList wraps the provider's list envelope for items.
type SubscriptionItemList struct {
	Data []SubscriptionItem `json:"data"`
}

// SubscriptionItem carries the priced line of a subscription.
type SubscriptionItem struct {
	Price Price `json:"price"`
}

// Price identifies a recurring price on the provider side.
type Price struct {
	ID string `json:"id"`
}

// PriceID returns the price id of the first subscription item.
func (s *Subscription) PriceID() string {
	if len(s.Items.Data) == 0 {
		return ""
	}
	return s.Items.Data[0].Price.ID
}

// PaymentMethodCard returns card brand and last4 when the default payment
// method was expanded into an object; empty strings otherwise.
func (s *Subscription) PaymentMethodCard() (brand, last4 string) {
	if len(s.DefaultPaymentMethod) == 0 || s.DefaultPaymentMethod[0] != '{' {
		return "", ""
	}
	var pm struct {
		Card struct {
			Brand string `json:"brand"`
			Last4 string `json:"last4"`
		} `json:"card"`
	}
	if err := json.Unmarshal(s.DefaultPaymentMethod, &pm); err != nil {
		return "", ""
	}
	return pm.Card.Brand, pm.Card.Last4
}

// NewStripeClientFromEnv builds a client from environment configuration.
func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("STRIPE_API_BASE_URL", defaultStripeAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListSubscriptions returns the customer's subscriptions with the given
// status filter ("all" for every status). The default payment method is
// expanded so the card brand/last4 can be mirrored.
func (c *StripeClient) ListSubscriptions(ctx context.Context, customerID, status string, limit int) ([]Subscription, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customer id is required")
	}
	q := url.Values{}
	q.Set("customer", customerID)
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	q.Add("expand[]", "data.default_payment_method")

	var out struct {
		Data []Subscription `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/subscriptions?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateSubscriptionTrialEnd moves the subscription's renewal anchor to the
// given unix timestamp without prorating, which grants the time in between
// for free.
func (c *StripeClient) UpdateSubscriptionTrialEnd(ctx context.Context, subscriptionID string, trialEndUnix int64) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}
	form := url.Values{}
	form.Set("trial_end", strconv.FormatInt(trialEndUnix, 10))
	form.Set("proration_behavior", "none")

	var sub Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions/"+subscriptionID, form, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateCustomer creates a provider customer and returns its id.
func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	form := url.Values{}
	if email != "" {
		form.Set("email", email)
	}
	if name != "" {
		form.Set("name", name)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/customers", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// CreateCheckoutSession creates a hosted checkout session and returns its
// redirect URL.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	if params.CustomerID == "" || params.PriceID == "" {
		return nil, errors.New("customer id and price id are required")
	}
	if params.Mode != CheckoutModePayment && params.Mode != CheckoutModeSubscription {
		return nil, fmt.Errorf("invalid checkout mode %q", params.Mode)
	}
	if params.SuccessURL == "" || params.CancelURL == "" {
		return nil, errors.New("success and cancel URLs are required")
	}

	form := url.Values{}
	form.Set("customer", params.CustomerID)
	form.Set("mode", params.Mode)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")

	var sess CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/checkout/sessions", form, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("STRIPE_SECRET_KEY is not configured")
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stripe %s %s failed: status=%d body=%s", method, path, resp.StatusCode, truncate(string(data), 512))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
