package billing

import "encoding/json"

// Event is the decoded envelope of a provider webhook payload.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// EventObject carries the fields of event.data.object that the webhook
// processing cares about. Unexpanded references (customer, invoice,
// payment_intent) arrive as plain id strings.
type EventObject struct {
	ID             string `json:"id"`
	Object         string `json:"object"`
	Customer       string `json:"customer"`
	Mode           string `json:"mode"`
	PaymentStatus  string `json:"payment_status"`
	Invoice        string `json:"invoice"`
	PaymentIntent  string `json:"payment_intent"`
	AmountSubtotal int64  `json:"amount_subtotal"`
	AmountTotal    int64  `json:"amount_total"`
	Currency       string `json:"currency"`
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// CheckoutModePayment and CheckoutModeSubscription are the supported checkout
// session modes.
const (
	CheckoutModePayment      = "payment"
	CheckoutModeSubscription = "subscription"
)

// CheckoutSessionParams describes a hosted checkout session to create.
type CheckoutSessionParams struct {
	CustomerID string
	PriceID    string
	Mode       string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the subset of the provider checkout session the service
// returns to clients.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ParseWebhookEvent decodes a raw webhook payload into its envelope.
func ParseWebhookEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// ParseEventObject decodes event.data.object.
func (e *Event) ParseEventObject() (*EventObject, error) {
	var obj EventObject
	if err := json.Unmarshal(e.Data.Object, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}
