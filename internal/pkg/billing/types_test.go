package billing

import "testing"

func TestParseWebhookEvent(t *testing.T) {
	raw := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_456",
				"object": "checkout.session",
				"customer": "cus_789",
				"mode": "payment",
				"payment_status": "paid",
				"payment_intent": "pi_001",
				"amount_subtotal": 1999,
				"amount_total": 2399,
				"currency": "eur"
			}
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.ID != "evt_123" || ev.Type != "checkout.session.completed" {
		t.Fatalf("unexpected envelope: id=%q type=%q", ev.ID, ev.Type)
	}

	obj, err := ev.ParseEventObject()
	if err != nil {
		t.Fatalf("unexpected object parse error: %v", err)
	}
	if obj.ID != "cs_456" || obj.Customer != "cus_789" {
		t.Fatalf("unexpected ids: object=%q customer=%q", obj.ID, obj.Customer)
	}
	if obj.Mode != CheckoutModePayment || obj.PaymentStatus != "paid" {
		t.Fatalf("unexpected mode/status: %q %q", obj.Mode, obj.PaymentStatus)
	}
	if obj.AmountTotal != 2399 || obj.Currency != "eur" {
		t.Fatalf("unexpected amount: %d %q", obj.AmountTotal, obj.Currency)
	}
}

func TestParseWebhookEvent_Invalid(t *testing.T) {
	if _, err := ParseWebhookEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}

func TestSubscriptionPriceID(t *testing.T) {
	sub := Subscription{}
	if got := sub.PriceID(); got != "" {
		t.Fatalf("expected empty price id, got %q", got)
	}

	sub.Items.Data = []SubscriptionItem{{Price: Price{ID: "price_pro_monthly"}}}
	if got := sub.PriceID(); got != "price_pro_monthly" {
		t.Fatalf("PriceID() = %q, want price_pro_monthly", got)
	}
}

func TestSubscriptionPaymentMethodCard(t *testing.T) {
	sub := Subscription{}
	if brand, last4 := sub.PaymentMethodCard(); brand != "" || last4 != "" {
		t.Fatalf("expected empty card for missing payment method, got %q %q", brand, last4)
	}

	sub.DefaultPaymentMethod = []byte(`{"id":"pm_1","card":{"brand":"visa","last4":"4242"}}`)
	brand, last4 := sub.PaymentMethodCard()
	if brand != "visa" || last4 != "4242" {
		t.Fatalf("PaymentMethodCard() = %q %q, want visa 4242", brand, last4)
	}

	// Expanded payment method may also arrive as a bare string id.
	sub.DefaultPaymentMethod = []byte(`"pm_1"`)
	if brand, last4 = sub.PaymentMethodCard(); brand != "" || last4 != "" {
		t.Fatalf("expected empty card for unexpanded payment method, got %q %q", brand, last4)
	}
}
