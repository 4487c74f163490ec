package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func signStripePayload(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyStripeWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	secret := "whsec_test"
	now := time.Unix(1700000000, 0)

	header := signStripePayload(payload, secret, now.Unix())
	if !verifyStripeSignatureAt(payload, header, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected valid signature to verify")
	}

	if verifyStripeSignatureAt(payload, header, "whsec_other", DefaultSignatureTolerance, now) {
		t.Fatalf("expected wrong secret to fail")
	}
	if verifyStripeSignatureAt([]byte(`{"tampered":true}`), header, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected tampered payload to fail")
	}
}

func TestVerifyStripeWebhookSignature_Timestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Unix(1700000000, 0)

	stale := signStripePayload(payload, secret, now.Add(-10*time.Minute).Unix())
	if verifyStripeSignatureAt(payload, stale, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected stale timestamp to fail")
	}

	recent := signStripePayload(payload, secret, now.Add(-time.Minute).Unix())
	if !verifyStripeSignatureAt(payload, recent, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected timestamp within tolerance to verify")
	}
}

func TestVerifyStripeWebhookSignature_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1700000000, 0)

	for _, header := range []string{"", "garbage", "t=abc,v1=deadbeef", "v1=deadbeef"} {
		if verifyStripeSignatureAt(payload, header, "whsec_test", DefaultSignatureTolerance, now) {
			t.Fatalf("expected header %q to fail verification", header)
		}
	}
}

func TestVerifyStripeWebhookSignature_MultipleV1(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Unix(1700000000, 0)

	valid := signStripePayload(payload, secret, now.Unix())
	// Prepend a bogus v1 entry; any matching v1 must be enough.
	header := fmt.Sprintf("t=%d,v1=%s,%s", now.Unix(), "00ff00ff", valid[len(fmt.Sprintf("t=%d,", now.Unix())):])
	if !verifyStripeSignatureAt(payload, header, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected one matching v1 among several to verify")
	}
}
