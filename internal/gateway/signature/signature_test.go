package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCheckout(t *testing.T) {
	secret := "test_secret"
	orderID := "order_abc123"
	paymentID := "pay_xyz789"
	valid := sign(secret, []byte(orderID+"|"+paymentID))

	if !VerifyCheckout(orderID, paymentID, valid, secret) {
		t.Fatalf("expected valid signature to verify")
	}

	// Any single-character mutation of the inputs must fail.
	if VerifyCheckout("order_abc124", paymentID, valid, secret) {
		t.Fatalf("mutated order id verified")
	}
	if VerifyCheckout(orderID, "pay_xyz780", valid, secret) {
		t.Fatalf("mutated payment id verified")
	}
	mutated := []byte(valid)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	if VerifyCheckout(orderID, paymentID, string(mutated), secret) {
		t.Fatalf("mutated signature verified")
	}
	if VerifyCheckout(orderID, paymentID, valid, "other_secret") {
		t.Fatalf("wrong secret verified")
	}
}

func TestVerifyCheckoutEmptyInputs(t *testing.T) {
	if VerifyCheckout("", "pay_1", "sig", "secret") {
		t.Fatalf("empty order id verified")
	}
	if VerifyCheckout("order_1", "pay_1", "", "secret") {
		t.Fatalf("empty signature verified")
	}
	if VerifyCheckout("order_1", "pay_1", "sig", "") {
		t.Fatalf("empty secret verified")
	}
}

func TestVerifyWebhook(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	valid := sign(secret, body)

	if !VerifyWebhook(body, valid, secret) {
		t.Fatalf("expected valid webhook signature to verify")
	}

	// Re-serialization changes whitespace and must break the HMAC.
	reserialized := []byte(`{"event": "payment.captured", "payload": {"payment": {"entity": {"id": "pay_1"}}}}`)
	if VerifyWebhook(reserialized, valid, secret) {
		t.Fatalf("re-serialized body verified against original signature")
	}

	if VerifyWebhook(body, valid, "wrong") {
		t.Fatalf("wrong webhook secret verified")
	}
	if VerifyWebhook(nil, valid, secret) {
		t.Fatalf("empty body verified")
	}
}
