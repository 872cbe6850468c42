// Package signature implements the HMAC checks that authenticate
// gateway-origin payment claims.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyCheckout checks a client-submitted checkout signature: hex
// HMAC-SHA256 of "orderID|paymentID" under the key secret.
func VerifyCheckout(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyWebhook checks a webhook signature computed over the exact raw
// request bytes under the webhook secret.
func VerifyWebhook(rawBody []byte, signature, webhookSecret string) bool {
	if len(rawBody) == 0 || signature == "" || webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	_, _ = mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
