package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spotnere/backend/internal/config"
	gatewaydomain "github.com/spotnere/backend/internal/gateway/domain"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.Config{
		GatewayKeyID:         "rzp_test_key",
		GatewayKeySecret:     "key_secret",
		GatewayWebhookSecret: "webhook_secret",
		GatewayBaseURL:       srv.URL,
	}, zap.NewNop())
	return client, srv
}

func TestCreateOrder(t *testing.T) {
	var gotReceipt string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "key_secret" {
			t.Errorf("missing or wrong basic auth")
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode order request: %v", err)
		}
		gotReceipt, _ = req["receipt"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_test_1",
			"amount":   req["amount"],
			"currency": req["currency"],
		})
	}))

	order, err := client.CreateOrder(context.Background(), gatewaydomain.CreateOrderRequest{
		AmountMinorUnits: 50000,
		Currency:         "INR",
		Receipt:          "SPT-1700000000000-a1b2c3d4",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_test_1" {
		t.Fatalf("expected order_test_1, got %s", order.ID)
	}
	if order.Amount != 50000 || order.Currency != "INR" {
		t.Fatalf("unexpected order %+v", order)
	}
	if gotReceipt != "SPT-1700000000000-a1b2c3d4" {
		t.Fatalf("unexpected receipt %q", gotReceipt)
	}
}

func TestCreateOrderTruncatesLongReceipt(t *testing.T) {
	var gotReceipt string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotReceipt, _ = req["receipt"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "order_1", "amount": 100, "currency": "INR"})
	}))

	long := "SPT-1700000000000-a1b2c3d4-padding-way-beyond-the-limit"
	if _, err := client.CreateOrder(context.Background(), gatewaydomain.CreateOrderRequest{
		AmountMinorUnits: 100,
		Currency:         "INR",
		Receipt:          long,
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if len(gotReceipt) != gatewaydomain.ReceiptMaxLen {
		t.Fatalf("expected receipt truncated to %d chars, got %d", gatewaydomain.ReceiptMaxLen, len(gotReceipt))
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.CreateOrder(context.Background(), gatewaydomain.CreateOrderRequest{
		AmountMinorUnits: 100,
		Currency:         "INR",
	})
	if !errors.Is(err, gatewaydomain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetchPayment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay_1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "pay_1",
			"order_id": "order_1",
			"status":   "captured",
			"method":   "card",
			"amount":   50000,
			"currency": "INR",
		})
	}))

	payment, err := client.FetchPayment(context.Background(), "pay_1")
	if err != nil {
		t.Fatalf("fetch payment: %v", err)
	}
	if payment.Status != "captured" || payment.Method != "card" || payment.Amount != 50000 {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient(config.Config{
		GatewayWebhookSecret: "webhook_secret",
		GatewayBaseURL:       "http://localhost",
	}, zap.NewNop())

	body := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("webhook_secret"))
	_, _ = mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	if err := client.VerifyWebhookSignature(body, sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := client.VerifyWebhookSignature(body, "deadbeef"); !errors.Is(err, gatewaydomain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	// A missing secret is a deployment fault, not a bad signature.
	unconfigured := NewClient(config.Config{GatewayBaseURL: "http://localhost"}, zap.NewNop())
	if err := unconfigured.VerifyWebhookSignature(body, sig); !errors.Is(err, gatewaydomain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	client := NewClient(config.Config{GatewayBaseURL: "http://localhost"}, zap.NewNop())

	payload := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_9",
					"order_id": "order_9",
					"status": "captured",
					"method": "upi",
					"amount": 12500
				}
			}
		}
	}`)
	event, err := client.ParseWebhookEvent(payload)
	if err != nil {
		t.Fatalf("parse webhook: %v", err)
	}
	if event.OrderID != "order_9" || event.PaymentID != "pay_9" || event.Status != "captured" {
		t.Fatalf("unexpected event %+v", event)
	}

	orderOnly := []byte(`{
		"event": "order.paid",
		"payload": {
			"order": {"entity": {"id": "order_10"}}
		}
	}`)
	event, err = client.ParseWebhookEvent(orderOnly)
	if err != nil {
		t.Fatalf("parse order-entity webhook: %v", err)
	}
	if event.OrderID != "order_10" {
		t.Fatalf("expected order_10, got %s", event.OrderID)
	}

	if _, err := client.ParseWebhookEvent([]byte(`{"event":"ping"}`)); !errors.Is(err, gatewaydomain.ErrEventIgnored) {
		t.Fatalf("expected ErrEventIgnored, got %v", err)
	}
	if _, err := client.ParseWebhookEvent([]byte(`not json`)); !errors.Is(err, gatewaydomain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
