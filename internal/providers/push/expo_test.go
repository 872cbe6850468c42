package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExpoProviderSend(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode push body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"status": "ok"}})
	}))
	defer srv.Close()

	provider := NewExpoProvider(srv.URL)
	err := provider.Send(context.Background(), Message{
		To:    "ExponentPushToken[abc]",
		Title: "New booking received",
		Body:  "You have a new booking.",
		Data:  map[string]any{"type": "NEW_BOOKING", "bookingId": "1"},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.To != "ExponentPushToken[abc]" {
		t.Fatalf("unexpected recipient %q", got.To)
	}
	if got.Sound != "default" {
		t.Fatalf("expected default sound, got %q", got.Sound)
	}
	if got.Data["type"] != "NEW_BOOKING" {
		t.Fatalf("unexpected data payload %v", got.Data)
	}
}

func TestExpoProviderSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	provider := NewExpoProvider(srv.URL)
	if err := provider.Send(context.Background(), Message{To: "tok"}); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestExpoProviderSendMissingToken(t *testing.T) {
	provider := NewExpoProvider("http://localhost")
	if err := provider.Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected error for missing token")
	}
}
