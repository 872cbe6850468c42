package razorpay

import (
	"encoding/json"
	"strings"

	gatewaydomain "github.com/spotnere/backend/internal/gateway/domain"
)

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity *webhookPaymentEntity `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity *webhookOrderEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type webhookPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Amount           int64  `json:"amount"`
	ErrorDescription string `json:"error_description"`
}

type webhookOrderEntity struct {
	ID string `json:"id"`
}

// ParseWebhookEvent extracts the payment claim from a webhook payload.
// The order id lives under the payment entity for payment.* events and
// under the order entity for order.* events.
func (c *Client) ParseWebhookEvent(payload []byte) (*gatewaydomain.WebhookEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, gatewaydomain.ErrInvalidPayload
	}

	event := &gatewaydomain.WebhookEvent{
		Event: strings.TrimSpace(envelope.Event),
	}

	if entity := envelope.Payload.Payment.Entity; entity != nil {
		event.OrderID = entity.OrderID
		event.PaymentID = entity.ID
		event.Status = entity.Status
		event.Method = entity.Method
		event.Amount = entity.Amount
		event.ErrorDescription = entity.ErrorDescription
	}
	if event.OrderID == "" {
		if entity := envelope.Payload.Order.Entity; entity != nil {
			event.OrderID = entity.ID
		}
	}

	if event.OrderID == "" {
		return nil, gatewaydomain.ErrEventIgnored
	}
	return event, nil
}
