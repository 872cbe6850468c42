package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spotnere/backend/internal/config"
	gatewaydomain "github.com/spotnere/backend/internal/gateway/domain"
	"github.com/spotnere/backend/internal/gateway/signature"
	"go.uber.org/zap"
)

// Client is the Razorpay implementation of the gateway adapter. Orders
// and payments go over the REST API with basic auth; signatures are
// verified locally with the shared secrets.
type Client struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
	log           *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		keyID:         cfg.GatewayKeyID,
		keySecret:     cfg.GatewayKeySecret,
		webhookSecret: cfg.GatewayWebhookSecret,
		baseURL:       strings.TrimRight(cfg.GatewayBaseURL, "/"),
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		log:           log.Named("gateway.razorpay"),
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *Client) CreateOrder(ctx context.Context, req gatewaydomain.CreateOrderRequest) (gatewaydomain.Order, error) {
	receipt := req.Receipt
	if len(receipt) > gatewaydomain.ReceiptMaxLen {
		receipt = receipt[:gatewaydomain.ReceiptMaxLen]
	}

	body, err := json.Marshal(orderRequest{
		Amount:   req.AmountMinorUnits,
		Currency: req.Currency,
		Receipt:  receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return gatewaydomain.Order{}, gatewaydomain.ErrInvalidPayload
	}

	var parsed orderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &parsed); err != nil {
		return gatewaydomain.Order{}, err
	}
	if parsed.ID == "" {
		return gatewaydomain.Order{}, gatewaydomain.ErrUnavailable
	}

	return gatewaydomain.Order{
		ID:       parsed.ID,
		Amount:   parsed.Amount,
		Currency: parsed.Currency,
	}, nil
}

type paymentResponse struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	ErrorDescription string `json:"error_description"`
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (gatewaydomain.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return gatewaydomain.Payment{}, gatewaydomain.ErrInvalidPayload
	}

	var parsed paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &parsed); err != nil {
		return gatewaydomain.Payment{}, err
	}
	if parsed.ID == "" {
		return gatewaydomain.Payment{}, gatewaydomain.ErrUnavailable
	}

	return gatewaydomain.Payment{
		ID:               parsed.ID,
		OrderID:          parsed.OrderID,
		Status:           parsed.Status,
		Method:           parsed.Method,
		Amount:           parsed.Amount,
		Currency:         parsed.Currency,
		ErrorDescription: parsed.ErrorDescription,
	}, nil
}

func (c *Client) VerifyCheckoutSignature(orderID, paymentID, sig string) bool {
	return signature.VerifyCheckout(orderID, paymentID, sig, c.keySecret)
}

func (c *Client) VerifyWebhookSignature(rawBody []byte, sig string) error {
	if c.webhookSecret == "" {
		return gatewaydomain.ErrNotConfigured
	}
	if !signature.VerifyWebhook(rawBody, sig, c.webhookSecret) {
		return gatewaydomain.ErrInvalidSignature
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return gatewaydomain.ErrUnavailable
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed", zap.String("path", path), zap.Error(err))
		return gatewaydomain.ErrUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gatewaydomain.ErrUnavailable
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("gateway returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return gatewaydomain.ErrUnavailable
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return gatewaydomain.ErrUnavailable
		}
	}
	return nil
}
