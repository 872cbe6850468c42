package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
	gatewaydomain "github.com/spotnere/backend/internal/gateway/domain"
	notificationdomain "github.com/spotnere/backend/internal/notification/domain"
	obsmetrics "github.com/spotnere/backend/internal/observability/metrics"
	"github.com/spotnere/backend/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     bookingdomain.Repository
	Gateway  gatewaydomain.Adapter
	Notifier notificationdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

// Service drives the booking payment lifecycle. A booking is created
// PENDING and exits it exactly once through verify, webhook, or
// cancellation; whichever trigger wins the conditional transition owns
// the notification side effect.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     bookingdomain.Repository
	gateway  gatewaydomain.Adapter
	notifier notificationdomain.Service
	metrics  *obsmetrics.Metrics
}

func NewService(p Params) bookingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("booking.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		gateway:  p.Gateway,
		notifier: p.Notifier,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateBookingAndOrder(ctx context.Context, req bookingdomain.CreateBookingRequest) (bookingdomain.CheckoutResponse, error) {
	if strings.TrimSpace(req.UserID) == "" ||
		strings.TrimSpace(req.PlaceID) == "" ||
		strings.TrimSpace(req.BookingDateTime) == "" {
		return bookingdomain.CheckoutResponse{}, bookingdomain.ErrInvalidRequest
	}
	if req.AmountINR <= 0 {
		return bookingdomain.CheckoutResponse{}, bookingdomain.ErrInvalidRequest
	}
	if req.NumberOfGuests != nil && *req.NumberOfGuests < 0 {
		return bookingdomain.CheckoutResponse{}, bookingdomain.ErrInvalidRequest
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}

	now := time.Now().UTC()
	booking := &bookingdomain.Booking{
		ID:               s.genID.Generate(),
		UserID:           req.UserID,
		PlaceID:          req.PlaceID,
		BookingDateTime:  req.BookingDateTime,
		BookingRefNumber: newBookingRef(now),
		AmountPaid:       req.AmountINR,
		CurrencyPaid:     currency,
		NumberOfGuests:   req.NumberOfGuests,
		PaymentStatus:    bookingdomain.PaymentStatusPending,
	}

	if err := s.repo.Insert(ctx, s.db, booking); err != nil {
		return bookingdomain.CheckoutResponse{}, err
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	// Gateway failure past this point leaves an orphaned PENDING row.
	// There is no compensating delete; cancellation reclaims it.
	return s.createGatewayOrder(ctx, booking, money.ToMinorUnits(req.AmountINR), currency)
}

func (s *Service) CreateOrderForBooking(ctx context.Context, req bookingdomain.CreateOrderRequest) (bookingdomain.CheckoutResponse, error) {
	if strings.TrimSpace(req.BookingID) == "" || req.AmountINR <= 0 {
		return bookingdomain.CheckoutResponse{}, bookingdomain.ErrInvalidRequest
	}

	booking, err := s.findBooking(ctx, req.BookingID)
	if err != nil {
		return bookingdomain.CheckoutResponse{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = booking.CurrencyPaid
	}

	return s.createGatewayOrder(ctx, booking, money.ToMinorUnits(req.AmountINR), currency)
}

func (s *Service) createGatewayOrder(ctx context.Context, booking *bookingdomain.Booking, amountMinor int64, currency string) (bookingdomain.CheckoutResponse, error) {
	order, err := s.gateway.CreateOrder(ctx, gatewaydomain.CreateOrderRequest{
		AmountMinorUnits: amountMinor,
		Currency:         currency,
		Receipt:          booking.BookingRefNumber,
		Notes: map[string]string{
			"booking_id": booking.ID.String(),
			"place_id":   booking.PlaceID,
		},
	})
	if err != nil {
		s.log.Error("gateway order creation failed",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
		return bookingdomain.CheckoutResponse{}, bookingdomain.ErrGatewayUnavailable
	}

	if err := s.repo.UpdateByID(ctx, s.db, booking.ID, map[string]any{
		"gateway_order_id": order.ID,
	}); err != nil {
		return bookingdomain.CheckoutResponse{}, err
	}

	return bookingdomain.CheckoutResponse{
		KeyID:     s.gateway.KeyID(),
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		BookingID: booking.ID.String(),
	}, nil
}

func (s *Service) VerifyPayment(ctx context.Context, req bookingdomain.VerifyPaymentRequest) (bookingdomain.VerifyPaymentResponse, error) {
	if strings.TrimSpace(req.BookingID) == "" ||
		strings.TrimSpace(req.OrderID) == "" ||
		strings.TrimSpace(req.PaymentID) == "" ||
		strings.TrimSpace(req.Signature) == "" {
		return bookingdomain.VerifyPaymentResponse{}, bookingdomain.ErrInvalidRequest
	}

	booking, err := s.findBooking(ctx, req.BookingID)
	if err != nil {
		return bookingdomain.VerifyPaymentResponse{}, err
	}

	if !s.gateway.VerifyCheckoutSignature(req.OrderID, req.PaymentID, req.Signature) {
		// The failed claim is persisted for auditability. The gateway is
		// never consulted for an unauthenticated claim.
		won, terr := s.repo.TransitionFromPending(ctx, s.db, booking.ID, map[string]any{
			"payment_status":     bookingdomain.PaymentStatusFailed,
			"gateway_payment_id": req.PaymentID,
			"gateway_signature":  req.Signature,
			"transaction_id":     req.PaymentID,
			"payment_error":      bookingdomain.SignatureMismatchReason,
		})
		if terr != nil {
			return bookingdomain.VerifyPaymentResponse{}, terr
		}
		if !won {
			s.log.Warn("signature mismatch on already-terminal booking",
				zap.String("booking_id", booking.ID.String()),
			)
		}
		if s.metrics != nil {
			s.metrics.PaymentOutcome("verify", string(bookingdomain.PaymentStatusFailed))
		}
		return bookingdomain.VerifyPaymentResponse{
			Status:    bookingdomain.PaymentStatusFailed,
			BookingID: booking.ID.String(),
			OrderID:   req.OrderID,
			Reason:    bookingdomain.SignatureMismatchReason,
		}, bookingdomain.ErrSignatureInvalid
	}

	payment, err := s.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		// Transport errors are operational, not payment failures; the
		// booking stays as it was.
		return bookingdomain.VerifyPaymentResponse{}, bookingdomain.ErrGatewayUnavailable
	}

	mapped := mapGatewayStatus(payment.Status)
	patch := map[string]any{
		"gateway_payment_id": payment.ID,
		"gateway_signature":  req.Signature,
		"transaction_id":     payment.ID,
		"payment_method":     payment.Method,
	}

	status, err := s.applyPaymentOutcome(ctx, booking, mapped, patch, payment.Amount, payment.ErrorDescription)
	if err != nil {
		return bookingdomain.VerifyPaymentResponse{}, err
	}
	if s.metrics != nil {
		s.metrics.PaymentOutcome("verify", string(status))
	}

	return bookingdomain.VerifyPaymentResponse{
		Status:        status,
		BookingID:     booking.ID.String(),
		PaymentID:     payment.ID,
		OrderID:       req.OrderID,
		Method:        payment.Method,
		GatewayStatus: payment.Status,
	}, nil
}

func (s *Service) HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (bookingdomain.WebhookResult, error) {
	if verr := s.gateway.VerifyWebhookSignature(rawBody, signatureHeader); verr != nil {
		if errors.Is(verr, gatewaydomain.ErrNotConfigured) {
			s.log.Error("webhook secret not configured")
			return bookingdomain.WebhookResult{}, bookingdomain.ErrNotConfigured
		}
		return bookingdomain.WebhookResult{}, bookingdomain.ErrSignatureInvalid
	}

	event, err := s.gateway.ParseWebhookEvent(rawBody)
	if err != nil {
		if errors.Is(err, gatewaydomain.ErrEventIgnored) {
			return bookingdomain.WebhookResult{Received: true, Ignored: true}, nil
		}
		return bookingdomain.WebhookResult{}, bookingdomain.ErrInvalidRequest
	}

	booking, err := s.repo.FindByGatewayOrderID(ctx, s.db, event.OrderID)
	if err != nil {
		return bookingdomain.WebhookResult{}, err
	}
	if booking == nil {
		// The event may belong to another system or a stale record. The
		// gateway still gets an acknowledgement so it stops retrying.
		s.log.Info("webhook for unknown order acknowledged",
			zap.String("order_id", event.OrderID),
			zap.String("event", event.Event),
		)
		if s.metrics != nil {
			s.metrics.WebhooksIgnored.Inc()
		}
		return bookingdomain.WebhookResult{Received: true, Ignored: true}, nil
	}

	mapped := mapGatewayStatus(event.Status)
	patch := map[string]any{}
	if event.PaymentID != "" {
		patch["gateway_payment_id"] = event.PaymentID
		patch["transaction_id"] = event.PaymentID
	}
	if event.Method != "" {
		patch["payment_method"] = event.Method
	}

	status, err := s.applyPaymentOutcome(ctx, booking, mapped, patch, event.Amount, event.ErrorDescription)
	if err != nil {
		return bookingdomain.WebhookResult{}, err
	}
	if s.metrics != nil {
		s.metrics.PaymentOutcome("webhook", string(status))
	}

	return bookingdomain.WebhookResult{Received: true}, nil
}

// applyPaymentOutcome patches the booking for a mapped gateway status.
// Terminal statuses go through the conditional PENDING transition, so a
// verify/webhook race settles on exactly one terminal state and the
// notification fires only for the caller that won the transition to
// SUCCESS.
func (s *Service) applyPaymentOutcome(
	ctx context.Context,
	booking *bookingdomain.Booking,
	mapped bookingdomain.PaymentStatus,
	patch map[string]any,
	amountMinor int64,
	errorDescription string,
) (bookingdomain.PaymentStatus, error) {

	if !mapped.Terminal() {
		if len(patch) > 0 {
			if err := s.repo.UpdateByID(ctx, s.db, booking.ID, patch); err != nil {
				return "", err
			}
		}
		return bookingdomain.PaymentStatusPending, nil
	}

	patch["payment_status"] = mapped
	if mapped == bookingdomain.PaymentStatusSuccess {
		patch["paid_at"] = time.Now().UTC()
		patch["amount_received_by_vendor"] = money.FromMinorUnits(amountMinor)
		patch["payment_error"] = nil
	} else {
		reason := strings.TrimSpace(errorDescription)
		if reason == "" {
			reason = "Payment failed"
		}
		patch["payment_error"] = reason
	}

	won, err := s.repo.TransitionFromPending(ctx, s.db, booking.ID, patch)
	if err != nil {
		return "", err
	}
	if !won {
		// Already terminal: re-read and report the settled state without
		// re-running side effects.
		current, ferr := s.repo.FindByID(ctx, s.db, booking.ID)
		if ferr != nil {
			return "", ferr
		}
		if current == nil {
			return "", bookingdomain.ErrNotFound
		}
		return current.PaymentStatus, nil
	}

	if mapped == bookingdomain.PaymentStatusSuccess {
		s.dispatchNotification(ctx, booking.ID)
	}
	return mapped, nil
}

// dispatchNotification runs strictly after the terminal status is
// persisted. It must never fail the payment flow.
func (s *Service) dispatchNotification(ctx context.Context, id snowflake.ID) {
	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil || booking == nil {
		s.log.Warn("could not reload booking for notification", zap.String("booking_id", id.String()), zap.Error(err))
		return
	}
	if err := s.notifier.NotifyBookingConfirmed(ctx, booking); err != nil {
		s.log.Warn("vendor notification failed",
			zap.String("booking_id", id.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.PaymentStatus != bookingdomain.PaymentStatusPending {
		return bookingdomain.ErrInvalidState
	}

	// The delete carries its own PENDING guard: a verify or webhook can
	// settle the booking between the read above and this statement, and
	// a settled row must survive the cancel.
	deleted, err := s.repo.DeletePendingByID(ctx, s.db, booking.ID)
	if err != nil {
		return err
	}
	if !deleted {
		current, ferr := s.repo.FindByID(ctx, s.db, booking.ID)
		if ferr != nil {
			return ferr
		}
		if current == nil {
			return bookingdomain.ErrNotFound
		}
		return bookingdomain.ErrInvalidState
	}
	return nil
}

func (s *Service) GetPaymentStatus(ctx context.Context, bookingID string) (bookingdomain.PaymentStatusResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return bookingdomain.PaymentStatusResponse{}, err
	}

	resp := bookingdomain.PaymentStatusResponse{
		BookingID: booking.ID.String(),
		Status:    booking.PaymentStatus,
	}
	if booking.GatewayOrderID != nil {
		resp.OrderID = *booking.GatewayOrderID
	}
	if booking.GatewayPaymentID != nil {
		resp.PaymentID = *booking.GatewayPaymentID
	}
	if booking.PaymentError != nil {
		resp.PaymentError = *booking.PaymentError
	}
	return resp, nil
}

func (s *Service) findBooking(ctx context.Context, bookingID string) (*bookingdomain.Booking, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(bookingID))
	if err != nil {
		return nil, bookingdomain.ErrNotFound
	}
	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, bookingdomain.ErrNotFound
	}
	return booking, nil
}

func mapGatewayStatus(status string) bookingdomain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case gatewaydomain.PaymentStatusCaptured:
		return bookingdomain.PaymentStatusSuccess
	case gatewaydomain.PaymentStatusFailed:
		return bookingdomain.PaymentStatusFailed
	default:
		return bookingdomain.PaymentStatusPending
	}
}

const refAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newBookingRef builds the gateway receipt identifier. The result must
// fit the gateway's receipt length limit.
func newBookingRef(now time.Time) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = refAlphabet[int(b)%len(refAlphabet)]
	}
	ref := fmt.Sprintf("SPT-%d-%s", now.UnixMilli(), buf)
	if len(ref) > gatewaydomain.ReceiptMaxLen {
		ref = ref[:gatewaydomain.ReceiptMaxLen]
	}
	return ref
}
