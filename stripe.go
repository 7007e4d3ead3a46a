package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/webhook"

	"github.com/bjornpagen/donations-webhook/internal/notify"
	"github.com/bjornpagen/donations-webhook/internal/store"
)

const (
	maxBodyBytes = int64(65536)

	eventCheckoutSessionCompleted = "checkout.session.completed"
)

var (
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrMalformedEvent   = errors.New("webhook event malformed")
	ErrMissingEmail     = errors.New("checkout session has no customer email")
	ErrStoreUpdate      = errors.New("user record update failed")
)

// webhookError carries the response a failed delivery gets. Is matches the
// kind so callers can use errors.Is with the sentinels above.
type webhookError struct {
	kind   error
	status int
	body   string
	err    error
}

func (e *webhookError) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

func (e *webhookError) Is(target error) bool { return target == e.kind }

func (e *webhookError) Unwrap() error { return e.err }

// NotificationError reports a confirmation email that could not be sent
// after the user record was already updated. It never fails the request.
type NotificationError struct {
	Recipient notify.Recipient
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Recipient.Email, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// checkoutSession is the part of a Stripe checkout session this service reads.
type checkoutSession struct {
	ID              string `json:"id"`
	CustomerDetails *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

type stripeWebhook struct {
	Secret    string
	Tolerance time.Duration
	Store     store.Store
	Notifier  notify.Notifier
	Logger    zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NotifyFailed receives non-fatal email failures. Defaults to an error log.
	NotifyFailed func(context.Context, *NotificationError)
}

func createStripeWebhookHandler(wh stripeWebhook) http.HandlerFunc {
	if wh.Tolerance <= 0 {
		wh.Tolerance = webhook.DefaultTolerance
	}
	if wh.Now == nil {
		wh.Now = time.Now
	}
	if wh.NotifyFailed == nil {
		logger := wh.Logger
		wh.NotifyFailed = func(ctx context.Context, nerr *NotificationError) {
			logger.Error().
				Err(nerr.Err).
				Str("request_id", requestIDFromContext(ctx)).
				Str("email", nerr.Recipient.Email).
				Msg("failed to send donation email")
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		logger := wh.Logger.With().Str("request_id", requestIDFromContext(r.Context())).Logger()

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("error reading request body")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		body, err := wh.process(r.Context(), logger, payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			var werr *webhookError
			if !errors.As(err, &werr) {
				werr = &webhookError{kind: err, status: http.StatusInternalServerError, body: "Internal Server Error"}
			}
			writeText(w, werr.status, werr.body)
			return
		}
		writeText(w, http.StatusOK, body)
	}
}

// process runs one delivery through verify, dispatch, update and notify,
// returning the body of a 200 response or a *webhookError.
func (wh stripeWebhook) process(ctx context.Context, logger zerolog.Logger, payload []byte, signature string) (string, error) {
	event, err := webhook.ConstructEventWithTolerance(payload, signature, wh.Secret, wh.Tolerance)
	if err != nil {
		logger.Warn().Err(err).Msg("stripe signature verification failed")
		return "", &webhookError{
			kind:   ErrSignatureInvalid,
			status: http.StatusBadRequest,
			body:   "Webhook Error: " + err.Error(),
			err:    err,
		}
	}

	logger = logger.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	switch event.Type {
	case eventCheckoutSessionCompleted:
		return wh.handleCheckoutSessionCompleted(ctx, logger, event)
	default:
		logger.Debug().Msg("unhandled event type")
		return "Unhandled event", nil
	}
}

func (wh stripeWebhook) handleCheckoutSessionCompleted(ctx context.Context, logger zerolog.Logger, event stripe.Event) (string, error) {
	var session checkoutSession
	if event.Data == nil {
		return "", &webhookError{kind: ErrMalformedEvent, status: http.StatusBadRequest, body: "Webhook Error: event has no data"}
	}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		logger.Error().Err(err).Msg("error parsing checkout session")
		return "", &webhookError{
			kind:   ErrMalformedEvent,
			status: http.StatusBadRequest,
			body:   "Webhook Error: " + err.Error(),
			err:    err,
		}
	}

	var to notify.Recipient
	if session.CustomerDetails != nil {
		to.Email = strings.TrimSpace(session.CustomerDetails.Email)
		to.Name = strings.TrimSpace(session.CustomerDetails.Name)
	}
	if to.Email == "" {
		logger.Warn().Str("session_id", session.ID).Msg("no email address on checkout session")
		return "", &webhookError{kind: ErrMissingEmail, status: http.StatusBadRequest, body: "Missing email"}
	}

	if err := wh.Store.MarkDonated(ctx, to.Email, wh.Now().UTC()); err != nil {
		logger.Error().Err(err).Str("email", to.Email).Msg("user update failed")
		return "", &webhookError{
			kind:   ErrStoreUpdate,
			status: http.StatusInternalServerError,
			body:   "Failed to update user",
			err:    err,
		}
	}
	logger.Info().Str("email", to.Email).Msg("user marked as donated")

	if err := wh.Notifier.SendDonationThanks(ctx, to); err != nil {
		wh.NotifyFailed(ctx, &NotificationError{Recipient: to, Err: err})
	}

	return "Success", nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
