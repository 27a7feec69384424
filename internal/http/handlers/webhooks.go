package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"jobboard/internal/middleware"
	"jobboard/internal/whop"
)

const webhookTimeout = 30 * time.Second

// WhopWebhook receives signed payment events from the gateway. The response
// must be fast and must never reflect fulfillment outcome: anything with a
// valid signature is acknowledged with 200 so the provider stops redelivering,
// and the actual payment completion runs in the background. Only a bad
// signature earns a 400.
func (a *App) WhopWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}

	if !whop.VerifySignature(a.WebhookSecret, body, r.Header.Get(whop.SignatureHeader)) {
		a.Logger.Warn().
			Str("country", middleware.CountryFromContext(r.Context())).
			Str("ip", middleware.ClientIP(r)).
			Msg("webhook signature rejected")
		a.error(w, http.StatusBadRequest, "invalid_signature", "invalid signature")
		return
	}

	event, err := whop.ParseEvent(body)
	if err != nil {
		// Signed but unparseable: acknowledge so the provider does not
		// retry a body that will never parse.
		a.Logger.Error().Err(err).Msg("webhook body undecodable")
		a.respondOK(w)
		return
	}

	if event.Type != whop.EventPaymentSucceeded {
		a.respondOK(w)
		return
	}

	paymentID, checkoutID := event.Data.ID, event.Data.CheckoutID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()
		if err := a.Service.CompletePayment(ctx, paymentID, checkoutID); err != nil {
			a.Logger.Error().Err(err).
				Str("payment_id", paymentID).
				Str("checkout_id", checkoutID).
				Msg("payment completion failed")
		}
	}()

	a.respondOK(w)
}

func (a *App) respondOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
