package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Whop-Signature"

// EventPaymentSucceeded is the only event type the marketplace acts on.
const EventPaymentSucceeded = "payment.succeeded"

// Event is a decoded webhook delivery.
type Event struct {
	Type string       `json:"type"`
	Data PaymentEvent `json:"data"`
}

// PaymentEvent is the payment payload of a webhook delivery. CheckoutID is
// the only identifier the marketplace trusts; the job record looked up by it
// is the source of truth for everything else.
type PaymentEvent struct {
	ID         string         `json:"id"`
	CheckoutID string         `json:"checkout_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// VerifySignature checks the HMAC-SHA256 signature of the raw webhook body.
// The header value may carry a "sha256=" prefix. Comparison is constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign computes the hex signature for a body. Used by tests and local tools.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("webhook event has no type")
	}
	return &event, nil
}
