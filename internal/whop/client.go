package whop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/infra"
)

// ClientOptions controls how the gateway client is configured.
type ClientOptions struct {
	APIKey     string
	BaseURL    string
	CompanyID  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the platform's commerce API. It exposes the
// two operations the marketplace needs: creating a hosted checkout session
// and transferring a payout to a worker.
type Client struct {
	apiKey     string
	baseURL    string
	companyID  string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient creates a gateway client from options, applying defaults.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("whop: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		companyID:  opts.CompanyID,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// CheckoutRequest describes a one-time hosted checkout session.
type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	RedirectURL string
	Metadata    map[string]any
}

// Checkout is the created checkout session.
type Checkout struct {
	ID          string `json:"id"`
	PurchaseURL string `json:"purchase_url"`
}

// TransferRequest describes a payout transfer to a platform user.
type TransferRequest struct {
	AmountCents    int64
	Currency       string
	DestinationID  string
	IdempotenceKey string
	Metadata       map[string]any
}

// Transfer is the created payout transfer.
type Transfer struct {
	ID string `json:"id"`
}

type checkoutPayload struct {
	Mode        string         `json:"mode"`
	RedirectURL string         `json:"redirect_url"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Plan        checkoutPlan   `json:"plan"`
}

type checkoutPlan struct {
	CompanyID    string  `json:"company_id"`
	Currency     string  `json:"currency"`
	PlanType     string  `json:"plan_type"`
	InitialPrice float64 `json:"initial_price"`
}

type transferPayload struct {
	Amount         float64        `json:"amount"`
	Currency       string         `json:"currency"`
	DestinationID  string         `json:"destination_id"`
	OriginID       string         `json:"origin_id"`
	IdempotenceKey string         `json:"idempotence_key"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// CreateCheckout creates a hosted one-time checkout for the given amount.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	payload := checkoutPayload{
		Mode:        "payment",
		RedirectURL: req.RedirectURL,
		Metadata:    req.Metadata,
		Plan: checkoutPlan{
			CompanyID:    c.companyID,
			Currency:     currencyOrDefault(req.Currency),
			PlanType:     "one_time",
			InitialPrice: centsToMajor(req.AmountCents),
		},
	}
	var checkout Checkout
	if err := c.invoke(ctx, "/checkout_configurations", payload, &checkout); err != nil {
		return nil, err
	}
	if checkout.ID == "" || checkout.PurchaseURL == "" {
		return nil, fmt.Errorf("whop: checkout response missing id or purchase url")
	}
	return &checkout, nil
}

// CreateTransfer moves a payout from the platform account to a user. The
// idempotence key lets the gateway collapse retried transfers into one.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	payload := transferPayload{
		Amount:         centsToMajor(req.AmountCents),
		Currency:       currencyOrDefault(req.Currency),
		DestinationID:  req.DestinationID,
		OriginID:       c.companyID,
		IdempotenceKey: req.IdempotenceKey,
		Metadata:       req.Metadata,
	}
	var transfer Transfer
	if err := c.invoke(ctx, "/transfers", payload, &transfer); err != nil {
		return nil, err
	}
	if transfer.ID == "" {
		return nil, fmt.Errorf("whop: transfer response missing id")
	}
	return &transfer, nil
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke whop: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("whop status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("whop status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("whop status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode whop response: %w", err)
	}
	return nil
}

// centsToMajor converts integer minor units to the decimal amount the API
// expects, keeping exactly two decimal places.
func centsToMajor(cents int64) float64 {
	return float64(cents) / 100
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "usd"
	}
	return currency
}
