package payment

// PAYMENT INTENT CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidAmount    = errors.New("amount must be positive minor units")
)

type Client struct {
	intentURL  string
	token      string
	httpClient *http.Client
	maxRetry   time.Duration
	logger     *zap.Logger
}

// IntentRequest is sent to the payment endpoint. Amount is in minor
// currency units (cents).
type IntentRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

func NewClient(intentURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		intentURL: intentURL,
		token:     token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetry: 30 * time.Second,
		logger:   logger,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.intentURL != ""
}

// CreateIntent asks the payment endpoint for a payment intent. Transport
// errors and 5xx responses are retried with exponential backoff.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("create intent: %d: %w", req.Amount, ErrInvalidAmount)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxRetry

	var intent Intent
	err = backoff.RetryNotify(
		func() error {
			return c.post(ctx, body, &intent)
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			c.logger.Warn("Payment intent request failed, retrying...",
				zap.Int64("amount", req.Amount),
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency))
	return &intent, nil
}

func (c *Client) post(ctx context.Context, body []byte, out *Intent) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.intentURL, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
