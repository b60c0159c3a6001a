// Package payment is a small HTTP client for the payment provider's refund endpoint.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// RefundPayload is the request body of POST /orders/{number}/refunds.
type RefundPayload struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}

// Error is the provider's error body.
type Error struct {
	Code    *string `json:"code,omitempty"`
	Message *string `json:"message,omitempty"`
}

// Client talks to the payment provider.
type Client struct {
	server *url.URL
	http   *http.Client
}

// RefundOption configures a single Refund call.
type RefundOption func(*refundOptions)

type refundOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) RefundOption {
	return func(opts *refundOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// NewClient instantiates the client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("payment base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	server, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{server: server, http: httpClient}, nil
}

// Refund asks the provider to return payload.Amount for the order.
func (c *Client) Refund(ctx context.Context, orderNumber string, payload RefundPayload, optFns ...RefundOption) error {
	if c == nil || c.server == nil {
		return errors.New("payment client not configured")
	}
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return errors.New("order number is required")
	}
	var opts refundOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	req, err := c.newRefundRequest(ctx, orderNumber, payload, opts)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call payment API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("payment API idempotency conflict: %s", errorMessage(resp))
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("payment API error: %s", errorMessage(resp))
	default:
		return fmt.Errorf("payment API unexpected status: %s", resp.Status)
	}
}

func (c *Client) newRefundRequest(ctx context.Context, orderNumber string, payload RefundPayload, opts refundOptions) (*http.Request, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "number", runtime.ParamLocationPath, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("encode order number: %w", err)
	}
	target, err := c.server.Parse(fmt.Sprintf("orders/%s/refunds", pathParam))
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode refund payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.idempotencyKey != "" {
		headerValue, err := runtime.StyleParamWithLocation("simple", false, "Idempotency-Key", runtime.ParamLocationHeader, opts.idempotencyKey)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Idempotency-Key", headerValue)
	}
	return req, nil
}

func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	var body Error
	if err := json.Unmarshal(raw, &body); err != nil {
		return resp.Status
	}
	if body.Message != nil {
		if msg := strings.TrimSpace(*body.Message); msg != "" {
			return msg
		}
	}
	if body.Code != nil {
		if msg := strings.TrimSpace(*body.Code); msg != "" {
			return msg
		}
	}
	return resp.Status
}
