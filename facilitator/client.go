package facilitator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	x402 "github.com/lattice-works/x402gateway"
	"github.com/lattice-works/x402gateway/internal/metrics"
)

const connectTimeout = 5 * time.Second

// Client is the HTTP implementation of Interface.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a facilitator Client rooted at baseURL, with a 5-second
// connect timeout on the underlying transport. baseURL's trailing slash, if
// any, is stripped so path joins never produce a double slash.
func NewClient(baseURL string) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Transport: transport},
		log:     slog.Default(),
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.FacilitatorRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FacilitatorRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		c.log.Error("facilitator request failed", "op", op, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		metrics.FacilitatorRequestsTotal.WithLabelValues(op, "bad_status").Inc()
		c.log.Warn("facilitator returned non-200", "op", op, "status", resp.StatusCode)
		return nil, &HTTPError{Op: op, Status: resp.StatusCode, Body: string(data)}
	}

	metrics.FacilitatorRequestsTotal.WithLabelValues(op, "ok").Inc()
	return resp, nil
}

// Verify implements Interface.
func (c *Client) Verify(ctx context.Context, payload x402.PaymentPayload, requirement x402.PaymentRequirement) (*VerifyResponse, error) {
	resp, err := c.do(ctx, "verify", http.MethodPost, "/verify", request{
		X402Version:         1,
		PaymentPayload:      payload,
		PaymentRequirements: requirement,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &out, nil
}

// Settle implements Interface.
func (c *Client) Settle(ctx context.Context, payload x402.PaymentPayload, requirement x402.PaymentRequirement) (*x402.SettlementResponse, error) {
	resp, err := c.do(ctx, "settle", http.MethodPost, "/settle", request{
		X402Version:         1,
		PaymentPayload:      payload,
		PaymentRequirements: requirement,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out x402.SettlementResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode settlement response: %w", err)
	}
	return &out, nil
}

// Supported implements Interface.
func (c *Client) Supported(ctx context.Context) (*SupportedResponse, error) {
	resp, err := c.do(ctx, "supported", http.MethodGet, "/supported", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out SupportedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode supported response: %w", err)
	}
	return &out, nil
}
