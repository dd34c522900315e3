// Package predictor proxies feature payloads to the external flood
// inference service. The model itself lives behind that service; this client
// only relays the caller's payload and the two response fields.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/NElyse/FPA-Project/internal/httputil"
	"github.com/NElyse/FPA-Project/internal/metrics"
)

// ErrUnavailable is what callers see for any upstream failure. The
// underlying cause is logged, never surfaced.
var ErrUnavailable = errors.New("prediction service unavailable")

// Response carries the two fields relayed from the inference service.
type Response struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

type Client struct {
	baseURL string
	client  *http.Client
	maxWait time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httputil.NewClient(),
		maxWait: 30 * time.Second,
	}
}

// Predict forwards the payload verbatim to the inference endpoint. Transient
// upstream trouble (429, 5xx, connection resets) is retried with exponential
// backoff inside the deadline; everything else fails immediately.
func (c *Client) Predict(ctx context.Context, payload json.RawMessage) (*Response, error) {
	url := c.baseURL + "/predict"

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("call inference: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("inference status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("inference status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxWait
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("error").Inc()
		log.Printf("predictor: %v", err)
		return nil, ErrUnavailable
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("error").Inc()
		log.Printf("predictor: unmarshal response: %v", err)
		return nil, ErrUnavailable
	}

	metrics.InferenceCallsTotal.WithLabelValues("ok").Inc()
	return &out, nil
}
