// Package predictor provides the client for the external numeric intake
// model. The model (a trained regressor plus feature scaler) runs as a
// separate service; this client treats it as an opaque
// predict(features) -> float function and reports failures so callers can
// degrade to a fallback value.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single prediction round trip.
const DefaultTimeout = 10 * time.Second

// Opts holds configuration options for the predictor client.
type Opts struct {
	BaseURL    string        // base URL of the model server, e.g. http://localhost:8501
	HTTPClient *http.Client  // overrides the default HTTP client
	Timeout    time.Duration // per-request timeout when no client override is given
}

// Option defines a configuration option for the predictor client.
type Option func(*Opts)

// WithBaseURL sets the model server base URL.
func WithBaseURL(url string) Option {
	return func(o *Opts) {
		o.BaseURL = url
	}
}

// WithHTTPClient overrides the HTTP client used for model requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) {
		o.HTTPClient = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.Timeout = d
	}
}

// Client calls the model server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// predictRequest is the wire format sent to the model server.
type predictRequest struct {
	Features []float64 `json:"features"`
}

// predictResponse is the wire format returned by the model server.
type predictResponse struct {
	Prediction float64 `json:"prediction"`
}

// NewClient creates a predictor client, applying any provided options.
// The base URL is required.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("predictor base URL not set")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	slog.Debug("predictor.NewClient: client configured", "base_url", cfg.BaseURL)
	return &Client{baseURL: cfg.BaseURL, http: httpClient}, nil
}

// Predict posts the feature vector to the model server and returns the
// predicted intake in ml.
func (c *Client) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return 0, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Client.Predict: model server unreachable", "error", err)
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Client.Predict: model server returned non-OK status", "status", resp.StatusCode)
		return 0, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode prediction response: %w", err)
	}
	slog.Debug("Client.Predict: prediction received", "prediction", out.Prediction)
	return out.Prediction, nil
}
