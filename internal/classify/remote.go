package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halcyon-app/halcyon/pkg/types"
)

// RemoteClassifier calls an external model service over HTTP JSON. All calls
// are wrapped with circuit breaker protection; on any failure the caller is
// expected to fall back to the heuristic classifier.
type RemoteClassifier struct {
	baseURL        string
	client         *http.Client
	circuitBreaker *CircuitBreaker
	fallback       Classifier
	timeout        time.Duration
	log            *logrus.Entry
}

// RemoteConfig holds remote classifier configuration.
type RemoteConfig struct {
	// BaseURL is the base URL of the classifier service.
	BaseURL string

	// Timeout is the per-request timeout (default: 5s).
	Timeout time.Duration

	// Breaker overrides the default circuit breaker settings.
	Breaker CircuitBreakerConfig
}

// NewRemoteClassifier creates a remote classifier that degrades to fallback
// when the service errors or the circuit is open. fallback must not be nil.
func NewRemoteClassifier(config RemoteConfig, fallback Classifier) *RemoteClassifier {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &RemoteClassifier{
		baseURL:        config.BaseURL,
		client:         &http.Client{Timeout: config.Timeout},
		circuitBreaker: NewCircuitBreakerWithConfig(config.Breaker),
		fallback:       fallback,
		timeout:        config.Timeout,
		log:            logrus.WithField("component", "remote_classifier"),
	}
}

// Classify asks the remote service for a verdict, falling back to the local
// heuristic when the service fails or returns an unknown label.
func (c *RemoteClassifier) Classify(ctx context.Context, req *Request) (*Result, error) {
	result, err := c.circuitBreaker.Execute(ctx, func() (interface{}, error) {
		return c.classify(ctx, req)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			c.log.Warn("classifier circuit open, using heuristic fallback")
		} else {
			c.log.WithError(err).Warn("remote classify failed, using heuristic fallback")
		}
		return c.fallback.Classify(ctx, req)
	}
	return result.(*Result), nil
}

func (c *RemoteClassifier) classify(ctx context.Context, req *Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, payload)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}
	if !types.IsValidEmotionType(result.Label) {
		return nil, fmt.Errorf("classifier returned unknown label %q", result.Label)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("classifier returned out-of-range confidence %f", result.Confidence)
	}
	return &result, nil
}

// BreakerState exposes the circuit state for health reporting.
func (c *RemoteClassifier) BreakerState() string {
	return c.circuitBreaker.State()
}
