package loop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/herbloom/storefront/internal/config"
	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/logger"
)

const headerToken = "X-Loop-Token"

// Client defines the Loop API operations used by the subscription core.
type Client interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	UpdateFrequency(ctx context.Context, subscriptionID string, req *UpdateFrequencyRequest) (*Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, req *CancelRequest) error
	PauseSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	ResumeSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}

type client struct {
	baseURL  string
	apiToken string
	logger   *logger.Logger

	// Mutations go through a plain client: a cancel or frequency change is
	// not safe to blind-retry. Reads are idempotent and use the retrying
	// transport.
	httpClient *http.Client
	readClient *http.Client
}

// NewClient creates a new Loop API client.
func NewClient(cfg *config.Configuration, log *logger.Logger) Client {
	timeout := cfg.Loop.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = log.GetRetryableHTTPLogger()

	return &client{
		baseURL:    cfg.Loop.BaseURL,
		apiToken:   cfg.Loop.APIToken,
		logger:     log,
		httpClient: &http.Client{Timeout: timeout},
		readClient: retryClient.StandardClient(),
	}
}

func (c *client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var env subscriptionEnvelope
	err := c.do(ctx, c.readClient, http.MethodGet, "/subscriptions/"+subscriptionID, nil, &env)
	if err != nil {
		return nil, err
	}
	if env.Subscription == nil {
		return nil, ierr.NewError("malformed Loop response: missing subscription").
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrHTTPClient)
	}
	return env.Subscription, nil
}

func (c *client) UpdateFrequency(ctx context.Context, subscriptionID string, req *UpdateFrequencyRequest) (*Subscription, error) {
	var env subscriptionEnvelope
	path := "/subscriptions/" + subscriptionID + "/frequency"
	err := c.do(ctx, c.httpClient, http.MethodPost, path, req, &env)
	if err != nil {
		return nil, err
	}
	if env.Subscription == nil {
		return nil, ierr.NewError("malformed Loop response: missing subscription").
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrHTTPClient)
	}
	c.logger.Infow("updated Loop subscription frequency",
		"subscription_id", subscriptionID,
		"interval_unit", req.OrderIntervalUnit,
		"interval_frequency", req.OrderIntervalFrequency)
	return env.Subscription, nil
}

func (c *client) CancelSubscription(ctx context.Context, subscriptionID string, req *CancelRequest) error {
	path := "/subscriptions/" + subscriptionID + "/cancel"
	if err := c.do(ctx, c.httpClient, http.MethodPost, path, req, nil); err != nil {
		return err
	}
	c.logger.Infow("cancelled Loop subscription",
		"subscription_id", subscriptionID,
		"reason", req.Reason)
	return nil
}

func (c *client) PauseSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	return c.toggle(ctx, subscriptionID, "pause")
}

func (c *client) ResumeSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	return c.toggle(ctx, subscriptionID, "resume")
}

func (c *client) toggle(ctx context.Context, subscriptionID, action string) (*Subscription, error) {
	var env subscriptionEnvelope
	path := "/subscriptions/" + subscriptionID + "/" + action
	err := c.do(ctx, c.httpClient, http.MethodPost, path, nil, &env)
	if err != nil {
		return nil, err
	}
	if env.Subscription == nil {
		return nil, ierr.NewError("malformed Loop response: missing subscription").
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrHTTPClient)
	}
	c.logger.Infow("toggled Loop subscription",
		"subscription_id", subscriptionID,
		"action", action,
		"status", env.Subscription.Status)
	return env.Subscription, nil
}

// do executes one request against the Loop API and decodes the response
// into out (when out is non-nil).
func (c *client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to marshal Loop request").
				Mark(ierr.ErrInternal)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	httpReq.Header.Set(headerToken, c.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(httpReq)
	if err != nil {
		c.logger.Errorw("Loop request failed", "method", method, "path", path, "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the subscription service. Please try again later.").
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read Loop response").
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromStatus(resp.StatusCode, respBody, method, path)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to parse Loop response").
				WithReportableDetails(map[string]any{"system": "loop"}).
				Mark(ierr.ErrHTTPClient)
		}
	}
	return nil
}

func (c *client) errorFromStatus(status int, body []byte, method, path string) error {
	message := fmt.Sprintf("Loop API error (HTTP %d)", status)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	}

	details := map[string]any{"system": "loop", "status": status}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ierr.NewError(message).
			WithHint("Not authorized for the subscription service").
			WithReportableDetails(details).
			Mark(ierr.ErrPermissionDenied)
	case status == http.StatusNotFound:
		return ierr.NewError(message).
			WithHint("Subscription not found").
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict || status == http.StatusBadRequest:
		// Loop understood the request and declined it. Its message carries
		// actionable guidance, so it is forwarded verbatim as the hint.
		return ierr.NewError(message).
			WithHint(message).
			WithReportableDetails(details).
			Mark(ierr.ErrInvalidOperation)
	default:
		c.logger.Errorw("Loop API error",
			"status", status,
			"method", method,
			"path", path,
			"message", message)
		return ierr.NewError(message).
			WithHint("The subscription service is unavailable. Please try again later.").
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}
}
