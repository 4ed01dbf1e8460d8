package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/herbloom/storefront/internal/config"
	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/types"
)

// Client defines the Shopify subscription contract operations used by the
// mirror leg of the subscription core. Calls authenticate with the
// customer's bearer token carried on the context by the session middleware.
type Client interface {
	GetSubscriptionContract(ctx context.Context, contractGID string) (*SubscriptionContract, error)
	UpdateDeliveryPolicy(ctx context.Context, contractGID string, interval types.BillingInterval) error
	CancelSubscriptionContract(ctx context.Context, contractGID string) error
	PauseSubscriptionContract(ctx context.Context, contractGID string) error
	ActivateSubscriptionContract(ctx context.Context, contractGID string) error
}

type client struct {
	endpoint   string
	logger     *logger.Logger
	httpClient *http.Client
}

// NewClient creates a new Shopify GraphQL client for the configured store.
func NewClient(cfg *config.Configuration, log *logger.Logger) Client {
	return &client{
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json",
			cfg.Shopify.StoreDomain, cfg.Shopify.APIVersion),
		logger:     log,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const contractQuery = `
query subscriptionContract($id: ID!) {
  subscriptionContract(id: $id) {
    id
    status
    nextBillingDate
    deliveryPolicy { interval intervalCount }
    deliveryAddress { name address1 address2 city province zip country }
    lines(first: 20) { edges { node { id variantId quantity } } }
  }
}`

func (c *client) GetSubscriptionContract(ctx context.Context, contractGID string) (*SubscriptionContract, error) {
	var data contractQueryData
	err := c.execute(ctx, contractQuery, map[string]any{"id": contractGID}, &data)
	if err != nil {
		return nil, err
	}
	if data.SubscriptionContract == nil {
		return nil, ierr.NewErrorf("subscription contract not found: %s", contractGID).
			WithHint("Subscription not found").
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrNotFound)
	}
	return data.SubscriptionContract, nil
}

const updateDeliveryPolicyMutation = `
mutation subscriptionContractUpdateDeliveryPolicy($contractId: ID!, $interval: SellingPlanInterval!, $intervalCount: Int!) {
  subscriptionContractUpdateDeliveryPolicy(contractId: $contractId, interval: $interval, intervalCount: $intervalCount) {
    contract { id status }
    userErrors { field message }
  }
}`

func (c *client) UpdateDeliveryPolicy(ctx context.Context, contractGID string, interval types.BillingInterval) error {
	return c.mutate(ctx, "subscriptionContractUpdateDeliveryPolicy", updateDeliveryPolicyMutation, map[string]any{
		"contractId":    contractGID,
		"interval":      strings.ToUpper(string(interval.Unit)),
		"intervalCount": interval.Count,
	})
}

const cancelContractMutation = `
mutation subscriptionContractCancel($contractId: ID!) {
  subscriptionContractCancel(subscriptionContractId: $contractId) {
    contract { id status }
    userErrors { field message }
  }
}`

func (c *client) CancelSubscriptionContract(ctx context.Context, contractGID string) error {
	return c.mutate(ctx, "subscriptionContractCancel", cancelContractMutation, map[string]any{
		"contractId": contractGID,
	})
}

const pauseContractMutation = `
mutation subscriptionContractPause($contractId: ID!) {
  subscriptionContractPause(subscriptionContractId: $contractId) {
    contract { id status }
    userErrors { field message }
  }
}`

func (c *client) PauseSubscriptionContract(ctx context.Context, contractGID string) error {
	return c.mutate(ctx, "subscriptionContractPause", pauseContractMutation, map[string]any{
		"contractId": contractGID,
	})
}

const activateContractMutation = `
mutation subscriptionContractActivate($contractId: ID!) {
  subscriptionContractActivate(subscriptionContractId: $contractId) {
    contract { id status }
    userErrors { field message }
  }
}`

func (c *client) ActivateSubscriptionContract(ctx context.Context, contractGID string) error {
	return c.mutate(ctx, "subscriptionContractActivate", activateContractMutation, map[string]any{
		"contractId": contractGID,
	})
}

// mutate runs a contract mutation and converts userErrors into a business
// rejection with the platform's own message.
func (c *client) mutate(ctx context.Context, operation, query string, variables map[string]any) error {
	var data map[string]contractMutationPayload
	if err := c.execute(ctx, query, variables, &data); err != nil {
		return err
	}

	payload, ok := data[operation]
	if !ok {
		return ierr.NewErrorf("malformed Shopify response: missing %s payload", operation).
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrHTTPClient)
	}
	if len(payload.UserErrors) > 0 {
		messages := lo.Map(payload.UserErrors, func(ue UserError, _ int) string {
			return ue.Message
		})
		message := strings.Join(messages, "; ")
		return ierr.NewError(message).
			WithHint(message).
			WithReportableDetails(map[string]any{
				"system":    "shopify",
				"operation": operation,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

// execute posts one GraphQL request and decodes response data into out.
func (c *client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	token := types.GetCustomerToken(ctx)
	if token == "" {
		return ierr.NewError("missing customer session token").
			WithHint("Please sign in to manage your subscription").
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrPermissionDenied)
	}

	bodyBytes, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(types.HeaderAuthorization, "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorw("Shopify request failed", "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the store. Please try again later.").
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ierr.NewError("customer session rejected by Shopify").
			WithHint("Please sign in again to manage your subscription").
			WithReportableDetails(map[string]any{"system": "shopify", "status": resp.StatusCode}).
			Mark(ierr.ErrPermissionDenied)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Errorw("Shopify API error", "status", resp.StatusCode, "body", string(respBody))
		return ierr.NewErrorf("Shopify API error (HTTP %d)", resp.StatusCode).
			WithHint("The store is unavailable. Please try again later.").
			WithReportableDetails(map[string]any{"system": "shopify", "status": resp.StatusCode}).
			Mark(ierr.ErrHTTPClient)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to parse Shopify response").
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrHTTPClient)
	}
	if len(gqlResp.Errors) > 0 {
		messages := lo.Map(gqlResp.Errors, func(e graphQLError, _ int) string {
			return e.Message
		})
		message := strings.Join(messages, "; ")
		c.logger.Errorw("Shopify GraphQL error", "errors", message)
		return ierr.NewError(message).
			WithHint("The store is unavailable. Please try again later.").
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrHTTPClient)
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to parse Shopify response").
				WithReportableDetails(map[string]any{"system": "shopify"}).
				Mark(ierr.ErrHTTPClient)
		}
	}
	return nil
}
