package testutil

import (
	"context"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/integration/shopify"
	"github.com/herbloom/storefront/internal/types"
)

// FakeShopifyClient implements shopify.Client with recorded calls and
// injectable failures for the mirror leg.
type FakeShopifyClient struct {
	Recorder  *CallRecorder
	Contracts map[string]*shopify.SubscriptionContract

	// ForcedErrors overrides the outcome of an operation ("get", "update",
	// "cancel", "pause", "activate").
	ForcedErrors map[string]error
}

func NewFakeShopifyClient(recorder *CallRecorder) *FakeShopifyClient {
	return &FakeShopifyClient{
		Recorder:     recorder,
		Contracts:    make(map[string]*shopify.SubscriptionContract),
		ForcedErrors: make(map[string]error),
	}
}

func (f *FakeShopifyClient) GetSubscriptionContract(_ context.Context, contractGID string) (*shopify.SubscriptionContract, error) {
	f.Recorder.Record("shopify.get " + contractGID)
	if err := f.ForcedErrors["get"]; err != nil {
		return nil, err
	}
	contract, ok := f.Contracts[contractGID]
	if !ok {
		return nil, ierr.NewErrorf("subscription contract not found: %s", contractGID).
			WithReportableDetails(map[string]any{"system": "shopify"}).
			Mark(ierr.ErrNotFound)
	}
	return contract, nil
}

func (f *FakeShopifyClient) UpdateDeliveryPolicy(_ context.Context, contractGID string, interval types.BillingInterval) error {
	f.Recorder.Record("shopify.update_delivery_policy " + contractGID)
	if err := f.ForcedErrors["update"]; err != nil {
		return err
	}
	if contract, ok := f.Contracts[contractGID]; ok {
		contract.DeliveryPolicy = &shopify.DeliveryPolicy{
			Interval:      string(interval.Unit),
			IntervalCount: interval.Count,
		}
	}
	return nil
}

func (f *FakeShopifyClient) CancelSubscriptionContract(_ context.Context, contractGID string) error {
	f.Recorder.Record("shopify.cancel " + contractGID)
	if err := f.ForcedErrors["cancel"]; err != nil {
		return err
	}
	if contract, ok := f.Contracts[contractGID]; ok {
		contract.Status = "CANCELLED"
	}
	return nil
}

func (f *FakeShopifyClient) PauseSubscriptionContract(_ context.Context, contractGID string) error {
	f.Recorder.Record("shopify.pause " + contractGID)
	if err := f.ForcedErrors["pause"]; err != nil {
		return err
	}
	if contract, ok := f.Contracts[contractGID]; ok {
		contract.Status = "PAUSED"
	}
	return nil
}

func (f *FakeShopifyClient) ActivateSubscriptionContract(_ context.Context, contractGID string) error {
	f.Recorder.Record("shopify.activate " + contractGID)
	if err := f.ForcedErrors["activate"]; err != nil {
		return err
	}
	if contract, ok := f.Contracts[contractGID]; ok {
		contract.Status = "ACTIVE"
	}
	return nil
}
