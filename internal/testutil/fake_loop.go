package testutil

import (
	"context"
	"strings"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/integration/loop"
)

// FakeLoopClient implements loop.Client against an in-memory subscription
// table, emulating Loop's own guards: unknown ids return not-found and
// mutations against a cancelled subscription are rejected the way Loop
// rejects them.
type FakeLoopClient struct {
	Recorder      *CallRecorder
	Subscriptions map[string]*loop.Subscription

	// ForcedErrors overrides the outcome of an operation ("get", "update",
	// "cancel", "pause", "resume") for error-path tests.
	ForcedErrors map[string]error
}

func NewFakeLoopClient(recorder *CallRecorder) *FakeLoopClient {
	return &FakeLoopClient{
		Recorder:      recorder,
		Subscriptions: make(map[string]*loop.Subscription),
		ForcedErrors:  make(map[string]error),
	}
}

func (f *FakeLoopClient) GetSubscription(_ context.Context, subscriptionID string) (*loop.Subscription, error) {
	f.Recorder.Record("loop.get " + subscriptionID)
	if err := f.ForcedErrors["get"]; err != nil {
		return nil, err
	}
	return f.lookup(subscriptionID)
}

func (f *FakeLoopClient) UpdateFrequency(_ context.Context, subscriptionID string, req *loop.UpdateFrequencyRequest) (*loop.Subscription, error) {
	f.Recorder.Record("loop.update_frequency " + subscriptionID)
	if err := f.ForcedErrors["update"]; err != nil {
		return nil, err
	}
	sub, err := f.lookup(subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := f.rejectIfCancelled(sub, "change frequency"); err != nil {
		return nil, err
	}
	sub.OrderIntervalUnit = req.OrderIntervalUnit
	sub.OrderIntervalFrequency = req.OrderIntervalFrequency
	if req.Quantity > 0 {
		for i := range sub.LineItems {
			sub.LineItems[i].Quantity = req.Quantity
		}
	}
	return copySubscription(sub), nil
}

func (f *FakeLoopClient) CancelSubscription(_ context.Context, subscriptionID string, req *loop.CancelRequest) error {
	f.Recorder.Record("loop.cancel " + subscriptionID + " reason=" + req.Reason)
	if err := f.ForcedErrors["cancel"]; err != nil {
		return err
	}
	sub, err := f.lookup(subscriptionID)
	if err != nil {
		return err
	}
	sub.Status = "cancelled"
	sub.CancellationReason = req.Reason
	return nil
}

func (f *FakeLoopClient) PauseSubscription(_ context.Context, subscriptionID string) (*loop.Subscription, error) {
	f.Recorder.Record("loop.pause " + subscriptionID)
	if err := f.ForcedErrors["pause"]; err != nil {
		return nil, err
	}
	sub, err := f.lookup(subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := f.rejectIfCancelled(sub, "pause"); err != nil {
		return nil, err
	}
	sub.Status = "paused"
	return copySubscription(sub), nil
}

func (f *FakeLoopClient) ResumeSubscription(_ context.Context, subscriptionID string) (*loop.Subscription, error) {
	f.Recorder.Record("loop.resume " + subscriptionID)
	if err := f.ForcedErrors["resume"]; err != nil {
		return nil, err
	}
	sub, err := f.lookup(subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := f.rejectIfCancelled(sub, "resume"); err != nil {
		return nil, err
	}
	sub.Status = "active"
	return copySubscription(sub), nil
}

func (f *FakeLoopClient) lookup(subscriptionID string) (*loop.Subscription, error) {
	sub, ok := f.Subscriptions[subscriptionID]
	if !ok {
		return nil, ierr.NewErrorf("subscription not found: %s", subscriptionID).
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrNotFound)
	}
	return sub, nil
}

func (f *FakeLoopClient) rejectIfCancelled(sub *loop.Subscription, action string) error {
	if strings.EqualFold(sub.Status, "cancelled") {
		return ierr.NewErrorf("cannot %s a cancelled subscription", action).
			WithHintf("This subscription is already cancelled and cannot %s", action).
			WithReportableDetails(map[string]any{"system": "loop"}).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func copySubscription(sub *loop.Subscription) *loop.Subscription {
	copied := *sub
	copied.LineItems = append([]loop.LineItem(nil), sub.LineItems...)
	return &copied
}
