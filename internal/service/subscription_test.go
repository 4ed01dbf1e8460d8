package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/herbloom/storefront/internal/api/dto"
	"github.com/herbloom/storefront/internal/config"
	"github.com/herbloom/storefront/internal/domain/plan"
	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/integration/loop"
	"github.com/herbloom/storefront/internal/integration/shopify"
	"github.com/herbloom/storefront/internal/logger"
	"github.com/herbloom/storefront/internal/testutil"
	"github.com/herbloom/storefront/internal/types"
)

const (
	testLoopID      = "sub_1001"
	testContractGID = "gid://shopify/SubscriptionContract/1001"
)

type SubscriptionServiceSuite struct {
	suite.Suite
	recorder *testutil.CallRecorder
	loop     *testutil.FakeLoopClient
	shopify  *testutil.FakeShopifyClient
	params   ServiceParams
	service  SubscriptionService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.recorder = testutil.NewCallRecorder()
	s.loop = testutil.NewFakeLoopClient(s.recorder)
	s.shopify = testutil.NewFakeShopifyClient(s.recorder)
	s.params = ServiceParams{
		Logger:        logger.GetLogger(),
		Config:        config.GetDefaultConfig(),
		Catalog:       plan.DefaultCatalog(),
		LoopClient:    s.loop,
		ShopifyClient: s.shopify,
		MirrorEnabled: true,
	}
	s.service = NewSubscriptionService(s.params)
	s.seedStarterSubscription()
}

// seedStarterSubscription installs an active weekly Starter subscription on
// both fakes.
func (s *SubscriptionServiceSuite) seedStarterSubscription() {
	starter, err := s.params.Catalog.Get(plan.KeyStarter)
	s.Require().NoError(err)

	nextCharge := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	s.loop.Subscriptions[testLoopID] = &loop.Subscription{
		ID:                     testLoopID,
		Status:                 "active",
		OrderIntervalUnit:      "week",
		OrderIntervalFrequency: 1,
		NextChargeScheduledAt:  &nextCharge,
		LineItems: []loop.LineItem{
			{ID: "li_1", ExternalVariantID: starter.VariantGID, Quantity: starter.PackSize},
		},
		ShippingAddress: &loop.ShippingAddress{
			FullName: "Jamie Rivera",
			Address1: "12 Fern St",
			City:     "Portland",
			Province: "OR",
			Zip:      "97201",
			Country:  "US",
		},
	}
	s.shopify.Contracts[testContractGID] = &shopify.SubscriptionContract{
		ID:     testContractGID,
		Status: "ACTIVE",
		DeliveryPolicy: &shopify.DeliveryPolicy{
			Interval:      "WEEK",
			IntervalCount: 1,
		},
	}
}

func (s *SubscriptionServiceSuite) ctx() context.Context {
	return types.SetCustomerToken(context.Background(), "shpat_test")
}

func (s *SubscriptionServiceSuite) TestGetSubscription() {
	resp, err := s.service.GetSubscription(s.ctx(), testContractGID)
	s.Require().NoError(err)

	s.Equal(types.SubscriptionStatusActive, resp.Status)
	s.Equal(testLoopID, resp.Ref.LoopID)
	s.Equal(testContractGID, resp.Ref.ContractGID)
	s.Require().NotNil(resp.CurrentPlan)
	s.Equal(plan.KeyStarter, resp.CurrentPlan.Key)
	s.Require().NotNil(resp.NextBillingDate)
	s.Require().Len(resp.LineItems, 1)
	s.Equal(30, resp.LineItems[0].Quantity)
	s.Require().NotNil(resp.DeliveryAddress)
	s.Equal("Portland", resp.DeliveryAddress.City)
}

func (s *SubscriptionServiceSuite) TestGetSubscription_NotFound() {
	_, err := s.service.GetSubscription(s.ctx(), "sub_9999")
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestGetSubscription_DefaultsMissingOptionals() {
	s.loop.Subscriptions[testLoopID].NextChargeScheduledAt = nil
	s.loop.Subscriptions[testLoopID].ShippingAddress = nil

	resp, err := s.service.GetSubscription(s.ctx(), testLoopID)
	s.Require().NoError(err)
	s.Nil(resp.NextBillingDate)
	s.Nil(resp.DeliveryAddress)
}

func (s *SubscriptionServiceSuite) TestGetMirrorSubscription() {
	resp, err := s.service.GetMirrorSubscription(s.ctx(), testLoopID)
	s.Require().NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.Status)
	s.Equal(types.BillingInterval{Unit: types.IntervalUnitWeek, Count: 1}, resp.Interval)
}

func (s *SubscriptionServiceSuite) TestChangePlan_UnknownPlanMakesNoCalls() {
	_, err := s.service.ChangePlan(s.ctx(), testLoopID, &dto.ChangePlanRequest{Plan: "premium"})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.recorder.Calls())
}

func (s *SubscriptionServiceSuite) TestChangePlan_MissingPlanMakesNoCalls() {
	_, err := s.service.ChangePlan(s.ctx(), testLoopID, &dto.ChangePlanRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.recorder.Calls())
}

func (s *SubscriptionServiceSuite) TestChangePlan_InPlace() {
	resp, err := s.service.ChangePlan(s.ctx(), testContractGID, &dto.ChangePlanRequest{Plan: "pro"})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.Require().NotNil(resp.UpdatedPlan)
	s.Equal(plan.KeyPro, resp.UpdatedPlan.Key)
	s.Empty(resp.RedirectURL)

	s.Equal(1, s.recorder.Count("loop.update_frequency"))
	s.Equal(0, s.recorder.Count("loop.cancel"))
	s.Equal(1, s.recorder.Count("shopify.update_delivery_policy"))

	// The authoritative system now carries the pro cadence.
	sub := s.loop.Subscriptions[testLoopID]
	s.Equal("week", sub.OrderIntervalUnit)
	s.Equal(2, sub.OrderIntervalFrequency)
}

func (s *SubscriptionServiceSuite) TestChangePlan_MirrorFailureIsNonFatal() {
	s.shopify.ForcedErrors["update"] = ierr.NewError("selling plan incompatible").
		Mark(ierr.ErrInvalidOperation)

	resp, err := s.service.ChangePlan(s.ctx(), testLoopID, &dto.ChangePlanRequest{Plan: "pro"})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(plan.KeyPro, resp.UpdatedPlan.Key)
}

func (s *SubscriptionServiceSuite) TestChangePlan_UpstreamRejectionSurfacedVerbatim() {
	s.loop.ForcedErrors["update"] = ierr.NewError("frequency cannot change on a prepaid subscription").
		Mark(ierr.ErrInvalidOperation)

	resp, err := s.service.ChangePlan(s.ctx(), testLoopID, &dto.ChangePlanRequest{Plan: "pro"})
	s.Require().NoError(err)

	s.False(resp.Success)
	s.Contains(resp.ErrorMessage, "frequency cannot change on a prepaid subscription")
	// A rejection never escalates to the recreate path on its own.
	s.Equal(0, s.recorder.Count("loop.cancel"))
}

func (s *SubscriptionServiceSuite) TestChangePlan_TransportFailurePropagates() {
	s.loop.ForcedErrors["update"] = ierr.NewError("upstream timeout").Mark(ierr.ErrHTTPClient)

	_, err := s.service.ChangePlan(s.ctx(), testLoopID, &dto.ChangePlanRequest{Plan: "pro"})
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
}

func (s *SubscriptionServiceSuite) TestChangePlan_ForceRecreate() {
	resp, err := s.service.ChangePlan(s.ctx(), testContractGID, &dto.ChangePlanRequest{
		Plan:          "max",
		ForceRecreate: true,
	})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.Nil(resp.UpdatedPlan)
	s.Contains(resp.RedirectURL, "plan=max")

	s.Equal(0, s.recorder.Count("loop.update_frequency"))
	s.Equal(1, s.recorder.Count("loop.cancel"))
	s.Equal(1, s.recorder.Count("shopify.cancel"))

	// The cancellation reason names the formula switch.
	s.Contains(s.loop.Subscriptions[testLoopID].CancellationReason, "formula")
	s.Contains(s.loop.Subscriptions[testLoopID].CancellationReason, "Max")

	s.Require().NotNil(resp.DualWrite)
	s.True(resp.DualWrite.Authoritative.Success)
	s.True(resp.DualWrite.Mirror.Success)
}

func (s *SubscriptionServiceSuite) TestCancel_OrderingAuthoritativeThenMirror() {
	resp, err := s.service.Cancel(s.ctx(), testLoopID, &dto.CancelSubscriptionRequest{Reason: "too much product"})
	s.Require().NoError(err)
	s.True(resp.Success)

	calls := s.recorder.Calls()
	s.Require().Len(calls, 2)
	s.Contains(calls[0], "loop.cancel")
	s.Contains(calls[1], "shopify.cancel")
}

func (s *SubscriptionServiceSuite) TestCancel_PartialFailureReportsSuccess() {
	s.shopify.ForcedErrors["cancel"] = ierr.NewError("contract locked").Mark(ierr.ErrHTTPClient)

	resp, err := s.service.Cancel(s.ctx(), testLoopID, &dto.CancelSubscriptionRequest{Reason: "moving"})
	s.Require().NoError(err)

	// Billing genuinely stopped, so the customer sees success; the stale
	// mirror is recorded for reconciliation.
	s.True(resp.Success)
	s.True(resp.Authoritative.Success)
	s.False(resp.Mirror.Success)
	s.NotEmpty(resp.Mirror.Error)
}

func (s *SubscriptionServiceSuite) TestCancel_NotFoundSkipsMirror() {
	resp, err := s.service.Cancel(s.ctx(), "sub_404404", &dto.CancelSubscriptionRequest{Reason: "gone"})
	s.Require().NoError(err)

	s.False(resp.Success)
	s.False(resp.Authoritative.Success)
	s.True(resp.Mirror.Skipped)
	s.Equal(0, s.recorder.Count("shopify."))
}

func (s *SubscriptionServiceSuite) TestCancel_RejectionStillAttemptsMirror() {
	s.loop.ForcedErrors["cancel"] = ierr.NewError("already processing a billing attempt").
		Mark(ierr.ErrInvalidOperation)

	resp, err := s.service.Cancel(s.ctx(), testLoopID, &dto.CancelSubscriptionRequest{Reason: "done"})
	s.Require().NoError(err)

	s.False(resp.Success)
	s.False(resp.Authoritative.Success)
	// A non-not-found authoritative failure does not skip the mirror leg.
	s.Equal(1, s.recorder.Count("shopify.cancel"))
}

func (s *SubscriptionServiceSuite) TestCancel_MirrorDisabledShortCircuits() {
	s.params.MirrorEnabled = false
	s.service = NewSubscriptionService(s.params)

	resp, err := s.service.Cancel(s.ctx(), testLoopID, &dto.CancelSubscriptionRequest{Reason: "flavor"})
	s.Require().NoError(err)

	s.True(resp.Success)
	s.True(resp.Mirror.Success)
	s.True(resp.Mirror.Skipped)
	s.Equal(0, s.recorder.Count("shopify."))
}

func (s *SubscriptionServiceSuite) TestCancel_MissingReasonMakesNoCalls() {
	_, err := s.service.Cancel(s.ctx(), testLoopID, &dto.CancelSubscriptionRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.recorder.Calls())
}

func (s *SubscriptionServiceSuite) TestSetPaused_PauseAndResume() {
	resp, err := s.service.SetPaused(s.ctx(), testLoopID, true)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(types.SubscriptionStatusPaused, resp.Status)
	s.Equal(1, s.recorder.Count("shopify.pause"))

	resp, err = s.service.SetPaused(s.ctx(), testLoopID, false)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(types.SubscriptionStatusActive, resp.Status)
	s.Equal(1, s.recorder.Count("shopify.activate"))
}

func (s *SubscriptionServiceSuite) TestSetPaused_AlreadyCancelledRejected() {
	s.loop.Subscriptions[testLoopID].Status = "cancelled"

	_, err := s.service.SetPaused(s.ctx(), testLoopID, true)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	// The mirror is never touched when the authoritative toggle fails.
	s.Equal(0, s.recorder.Count("shopify."))
}
