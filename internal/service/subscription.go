package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/herbloom/storefront/internal/api/dto"
	"github.com/herbloom/storefront/internal/domain/plan"
	"github.com/herbloom/storefront/internal/domain/subscription"
	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/integration/loop"
	"github.com/herbloom/storefront/internal/integration/shopify"
	"github.com/herbloom/storefront/internal/types"
)

// SubscriptionService keeps a customer's subscription state consistent
// across Loop (authoritative for billing and fulfillment) and Shopify (the
// storefront mirror). Loop is always written first; mirror failures never
// roll back an authoritative change because no compensating transaction
// exists.
type SubscriptionService interface {
	GetSubscription(ctx context.Context, anyID string) (*dto.SubscriptionResponse, error)
	GetMirrorSubscription(ctx context.Context, anyID string) (*dto.SubscriptionResponse, error)
	ChangePlan(ctx context.Context, anyID string, req *dto.ChangePlanRequest) (*dto.ChangePlanResponse, error)
	Cancel(ctx context.Context, anyID string, req *dto.CancelSubscriptionRequest) (*dto.CancelSubscriptionResponse, error)
	SetPaused(ctx context.Context, anyID string, paused bool) (*dto.SetPausedResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{ServiceParams: params}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, anyID string) (*dto.SubscriptionResponse, error) {
	ref := subscription.NewRef(anyID)

	sub, err := s.LoopClient.GetSubscription(ctx, ref.LoopID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{State: s.normalizeLoopSubscription(ref, sub)}, nil
}

// GetMirrorSubscription reads the Shopify side of the same subscription,
// for the storefront order-history view. Loop remains authoritative; this
// read exists so the contract can be rendered even while the mirror lags.
func (s *subscriptionService) GetMirrorSubscription(ctx context.Context, anyID string) (*dto.SubscriptionResponse, error) {
	if !s.MirrorEnabled {
		return nil, ierr.NewError("mirror system is not configured").
			WithHint("Subscription details are unavailable from the store").
			Mark(ierr.ErrInvalidOperation)
	}

	ref := subscription.NewRef(anyID)
	contract, err := s.ShopifyClient.GetSubscriptionContract(ctx, ref.ContractGID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionResponse{State: s.normalizeContract(contract)}, nil
}

func (s *subscriptionService) ChangePlan(ctx context.Context, anyID string, req *dto.ChangePlanRequest) (*dto.ChangePlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	targetKey, err := plan.ParseKey(req.Plan)
	if err != nil {
		return nil, err
	}
	target, err := s.Catalog.Get(targetKey)
	if err != nil {
		return nil, err
	}

	ref := subscription.NewRef(anyID)

	if req.ForceRecreate {
		return s.recreatePlan(ctx, ref, target)
	}
	return s.updatePlanInPlace(ctx, ref, target)
}

// updatePlanInPlace moves the subscription to the target cadence with a
// single Loop mutation, then mirrors the new cadence to Shopify as best
// effort. The delivered variant never changes on this path.
func (s *subscriptionService) updatePlanInPlace(ctx context.Context, ref subscription.Ref, target plan.Config) (*dto.ChangePlanResponse, error) {
	updateReq := &loop.UpdateFrequencyRequest{
		OrderIntervalUnit:      string(target.Interval.Unit),
		OrderIntervalFrequency: target.Interval.Count,
		Quantity:               target.PackSize,
	}

	if _, err := s.LoopClient.UpdateFrequency(ctx, ref.LoopID, updateReq); err != nil {
		if ierr.IsInvalidOperation(err) {
			// Loop declined the change outright; its message carries the
			// actionable guidance, so it is surfaced verbatim rather than
			// retried or escalated to the recreate path.
			s.Logger.Warnw("Loop rejected plan change",
				"subscription_id", ref.LoopID,
				"target_plan", target.Key,
				"error", err)
			return &dto.ChangePlanResponse{
				Success:      false,
				ErrorMessage: err.Error(),
			}, nil
		}
		return nil, err
	}

	s.mirrorBestEffort(ctx, ref, "delivery policy update", func() error {
		return s.ShopifyClient.UpdateDeliveryPolicy(ctx, ref.ContractGID, target.Interval)
	})

	s.Logger.Infow("changed subscription plan in place",
		"subscription_id", ref.LoopID,
		"plan", target.Key,
		"interval_unit", target.Interval.Unit,
		"interval_count", target.Interval.Count)

	updated := target
	return &dto.ChangePlanResponse{Success: true, UpdatedPlan: &updated}, nil
}

// recreatePlan handles a switch to a tier that delivers a different
// formula. The existing Loop subscription is cancelled with a reason and
// the customer is routed to checkout to start the new one; this service
// never fabricates a subscription itself.
func (s *subscriptionService) recreatePlan(ctx context.Context, ref subscription.Ref, target plan.Config) (*dto.ChangePlanResponse, error) {
	reason := fmt.Sprintf("Switching formula for plan change to %s", target.DisplayName)
	result := s.dualCancel(ctx, ref, &loop.CancelRequest{Reason: reason})

	resp := &dto.ChangePlanResponse{
		Success:     result.Success(),
		DualWrite:   &result,
		RedirectURL: s.checkoutURL(target),
	}
	if !result.Success() {
		resp.ErrorMessage = result.Authoritative.Error
	}
	return resp, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, anyID string, req *dto.CancelSubscriptionRequest) (*dto.CancelSubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ref := subscription.NewRef(anyID)
	result := s.dualCancel(ctx, ref, &loop.CancelRequest{
		Reason:  req.Reason,
		Comment: req.Comment,
	})

	return &dto.CancelSubscriptionResponse{
		Success:         result.Success(),
		DualWriteResult: result,
	}, nil
}

// dualCancel executes cancellation as an ordered dual write: Loop first,
// Shopify second, never parallel. The mirror leg is attempted regardless of
// the authoritative outcome except when Loop reported the subscription does
// not exist at all.
func (s *subscriptionService) dualCancel(ctx context.Context, ref subscription.Ref, req *loop.CancelRequest) subscription.DualWriteResult {
	var result subscription.DualWriteResult

	authErr := s.LoopClient.CancelSubscription(ctx, ref.LoopID, req)
	if authErr != nil {
		s.Logger.Errorw("authoritative cancellation failed",
			"subscription_id", ref.LoopID,
			"error", authErr)
		result.Authoritative = subscription.WriteLeg{Success: false, Error: authErr.Error()}
	} else {
		result.Authoritative = subscription.WriteLeg{Success: true}
	}

	switch {
	case !s.MirrorEnabled:
		result.Mirror = subscription.WriteLeg{Success: true, Skipped: true}
	case authErr != nil && ierr.IsNotFound(authErr):
		result.Mirror = subscription.WriteLeg{
			Skipped: true,
			Error:   "skipped: subscription not found on authoritative system",
		}
	default:
		if mirrorErr := s.ShopifyClient.CancelSubscriptionContract(ctx, ref.ContractGID); mirrorErr != nil {
			result.Mirror = subscription.WriteLeg{Success: false, Error: mirrorErr.Error()}
			if result.Authoritative.Success {
				// Billing has genuinely stopped; the stale mirror is a
				// reconciliation concern, not a customer-facing failure.
				s.Logger.Errorw("mirror cancellation failed after authoritative success",
					"contract_gid", ref.ContractGID,
					"error", mirrorErr)
			}
		} else {
			result.Mirror = subscription.WriteLeg{Success: true}
		}
	}

	return result
}

func (s *subscriptionService) SetPaused(ctx context.Context, anyID string, paused bool) (*dto.SetPausedResponse, error) {
	ref := subscription.NewRef(anyID)

	var (
		sub *loop.Subscription
		err error
	)
	if paused {
		sub, err = s.LoopClient.PauseSubscription(ctx, ref.LoopID)
	} else {
		sub, err = s.LoopClient.ResumeSubscription(ctx, ref.LoopID)
	}
	if err != nil {
		// Loop enforces legal transitions itself; an illegal request (for
		// example pausing a cancelled subscription) comes back as a
		// business rejection and is surfaced, not retried.
		return nil, err
	}

	if paused {
		s.mirrorBestEffort(ctx, ref, "contract pause", func() error {
			return s.ShopifyClient.PauseSubscriptionContract(ctx, ref.ContractGID)
		})
	} else {
		s.mirrorBestEffort(ctx, ref, "contract activate", func() error {
			return s.ShopifyClient.ActivateSubscriptionContract(ctx, ref.ContractGID)
		})
	}

	return &dto.SetPausedResponse{
		Success: true,
		Status:  normalizeStatus(sub.Status),
	}, nil
}

// mirrorBestEffort runs one mirror-leg operation. Failures are logged for
// operational follow-up and never propagated.
func (s *subscriptionService) mirrorBestEffort(ctx context.Context, ref subscription.Ref, operation string, fn func() error) {
	if !s.MirrorEnabled {
		return
	}
	if err := fn(); err != nil {
		s.Logger.Errorw("mirror operation failed",
			"operation", operation,
			"contract_gid", ref.ContractGID,
			"error", err)
	}
}

func (s *subscriptionService) checkoutURL(target plan.Config) string {
	return fmt.Sprintf("%s/pages/subscribe?plan=%s", strings.TrimRight(s.Config.Checkout.ShopURL, "/"), target.Key)
}

// normalizeLoopSubscription maps Loop's wire shape into the internal
// snapshot. Missing optional fields (next charge date, address) default
// silently; an unrecognized cadence leaves CurrentPlan unset.
func (s *subscriptionService) normalizeLoopSubscription(ref subscription.Ref, sub *loop.Subscription) *subscription.State {
	interval := types.BillingInterval{
		Unit:  types.IntervalUnit(strings.ToLower(sub.OrderIntervalUnit)),
		Count: sub.OrderIntervalFrequency,
	}

	state := &subscription.State{
		Ref:             ref,
		Status:          normalizeStatus(sub.Status),
		Interval:        interval,
		NextBillingDate: sub.NextChargeScheduledAt,
		LineItems: lo.Map(sub.LineItems, func(li loop.LineItem, _ int) subscription.LineItem {
			return subscription.LineItem{
				ID:         li.ID,
				VariantGID: li.ExternalVariantID,
				Quantity:   li.Quantity,
			}
		}),
	}

	variantGID := ""
	if len(sub.LineItems) > 0 {
		variantGID = sub.LineItems[0].ExternalVariantID
	}
	if matched, ok := s.Catalog.Match(interval, variantGID); ok {
		state.CurrentPlan = &matched
	}

	if addr := sub.ShippingAddress; addr != nil {
		state.DeliveryAddress = &subscription.Address{
			Name:     addr.FullName,
			Address1: addr.Address1,
			Address2: addr.Address2,
			City:     addr.City,
			Province: addr.Province,
			Zip:      addr.Zip,
			Country:  addr.Country,
		}
	}

	return state
}

// normalizeContract maps Shopify's contract shape into the same internal
// snapshot the Loop reader produces.
func (s *subscriptionService) normalizeContract(contract *shopify.SubscriptionContract) *subscription.State {
	ref := subscription.NewRef(contract.ID)

	interval := types.BillingInterval{}
	if contract.DeliveryPolicy != nil {
		interval = types.BillingInterval{
			Unit:  types.IntervalUnit(strings.ToLower(contract.DeliveryPolicy.Interval)),
			Count: contract.DeliveryPolicy.IntervalCount,
		}
	}

	state := &subscription.State{
		Ref:             ref,
		Status:          normalizeStatus(contract.Status),
		Interval:        interval,
		NextBillingDate: contract.NextBillingDate,
		LineItems: lo.Map(contract.Lines.Edges, func(edge shopify.LineEdge, _ int) subscription.LineItem {
			return subscription.LineItem{
				ID:         edge.Node.ID,
				VariantGID: edge.Node.VariantID,
				Quantity:   edge.Node.Quantity,
			}
		}),
	}

	variantGID := ""
	if len(state.LineItems) > 0 {
		variantGID = state.LineItems[0].VariantGID
	}
	if matched, ok := s.Catalog.Match(interval, variantGID); ok {
		state.CurrentPlan = &matched
	}

	if addr := contract.DeliveryAddress; addr != nil {
		state.DeliveryAddress = &subscription.Address{
			Name:     addr.Name,
			Address1: addr.Address1,
			Address2: addr.Address2,
			City:     addr.City,
			Province: addr.Province,
			Zip:      addr.Zip,
			Country:  addr.Country,
		}
	}

	return state
}

// normalizeStatus maps either backend's status spelling onto the internal
// enum. Anything a backend reports as ended maps to cancelled regardless of
// the other system's lag.
func normalizeStatus(raw string) types.SubscriptionStatus {
	switch strings.ToLower(raw) {
	case "active":
		return types.SubscriptionStatusActive
	case "paused":
		return types.SubscriptionStatusPaused
	case "cancelled", "canceled", "expired", "failed":
		return types.SubscriptionStatusCancelled
	default:
		return types.SubscriptionStatusActive
	}
}
