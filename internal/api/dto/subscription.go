package dto

import (
	"github.com/herbloom/storefront/internal/domain/plan"
	"github.com/herbloom/storefront/internal/domain/subscription"
	"github.com/herbloom/storefront/internal/types"
	"github.com/herbloom/storefront/internal/validator"
)

// SubscriptionResponse is a normalized subscription snapshot.
type SubscriptionResponse struct {
	*subscription.State
}

// ChangePlanRequest asks to move a subscription to a different tier.
// ForceRecreate selects the destroy-and-recreate path used when the target
// tier delivers a different formula; it is never inferred, to avoid
// surprising data loss.
type ChangePlanRequest struct {
	Plan          string `json:"plan" validate:"required"`
	ForceRecreate bool   `json:"force_recreate"`
}

func (r *ChangePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ChangePlanResponse is the outcome of a plan change. For the in-place path
// Success reflects the single authoritative mutation. For the recreate path
// the dual write legs are reported and RedirectURL points the customer at
// checkout to start the new subscription.
type ChangePlanResponse struct {
	Success      bool                          `json:"success"`
	UpdatedPlan  *plan.Config                  `json:"updated_plan,omitempty"`
	ErrorMessage string                        `json:"error_message,omitempty"`
	RedirectURL  string                        `json:"redirect_url,omitempty"`
	DualWrite    *subscription.DualWriteResult `json:"dual_write,omitempty"`
}

// CancelSubscriptionRequest ends a subscription on both systems.
type CancelSubscriptionRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

func (r *CancelSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// CancelSubscriptionResponse reports both legs of the cancellation dual
// write. Success mirrors the authoritative leg alone.
type CancelSubscriptionResponse struct {
	Success bool `json:"success"`
	subscription.DualWriteResult
}

// SetPausedRequest toggles a subscription between active and paused.
type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

// SetPausedResponse reports the status after the toggle.
type SetPausedResponse struct {
	Success bool                     `json:"success"`
	Status  types.SubscriptionStatus `json:"status"`
}
