package types

import (
	ierr "github.com/herbloom/storefront/internal/errors"
)

// SubscriptionStatus is the normalized lifecycle status of a subscription,
// independent of how either backend spells it on the wire.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) Validate() error {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCancelled:
		return nil
	default:
		return ierr.NewErrorf("invalid subscription status: %s", s).
			WithHint("Status must be one of active, paused, cancelled").
			Mark(ierr.ErrValidation)
	}
}

// IntervalUnit is the unit of a billing interval.
type IntervalUnit string

const (
	IntervalUnitDay   IntervalUnit = "day"
	IntervalUnitWeek  IntervalUnit = "week"
	IntervalUnitMonth IntervalUnit = "month"
)

func (u IntervalUnit) Validate() error {
	switch u {
	case IntervalUnitDay, IntervalUnitWeek, IntervalUnitMonth:
		return nil
	default:
		return ierr.NewErrorf("invalid interval unit: %s", u).
			WithHint("Interval unit must be one of day, week, month").
			Mark(ierr.ErrValidation)
	}
}

// BillingInterval is a delivery/billing cadence: every Count Units.
type BillingInterval struct {
	Unit  IntervalUnit `json:"unit"`
	Count int          `json:"count"`
}

func (b BillingInterval) Validate() error {
	if err := b.Unit.Validate(); err != nil {
		return err
	}
	if b.Count <= 0 {
		return ierr.NewError("interval count must be positive").
			WithReportableDetails(map[string]any{"count": b.Count}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
