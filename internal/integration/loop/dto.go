package loop

import "time"

// Wire shapes for the Loop subscriptions API. Loop nests the subscription
// under a "subscription" envelope on reads and mutations.

type Subscription struct {
	ID                     string           `json:"id"`
	Status                 string           `json:"status"`
	OrderIntervalUnit      string           `json:"order_interval_unit"`
	OrderIntervalFrequency int              `json:"order_interval_frequency"`
	NextChargeScheduledAt  *time.Time       `json:"next_charge_scheduled_at,omitempty"`
	LineItems              []LineItem       `json:"line_items"`
	ShippingAddress        *ShippingAddress `json:"shipping_address,omitempty"`
	CancelledAt            *time.Time       `json:"cancelled_at,omitempty"`
	CancellationReason     string           `json:"cancellation_reason,omitempty"`
}

type LineItem struct {
	ID                string `json:"id"`
	ExternalVariantID string `json:"external_variant_id"`
	Quantity          int    `json:"quantity"`
}

type ShippingAddress struct {
	FullName string `json:"full_name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country_code,omitempty"`
}

type subscriptionEnvelope struct {
	Subscription *Subscription `json:"subscription"`
}

// UpdateFrequencyRequest changes delivery cadence and, optionally, quantity.
// It never changes which variant is delivered.
type UpdateFrequencyRequest struct {
	OrderIntervalUnit      string `json:"order_interval_unit"`
	OrderIntervalFrequency int    `json:"order_interval_frequency"`
	Quantity               int    `json:"quantity,omitempty"`
}

// CancelRequest ends a subscription on Loop.
type CancelRequest struct {
	Reason  string `json:"cancellation_reason"`
	Comment string `json:"cancellation_comment,omitempty"`
}

// ErrorResponse is Loop's error payload for non-2xx responses.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
