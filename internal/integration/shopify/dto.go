package shopify

import (
	"encoding/json"
	"time"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// UserError is a business-level rejection returned inside a mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// SubscriptionContract is the normalized-enough slice of Shopify's
// subscription contract shape that the storefront needs.
type SubscriptionContract struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	NextBillingDate *time.Time      `json:"nextBillingDate,omitempty"`
	DeliveryPolicy  *DeliveryPolicy `json:"deliveryPolicy,omitempty"`
	Lines           LineConnection  `json:"lines"`
	DeliveryAddress *MailingAddress `json:"deliveryAddress,omitempty"`
}

type DeliveryPolicy struct {
	Interval      string `json:"interval"`
	IntervalCount int    `json:"intervalCount"`
}

type LineConnection struct {
	Edges []LineEdge `json:"edges"`
}

type LineEdge struct {
	Node ContractLine `json:"node"`
}

type ContractLine struct {
	ID        string `json:"id"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type MailingAddress struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

type contractQueryData struct {
	SubscriptionContract *SubscriptionContract `json:"subscriptionContract"`
}

type contractMutationPayload struct {
	Contract   *SubscriptionContract `json:"contract"`
	UserErrors []UserError           `json:"userErrors"`
}
