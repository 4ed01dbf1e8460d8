package subscription

import (
	"time"

	"github.com/herbloom/storefront/internal/domain/plan"
	"github.com/herbloom/storefront/internal/types"
)

// Ref identifies one subscription across both systems. Either id alone is
// enough to build a full Ref because translation is total.
type Ref struct {
	// LoopID is the authoritative (Loop) identifier, e.g. "sub_482915723".
	LoopID string `json:"loop_id"`
	// ContractGID is the Shopify subscription contract GID for the same
	// subscription.
	ContractGID string `json:"contract_gid"`
}

// NewRef builds a Ref from an identifier in either format.
func NewRef(anyID string) Ref {
	return Ref{
		LoopID:      ToLoopID(anyID),
		ContractGID: ToContractGID(anyID),
	}
}

// LineItem is one delivered product line on a subscription.
type LineItem struct {
	ID         string `json:"id"`
	VariantGID string `json:"variant_gid"`
	Quantity   int    `json:"quantity"`
}

// Address is the normalized delivery address shape. Both backends carry the
// same concepts under different field names.
type Address struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

// State is a normalized snapshot of a subscription, owned by whichever
// system most recently answered a read. It is built fresh on every read and
// never persisted locally.
type State struct {
	Ref             Ref                      `json:"ref"`
	Status          types.SubscriptionStatus `json:"status"`
	Interval        types.BillingInterval    `json:"interval"`
	CurrentPlan     *plan.Config             `json:"current_plan,omitempty"`
	LineItems       []LineItem               `json:"line_items"`
	NextBillingDate *time.Time               `json:"next_billing_date,omitempty"`
	DeliveryAddress *Address                 `json:"delivery_address,omitempty"`
}

// WriteLeg records the outcome of one leg of a dual write.
type WriteLeg struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DualWriteResult records the outcome of an operation that touches both
// systems. The two legs are tracked independently: mirror success is never
// inferred from authoritative success or vice versa.
type DualWriteResult struct {
	Authoritative WriteLeg `json:"authoritative"`
	Mirror        WriteLeg `json:"mirror"`
}

// Success reports overall operation success, which is defined as success of
// the authoritative leg alone. A failed mirror leg means the storefront view
// may lag until background reconciliation, not that the operation failed.
func (r DualWriteResult) Success() bool {
	return r.Authoritative.Success
}
