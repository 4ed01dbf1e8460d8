package dto

import "github.com/herbloom/storefront/internal/domain/plan"

// ListPlansResponse lists the purchasable tiers in catalog order.
type ListPlansResponse struct {
	Items []plan.Config `json:"items"`
}
