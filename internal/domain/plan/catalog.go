package plan

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/types"
)

// Key names a purchasable subscription tier. The set of keys is closed and
// known at build time; an unknown key is a caller error.
type Key string

const (
	KeyStarter Key = "starter"
	KeyPro     Key = "pro"
	KeyMax     Key = "max"
)

// ParseKey validates a raw plan key from a request.
func ParseKey(raw string) (Key, error) {
	k := Key(raw)
	switch k {
	case KeyStarter, KeyPro, KeyMax:
		return k, nil
	default:
		return "", ierr.NewErrorf("unknown plan: %s", raw).
			WithHint("Plan must be one of starter, pro, max").
			WithReportableDetails(map[string]any{"plan": raw}).
			Mark(ierr.ErrValidation)
	}
}

// Config is one purchasable tier.
type Config struct {
	Key          Key                   `json:"key"`
	DisplayName  string                `json:"display_name"`
	PackSize     int                   `json:"pack_size"`
	Interval     types.BillingInterval `json:"interval"`
	VariantGID   string                `json:"variant_gid"`
	MonthlyPrice decimal.Decimal       `json:"monthly_price"`
}

// Catalog is an immutable lookup table of purchasable tiers. It is built
// once at startup and injected into the orchestrators.
type Catalog struct {
	configs map[Key]Config
	order   []Key
}

// NewCatalog builds a catalog from the given configs, preserving order for
// listings.
func NewCatalog(configs ...Config) Catalog {
	c := Catalog{configs: make(map[Key]Config, len(configs))}
	for _, cfg := range configs {
		if _, ok := c.configs[cfg.Key]; ok {
			continue
		}
		c.configs[cfg.Key] = cfg
		c.order = append(c.order, cfg.Key)
	}
	return c
}

// DefaultCatalog returns the production plan table. The pro tier bills every
// two weeks; the max tier delivers the extended formula, which is a
// different variant than starter and pro.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Config{
			Key:          KeyStarter,
			DisplayName:  "Starter",
			PackSize:     30,
			Interval:     types.BillingInterval{Unit: types.IntervalUnitWeek, Count: 1},
			VariantGID:   "gid://shopify/ProductVariant/44120347771001",
			MonthlyPrice: decimal.NewFromInt(29),
		},
		Config{
			Key:          KeyPro,
			DisplayName:  "Pro",
			PackSize:     60,
			Interval:     types.BillingInterval{Unit: types.IntervalUnitWeek, Count: 2},
			VariantGID:   "gid://shopify/ProductVariant/44120347771001",
			MonthlyPrice: decimal.NewFromInt(49),
		},
		Config{
			Key:          KeyMax,
			DisplayName:  "Max",
			PackSize:     90,
			Interval:     types.BillingInterval{Unit: types.IntervalUnitMonth, Count: 1},
			VariantGID:   "gid://shopify/ProductVariant/44120347771063",
			MonthlyPrice: decimal.NewFromInt(79),
		},
	)
}

// Get returns the config for a key. Unknown keys are rejected before any
// network call is made.
func (c Catalog) Get(key Key) (Config, error) {
	cfg, ok := c.configs[key]
	if !ok {
		return Config{}, ierr.NewErrorf("unknown plan: %s", key).
			WithHint("Plan must be one of starter, pro, max").
			WithReportableDetails(map[string]any{"plan": string(key)}).
			Mark(ierr.ErrValidation)
	}
	return cfg, nil
}

// List returns all configs in catalog order.
func (c Catalog) List() []Config {
	return lo.Map(c.order, func(k Key, _ int) Config {
		return c.configs[k]
	})
}

// Match finds the tier a live subscription corresponds to, by billing
// interval and delivered variant. Returns false when the subscription does
// not line up with any known tier (legacy cadences, manual support edits).
func (c Catalog) Match(interval types.BillingInterval, variantGID string) (Config, bool) {
	for _, k := range c.order {
		cfg := c.configs[k]
		if cfg.Interval == interval && (variantGID == "" || cfg.VariantGID == variantGID) {
			return cfg, true
		}
	}
	return Config{}, false
}
