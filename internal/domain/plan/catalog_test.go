package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/types"
)

func TestParseKey(t *testing.T) {
	for _, valid := range []string{"starter", "pro", "max"} {
		k, err := ParseKey(valid)
		assert.NoError(t, err)
		assert.Equal(t, Key(valid), k)
	}

	for _, invalid := range []string{"", "premium", "STARTER", "pro "} {
		_, err := ParseKey(invalid)
		require.Error(t, err, "input %q", invalid)
		assert.True(t, ierr.IsValidation(err))
	}
}

func TestCatalogGet(t *testing.T) {
	catalog := DefaultCatalog()

	pro, err := catalog.Get(KeyPro)
	require.NoError(t, err)
	assert.Equal(t, "Pro", pro.DisplayName)
	assert.Equal(t, 60, pro.PackSize)
	assert.Equal(t, types.BillingInterval{Unit: types.IntervalUnitWeek, Count: 2}, pro.Interval)

	_, err = catalog.Get(Key("premium"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCatalogList_Order(t *testing.T) {
	keys := make([]Key, 0)
	for _, cfg := range DefaultCatalog().List() {
		keys = append(keys, cfg.Key)
	}
	assert.Equal(t, []Key{KeyStarter, KeyPro, KeyMax}, keys)
}

func TestCatalogMatch(t *testing.T) {
	catalog := DefaultCatalog()
	starter, _ := catalog.Get(KeyStarter)

	matched, ok := catalog.Match(starter.Interval, starter.VariantGID)
	require.True(t, ok)
	assert.Equal(t, KeyStarter, matched.Key)

	// Unknown variant on a known cadence does not match.
	_, ok = catalog.Match(starter.Interval, "gid://shopify/ProductVariant/0")
	assert.False(t, ok)

	// Empty variant matches on cadence alone.
	matched, ok = catalog.Match(types.BillingInterval{Unit: types.IntervalUnitMonth, Count: 1}, "")
	require.True(t, ok)
	assert.Equal(t, KeyMax, matched.Key)

	_, ok = catalog.Match(types.BillingInterval{Unit: types.IntervalUnitDay, Count: 10}, "")
	assert.False(t, ok)
}

func TestNewCatalog_IgnoresDuplicateKeys(t *testing.T) {
	catalog := NewCatalog(
		Config{Key: KeyStarter, DisplayName: "first"},
		Config{Key: KeyStarter, DisplayName: "second"},
	)

	cfg, err := catalog.Get(KeyStarter)
	require.NoError(t, err)
	assert.Equal(t, "first", cfg.DisplayName)
	assert.Len(t, catalog.List(), 1)
}
