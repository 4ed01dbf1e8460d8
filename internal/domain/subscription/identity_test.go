package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLoopID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "native id unchanged",
			input:    "sub_482915723",
			expected: "sub_482915723",
		},
		{
			name:     "contract gid",
			input:    "gid://shopify/SubscriptionContract/482915723",
			expected: "sub_482915723",
		},
		{
			name:     "contract gid with query",
			input:    "gid://shopify/SubscriptionContract/482915723?key=abc",
			expected: "sub_482915723",
		},
		{
			name:     "percent encoded contract gid",
			input:    "gid%3A%2F%2Fshopify%2FSubscriptionContract%2F482915723",
			expected: "sub_482915723",
		},
		{
			name:     "bare numeric",
			input:    "482915723",
			expected: "sub_482915723",
		},
		{
			name:     "surrounding whitespace",
			input:    "  sub_482915723  ",
			expected: "sub_482915723",
		},
		{
			name:     "unrecognized input unchanged",
			input:    "order_99x",
			expected: "order_99x",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "gid of another resource unchanged",
			input:    "gid://shopify/Order/123",
			expected: "gid://shopify/Order/123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToLoopID(tt.input))
		})
	}
}

func TestToLoopID_Idempotent(t *testing.T) {
	inputs := []string{
		"sub_1",
		"gid://shopify/SubscriptionContract/1",
		"gid%3A%2F%2Fshopify%2FSubscriptionContract%2F42",
		"12345",
		"",
		"random garbage !!",
		"%zz", // invalid percent encoding
	}
	for _, in := range inputs {
		once := ToLoopID(in)
		assert.Equal(t, once, ToLoopID(once), "input %q", in)
	}
}

func TestToContractGID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "gid unchanged",
			input:    "gid://shopify/SubscriptionContract/77",
			expected: "gid://shopify/SubscriptionContract/77",
		},
		{
			name:     "native id",
			input:    "sub_77",
			expected: "gid://shopify/SubscriptionContract/77",
		},
		{
			name:     "percent encoded gid",
			input:    "gid%3A%2F%2Fshopify%2FSubscriptionContract%2F77",
			expected: "gid://shopify/SubscriptionContract/77",
		},
		{
			name:     "bare numeric",
			input:    "77",
			expected: "gid://shopify/SubscriptionContract/77",
		},
		{
			name:     "unrecognized input unchanged",
			input:    "nope",
			expected: "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToContractGID(tt.input))
		})
	}
}

func TestNewRef_EitherIDSuffices(t *testing.T) {
	fromLoop := NewRef("sub_9001")
	fromGID := NewRef("gid://shopify/SubscriptionContract/9001")

	assert.Equal(t, fromLoop, fromGID)
	assert.Equal(t, "sub_9001", fromLoop.LoopID)
	assert.Equal(t, "gid://shopify/SubscriptionContract/9001", fromLoop.ContractGID)
}
