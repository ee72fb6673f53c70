package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemLine(t *testing.T) {
	item := CartItem{
		ID:        "ci-1",
		ProductID: "p-1",
		Quantity:  5,
		Product:   Product{ID: "p-1", Name: "Mouse", Price: decimal.NewFromInt(100)},
	}
	line := item.Line()
	assert.Equal(t, "p-1", line.ProductID)
	assert.Equal(t, "ci-1", line.CartItemID)
	assert.Equal(t, DefaultImageURL, line.ImageURL)
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(500)))
}

func TestPriceMarshalsAsNumber(t *testing.T) {
	b, err := json.Marshal(Product{Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":19.99`)
}

func TestUserPublicOmitsHash(t *testing.T) {
	u := User{ID: "u-1", Email: "a@example.com", PasswordHash: "$2a$10$secret", Role: RoleUser}
	b, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	b, err = json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
}

func TestValidPrice(t *testing.T) {
	tests := []struct {
		price string
		want  bool
	}{
		{"19.99", true},
		{"1.50", true},
		{"1.500", true},
		{"9999999999.99", true},
		{"0", false},
		{"-1", false},
		{"0.001", false},
		{"19.999", false},
		{"10000000000", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPrice(decimal.RequireFromString(tt.price)), tt.price)
	}
}
