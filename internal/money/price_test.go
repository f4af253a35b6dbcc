package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrice(t *testing.T) {
	p, err := NewPrice(decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("19.99")))

	// Sub-cent precision rounds half-up.
	p, err = NewPrice(decimal.RequireFromString("19.995"))
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("20.00")), "got %s", p)

	p, err = NewPrice(decimal.RequireFromString("19.994"))
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("19.99")), "got %s", p)

	_, err = NewPrice(decimal.RequireFromString("-0.01"))
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestTotalExact(t *testing.T) {
	price := decimal.RequireFromString("30.00")
	total := Total(price, 2)
	assert.True(t, total.Equal(decimal.RequireFromString("60.00")), "got %s", total)

	// The classic float trap: 0.10 * 3 must be exactly 0.30.
	total = Total(decimal.RequireFromString("0.10"), 3)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
}

func TestTotalStable(t *testing.T) {
	price := decimal.RequireFromString("7.77")
	first := Total(price, 13)
	for i := 0; i < 100; i++ {
		assert.True(t, first.Equal(Total(price, 13)))
	}
}
