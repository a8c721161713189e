package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaymentBreakdown(t *testing.T) {
	b, err := NewPaymentBreakdown(2500)

	assert.NoError(t, err)
	assert.Equal(t, 2500.0, b.Amount)
	assert.Equal(t, 125.0, b.PlatformFee)
	assert.Equal(t, 2625.0, b.Total)
}

func TestNewPaymentBreakdown_Rounding(t *testing.T) {
	b, err := NewPaymentBreakdown(99.99)

	assert.NoError(t, err)
	// 99.99 * 0.05 = 4.9995, округляется до 5.00
	assert.Equal(t, 5.0, b.PlatformFee)
	assert.Equal(t, 104.99, b.Total)
}

func TestNewPaymentBreakdown_NonPositive(t *testing.T) {
	_, err := NewPaymentBreakdown(0)
	assert.Error(t, err)

	_, err = NewPaymentBreakdown(-100)
	assert.Error(t, err)
}

func TestPaymentBreakdown_MinorUnits(t *testing.T) {
	b, err := NewPaymentBreakdown(2500)

	assert.NoError(t, err)
	assert.Equal(t, int64(262500), b.MinorUnits())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.99, Round2(4.994))
	assert.Equal(t, 5.0, Round2(4.996))
	assert.Equal(t, 0.1, Round2(0.1))
}
