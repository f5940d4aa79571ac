package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "1.00", Format(100))
	assert.Equal(t, "1234.56", Format(123456))
	assert.Equal(t, "-1234.56", Format(-123456))
	assert.Equal(t, "-0.07", Format(-7))
}

func TestFormatWithCurrency(t *testing.T) {
	assert.Equal(t, "1234.56 EUR", FormatWithCurrency(123456, "EUR"))
	assert.Equal(t, "-0.50 USD", FormatWithCurrency(-50, "USD"))
}
