// Package money formats amounts stored as integer minor units.
package money

import "fmt"

// Format renders a minor-unit amount as a decimal string, e.g. 123456 ->
// "1234.56". All supported currencies use two decimal places.
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// FormatWithCurrency appends the currency code, e.g. "1234.56 EUR".
func FormatWithCurrency(minor int64, currency string) string {
	if currency == "" {
		return Format(minor)
	}
	return Format(minor) + " " + currency
}
