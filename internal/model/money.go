package model

import "github.com/shopspring/decimal"

// Currency amounts are written to clients as JSON numbers (50.5, not "50.5"),
// matching what storefront clients already parse.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyPlaces is the number of fractional digits stored for prices and totals.
const MoneyPlaces = 2

// IsMoney reports whether d needs no more than MoneyPlaces fractional
// digits, so storing it as DECIMAL(10,2) loses nothing.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}
