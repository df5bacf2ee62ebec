package pricing

import "math"

const (
	CurrencyBDT = "BDT"
	CurrencyUSD = "USD"
)

// Converter is the single exchange-rate source of truth. Both checkout
// totals and the gateway amount go through the same instance, so the two
// never disagree on a rate.
type Converter struct {
	bdtPerUSD float64
}

func NewConverter(bdtPerUSD float64) *Converter {
	if bdtPerUSD <= 0 {
		bdtPerUSD = 110
	}
	return &Converter{bdtPerUSD: bdtPerUSD}
}

// Convert translates amount between BDT and USD. Same-currency conversion
// is the identity; amounts are not rounded here.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	if from == CurrencyUSD && to == CurrencyBDT {
		return amount * c.bdtPerUSD
	}
	if from == CurrencyBDT && to == CurrencyUSD {
		return amount / c.bdtPerUSD
	}
	return amount
}

// Round snaps an amount to the currency's natural precision: whole taka for
// BDT, cents for USD. Only display and outbound gateway amounts are rounded;
// intermediate computation keeps full precision.
func (c *Converter) Round(amount float64, currency string) float64 {
	if currency == CurrencyBDT {
		return math.Round(amount)
	}
	return math.Round(amount*100) / 100
}
