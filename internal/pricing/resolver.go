package pricing

import "storefront/internal/models"

// PriceBundle holds the four optional price fields that feed unit-price
// resolution for one cart line in one currency. A nil or non-positive field
// counts as unset; admin tooling writes 0 for "no price", so a zero is not
// distinguishable from missing.
type PriceBundle struct {
	VariantSale    *float64
	VariantRegular *float64
	ProductSale    *float64
	ProductRegular *float64
}

// Resolve returns the unit price for a bundle. Precedence: variant sale,
// variant regular, product sale, product regular. Variant-level prices win
// over product-level prices regardless of sale status. A fully-missing
// bundle resolves to 0 rather than erroring; catching that is a
// data-quality concern for validation above this layer.
func Resolve(b PriceBundle) float64 {
	for _, p := range []*float64{b.VariantSale, b.VariantRegular, b.ProductSale, b.ProductRegular} {
		if p != nil && *p > 0 {
			return *p
		}
	}
	return 0
}

// BundleFor extracts the price bundle of a product (and optional variant)
// for the given currency.
func BundleFor(product *models.Product, variant *models.Variant, currency string) PriceBundle {
	var b PriceBundle
	if currency == CurrencyUSD {
		b.ProductSale = product.SalePriceUSD
		b.ProductRegular = product.PriceUSD
		if variant != nil {
			b.VariantSale = variant.SalePriceUSD
			b.VariantRegular = variant.PriceUSD
		}
		return b
	}
	b.ProductSale = product.SalePriceBDT
	b.ProductRegular = product.PriceBDT
	if variant != nil {
		b.VariantSale = variant.SalePriceBDT
		b.VariantRegular = variant.PriceBDT
	}
	return b
}

// UnitPrice resolves the price of a product/variant pair in the given
// currency, converting from the other currency when the requested one has
// no price data at all.
func UnitPrice(product *models.Product, variant *models.Variant, currency string, conv *Converter) float64 {
	if price := Resolve(BundleFor(product, variant, currency)); price > 0 {
		return price
	}
	other := CurrencyBDT
	if currency == CurrencyBDT {
		other = CurrencyUSD
	}
	if price := Resolve(BundleFor(product, variant, other)); price > 0 {
		return conv.Convert(price, other, currency)
	}
	return 0
}
