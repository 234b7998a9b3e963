package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultZeroDecimal lists the currencies Stripe charges without a minor unit.
var DefaultZeroDecimal = []string{
	"BIF", "CLP", "DJF", "GNF", "JPY", "KMF", "KRW", "MGA",
	"PYG", "RWF", "UGX", "VND", "VUV", "XAF", "XOF", "XPF",
}

var hundred = decimal.NewFromInt(100)

// Denominations knows which currencies have no minor unit.
type Denominations struct {
	zeroDecimal map[string]struct{}
}

func NewDenominations(zeroDecimal []string) *Denominations {
	if len(zeroDecimal) == 0 {
		zeroDecimal = DefaultZeroDecimal
	}
	set := make(map[string]struct{}, len(zeroDecimal))
	for _, code := range zeroDecimal {
		set[strings.ToUpper(code)] = struct{}{}
	}
	return &Denominations{zeroDecimal: set}
}

func (d *Denominations) IsZeroDecimal(currency string) bool {
	_, ok := d.zeroDecimal[strings.ToUpper(currency)]
	return ok
}

// ToMinorUnits rounds half away from zero to the smallest chargeable unit.
func (d *Denominations) ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	if d.IsZeroDecimal(currency) {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(hundred).Round(0).IntPart()
}

func (d *Denominations) FromMinorUnits(minor int64, currency string) decimal.Decimal {
	amount := decimal.NewFromInt(minor)
	if d.IsZeroDecimal(currency) {
		return amount
	}
	return amount.Div(hundred)
}

// FormatAmount renders "17.48 EUR" or "1500 JPY".
func (d *Denominations) FormatAmount(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(currency)
	places := int32(2)
	if d.IsZeroDecimal(currency) {
		places = 0
	}
	return amount.StringFixed(places) + " " + currency
}
