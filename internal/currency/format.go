package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// zeroDecimalCurrencies quote whole units only.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// FormatPrice renders an amount with the country's currency symbol and
// locale-appropriate digit grouping (Indian lakh/crore grouping for en-IN).
func FormatPrice(amount float64, countryCode string) string {
	c := CountryByCode(countryCode)

	tag, err := language.Parse(c.Locale)
	if err != nil {
		tag = language.English
	}

	decimals := 2
	if zeroDecimalCurrencies[c.CurrencyCode] {
		decimals = 0
	}

	p := message.NewPrinter(tag)
	formatted := p.Sprint(number.Decimal(amount,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
	return c.CurrencySymbol + formatted
}
