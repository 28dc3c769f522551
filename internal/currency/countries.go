package currency

// Country is static reference data for a supported market.
type Country struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
	CurrencyName   string `json:"currency_name"`
	Flag           string `json:"flag"`
	Locale         string `json:"locale"`
}

// DefaultCountryCode is used whenever a stored country code is absent or not
// in the reference set.
const DefaultCountryCode = "IN"

// countries is the fixed reference set, loaded once at startup and never
// mutated.
var countries = []Country{
	{Code: "IN", Name: "India", CurrencyCode: "INR", CurrencySymbol: "₹", CurrencyName: "Indian Rupee", Flag: "🇮🇳", Locale: "en-IN"},
	{Code: "US", Name: "United States", CurrencyCode: "USD", CurrencySymbol: "$", CurrencyName: "US Dollar", Flag: "🇺🇸", Locale: "en-US"},
	{Code: "GB", Name: "United Kingdom", CurrencyCode: "GBP", CurrencySymbol: "£", CurrencyName: "Pound Sterling", Flag: "🇬🇧", Locale: "en-GB"},
	{Code: "DE", Name: "Germany", CurrencyCode: "EUR", CurrencySymbol: "€", CurrencyName: "Euro", Flag: "🇩🇪", Locale: "de-DE"},
	{Code: "FR", Name: "France", CurrencyCode: "EUR", CurrencySymbol: "€", CurrencyName: "Euro", Flag: "🇫🇷", Locale: "fr-FR"},
	{Code: "JP", Name: "Japan", CurrencyCode: "JPY", CurrencySymbol: "¥", CurrencyName: "Japanese Yen", Flag: "🇯🇵", Locale: "ja-JP"},
	{Code: "AU", Name: "Australia", CurrencyCode: "AUD", CurrencySymbol: "A$", CurrencyName: "Australian Dollar", Flag: "🇦🇺", Locale: "en-AU"},
	{Code: "CA", Name: "Canada", CurrencyCode: "CAD", CurrencySymbol: "C$", CurrencyName: "Canadian Dollar", Flag: "🇨🇦", Locale: "en-CA"},
	{Code: "SG", Name: "Singapore", CurrencyCode: "SGD", CurrencySymbol: "S$", CurrencyName: "Singapore Dollar", Flag: "🇸🇬", Locale: "en-SG"},
	{Code: "AE", Name: "United Arab Emirates", CurrencyCode: "AED", CurrencySymbol: "د.إ", CurrencyName: "UAE Dirham", Flag: "🇦🇪", Locale: "ar-AE"},
}

// byCode is an index over countries, built at init.
var byCode = func() map[string]Country {
	m := make(map[string]Country, len(countries))
	for _, c := range countries {
		m[c.Code] = c
	}
	return m
}()

// approximate exchange rates, units of currency per 1 USD.
var usdRates = map[string]float64{
	"USD": 1.0,
	"INR": 83.0,
	"GBP": 0.79,
	"EUR": 0.92,
	"JPY": 148.0,
	"AUD": 1.52,
	"CAD": 1.36,
	"SGD": 1.34,
	"AED": 3.67,
}

// Countries returns the full reference set in display order.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// CountryByCode resolves a country code, falling back to the default country
// when the code is unknown or empty. It never fails.
func CountryByCode(code string) Country {
	if c, ok := byCode[code]; ok {
		return c
	}
	return byCode[DefaultCountryCode]
}

// IsSupported reports whether a country code is in the reference set.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Convert converts an amount between two supported currencies using the
// static approximate rates. Unknown currencies convert at 1:1.
func Convert(amount float64, from, to string) float64 {
	fromRate, ok := usdRates[from]
	if !ok {
		fromRate = 1.0
	}
	toRate, ok := usdRates[to]
	if !ok {
		toRate = 1.0
	}
	return amount / fromRate * toRate
}
