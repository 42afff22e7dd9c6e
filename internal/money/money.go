// Package money renders amounts for display in the user's locale and currency.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultLocale   = "en-US"
	DefaultCurrency = "USD"
)

// Currency is one entry of the currency picker.
type Currency struct {
	Code   string
	Name   string
	Symbol string
	Locale string
}

var supported = []Currency{
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Locale: "en-IN"},
	{Code: "USD", Name: "US Dollar", Symbol: "$", Locale: "en-US"},
	{Code: "EUR", Name: "Euro", Symbol: "€", Locale: "en-EU"},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Locale: "en-GB"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Locale: "ja-JP"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Locale: "en-AU"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Locale: "en-CA"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Locale: "zh-CN"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Locale: "en-SG"},
	{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ", Locale: "ar-AE"},
	{Code: "SAR", Name: "Saudi Riyal", Symbol: "﷼", Locale: "ar-SA"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Locale: "pt-BR"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "Mex$", Locale: "es-MX"},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R", Locale: "en-ZA"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Locale: "ko-KR"},
}

var regionCurrency = map[string]string{
	"IN": "INR",
	"US": "USD",
	"GB": "GBP",
	"EU": "EUR",
	"JP": "JPY",
	"CA": "CAD",
	"AU": "AUD",
	"CN": "CNY",
	"BR": "BRL",
	"RU": "RUB",
	"ZA": "ZAR",
	"MX": "MXN",
	"KR": "KRW",
	"SG": "SGD",
	"AE": "AED",
}

// Supported returns the currencies offered in the picker, in display order.
func Supported() []Currency {
	return append([]Currency(nil), supported...)
}

// Lookup returns the picker entry for code.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range supported {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// ValidCode reports whether code is an ISO 4217 currency code.
func ValidCode(code string) bool {
	_, err := currency.ParseISO(strings.TrimSpace(code))
	return err == nil
}

// ForLocale picks a default currency for a BCP 47 locale from its region.
// Unknown or region-less locales get USD.
func ForLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultCurrency
	}
	region, conf := tag.Region()
	if conf == language.No {
		return DefaultCurrency
	}
	if code, ok := regionCurrency[region.String()]; ok {
		return code
	}
	return DefaultCurrency
}

// NormalizeLocale returns the canonical form of locale, or DefaultLocale when it does not parse.
func NormalizeLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil || tag == language.Und {
		return DefaultLocale
	}
	return tag.String()
}

// Format renders amount in the given locale and currency, e.g. "$1,234.50" or "₹1,23,456.00".
// Digit grouping and separators follow the locale; the number of decimals follows the
// currency. An invalid locale falls back to en-US and an invalid code to USD.
func Format(amount decimal.Decimal, locale, code string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.USD
	}
	scale, _ := currency.Standard.Rounding(unit)

	symbol := unit.String()
	if c, ok := Lookup(unit.String()); ok {
		symbol = c.Symbol
	}

	rounded := amount.Round(int32(scale))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	p := message.NewPrinter(tag)
	digits := p.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	return sign + symbol + digits
}
