// Package currency maintains the exchange-rate table and the selected base
// currency, and exposes conversion and formatting helpers.
//
// Every stored rate is anchored to the pivot currency: rates[code] is the
// number of units of code per one unit of the pivot, regardless of which
// base currency is selected. Converting between two non-pivot codes goes
// through the pivot.
package currency

import "errors"

// PivotCurrency is the anchor all rates are expressed against. The table
// happens to work for cross-currency conversion only because of this fixed
// anchor, so it is named rather than left implicit.
const PivotCurrency = "USD"

// ErrUnknownRate is returned when a conversion references a code with no
// rate in the table. A missing rate means a fetch or configuration problem
// and is never silently treated as 1.
var ErrUnknownRate = errors.New("no exchange rate for currency")

// Info describes a supported currency for formatting purposes.
type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies lists the supported codes in display order.
func Currencies() []Info {
	return []Info{
		{Code: "USD", Symbol: "$", Name: "US Dollar"},
		{Code: "EUR", Symbol: "€", Name: "Euro"},
		{Code: "GBP", Symbol: "£", Name: "British Pound"},
		{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
		{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
		{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
		{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
		{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
		{Code: "ZAR", Symbol: "R", Name: "South African Rand"},
		{Code: "ZMW", Symbol: "ZK", Name: "Zambian Kwacha"},
	}
}

// DefaultRates is the built-in table used until a refresh succeeds, pivot
// anchored at 1.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"USD": 1,
		"EUR": 0.85,
		"GBP": 0.73,
		"JPY": 110.5,
		"CAD": 1.25,
		"AUD": 1.35,
		"INR": 74.5,
		"CNY": 6.45,
		"ZAR": 18.0,
		"ZMW": 22.0,
	}
}

// Supported reports whether code is a known currency.
func Supported(code string) bool {
	for _, c := range Currencies() {
		if c.Code == code {
			return true
		}
	}
	return false
}
