package catalog

import (
	"fmt"
	"strings"
)

// countryISOMap resolves the human-facing label prefix for autoId values.
// Keys follow the collector's own (Portuguese) country naming.
var countryISOMap = map[string]string{
	"Portugal":    "PT",
	"Espanha":     "ES",
	"Brasil":      "BR",
	"EUA":         "US",
	"Reino Unido": "UK",
	"França":      "FR",
	"Itália":      "IT",
	"Alemanha":    "DE",
	"Japão":       "JP",
	"China":       "CN",
	"Austrália":   "AU",
}

// LotteryTypes lists the suggested ticket types offered by the entry form.
var LotteryTypes = []string{
	"Lotaria Nacional",
	"Raspadinha / Instantânea",
	"Lotaria de Caridade",
	"Rifa",
	"Lotaria Estatal",
	"Lotaria Regional",
}

// CountryPrefix returns the ISO-style label prefix for a country, falling
// back to the first two letters of the name when the country is unmapped.
func CountryPrefix(country string) string {
	trimmed := strings.TrimSpace(country)
	if code, ok := countryISOMap[trimmed]; ok {
		return code
	}
	runes := []rune(strings.ToUpper(trimmed))
	if len(runes) >= 2 {
		return string(runes[:2])
	}
	if len(runes) == 1 {
		return string(runes) + "X"
	}
	return "XX"
}

// formatAutoID builds the human-facing sequence label, e.g. "PT-0042".
func formatAutoID(country string, sequence int) string {
	return fmt.Sprintf("%s-%04d", CountryPrefix(country), sequence)
}
