package importer

import "strings"

// UnknownCountry is the fallback country for auto-created destinations whose
// city is not in the lookup table.
const UnknownCountry = "Unknown"

// cityCountries maps well-known destination cities and regions to their
// country. Used only to pick a sensible default when a destination is
// auto-created during property import.
var cityCountries = map[string]string{
	"mallorca":  "Spain",
	"ibiza":     "Spain",
	"menorca":   "Spain",
	"barcelona": "Spain",
	"valencia":  "Spain",
	"marbella":  "Spain",
	"malaga":    "Spain",
	"tenerife":  "Spain",
	"lisbon":    "Portugal",
	"porto":     "Portugal",
	"algarve":   "Portugal",
	"nice":      "France",
	"paris":     "France",
	"cannes":    "France",
	"rome":      "Italy",
	"florence":  "Italy",
	"venice":    "Italy",
	"athens":    "Greece",
	"santorini": "Greece",
	"mykonos":   "Greece",
	"dubrovnik": "Croatia",
	"split":     "Croatia",
	"london":    "United Kingdom",
	"berlin":    "Germany",
	"vienna":    "Austria",
	"amsterdam": "Netherlands",
}

// CountryForCity returns the country for a known city name, case-insensitive,
// or UnknownCountry when the city is not in the table.
func CountryForCity(city string) string {
	if country, ok := cityCountries[strings.ToLower(strings.TrimSpace(city))]; ok {
		return country
	}
	return UnknownCountry
}
