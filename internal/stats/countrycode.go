package stats

import "strings"

// countryCodes maps the country spellings the front desk actually enters
// (Mongolian and English) to ISO 3166-1 alpha-2 codes, lower-cased for the
// flag sprites on the dashboard.
var countryCodes = map[string]string{
	"Хятад":       "cn",
	"China":       "cn",
	"Орос":        "ru",
	"Russia":      "ru",
	"Солонгос":    "kr",
	"Korea":       "kr",
	"Korean":      "kr",
	"South Korea": "kr",
	"Япон":        "jp",
	"Japan":       "jp",
	"АНУ":         "us",
	"USA":         "us",
	"America":     "us",
	"Герман":      "de",
	"Germany":     "de",
	"Франц":       "fr",
	"France":      "fr",
	"Итали":       "it",
	"Italy":       "it",
	"Казахстан":   "kz",
	"Kazakhstan":  "kz",
	"Украйн":      "ua",
	"Ukraine":     "ua",
	"UK":          "gb",
	"Britain":     "gb",
	"Australia":   "au",
	"Canada":      "ca",
	"Poland":      "pl",
	"Turkey":      "tr",
	"Switzerland": "ch",
	"Монгол":      "mn",
	"Mongolia":    "mn",
}

// CountryCode returns the two-letter code for a country name. Unrecognized
// names fall back to the lower-cased first two runes of the name, which is
// at least stable for chart colouring.
func CountryCode(name string) string {
	if code, ok := countryCodes[name]; ok {
		return code
	}
	runes := []rune(strings.ToLower(name))
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}
