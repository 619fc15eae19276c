package cohorts

import (
	"strings"

	"github.com/swipestats/migrator/swipestats/database/models"
)

var countryAliases = map[string]string{
	"us":                       "united states",
	"usa":                      "united states",
	"u.s.":                     "united states",
	"u.s.a.":                   "united states",
	"united states of america": "united states",
	"uk":                       "united kingdom",
	"gb":                       "united kingdom",
	"great britain":            "united kingdom",
	"england":                  "united kingdom",
	"de":                       "germany",
	"deutschland":              "germany",
	"no":                       "norway",
	"norge":                    "norway",
}

func normalizePlace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeCountry(s string) string {
	n := normalizePlace(s)
	if alias, ok := countryAliases[n]; ok {
		return alias
	}
	return n
}

// matchesGeography applies the cohort's optional country and region after
// normalization. A profile without a value never matches a set filter.
func matchesGeography(def *models.CohortDefinition, c Candidate) bool {
	if def.Country != nil && normalizePlace(*def.Country) != "" {
		if c.Country == nil || normalizeCountry(*c.Country) != normalizeCountry(*def.Country) {
			return false
		}
	}
	if def.Region != nil && normalizePlace(*def.Region) != "" {
		if c.Region == nil || normalizePlace(*c.Region) != normalizePlace(*def.Region) {
			return false
		}
	}
	return true
}
