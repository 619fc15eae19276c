package cohorts

import (
	"testing"

	"github.com/swipestats/migrator/swipestats/database/models"
)

func strp(s string) *string { return &s }

func TestDefinitions(t *testing.T) {
	defs := Definitions()

	// everyone + 2 genders x (all + 5 brackets) + geographies
	if len(defs) != 14 {
		t.Fatalf("expected 14 definitions, got %d", len(defs))
	}

	seen := map[string]bool{}
	for _, d := range defs {
		if seen[d.ID] {
			t.Errorf("duplicate cohort id %s", d.ID)
		}
		seen[d.ID] = true
		if d.Type != models.CohortTypeSystem {
			t.Errorf("%s: expected system cohort", d.ID)
		}
	}

	for _, id := range []string{"everyone", "female", "male", "male-18-24", "female-45-plus", "male-35-plus"} {
		if !seen[id] {
			t.Errorf("missing cohort %s", id)
		}
	}

	byID := map[string]*models.CohortDefinition{}
	for _, d := range defs {
		byID[d.ID] = d
	}
	if d := byID["male-35-plus"]; d.AgeMax != nil || *d.AgeMin != 35 || *d.Gender != models.GenderMale {
		t.Errorf("male-35-plus has wrong bounds: %+v", d)
	}
	if d := byID["everyone"]; d.Gender != nil || d.AgeMin != nil || d.Country != nil {
		t.Errorf("everyone should be unfiltered: %+v", d)
	}
	if d := byID["everyone-us"]; d == nil || d.Country == nil || d.Gender != nil {
		t.Errorf("everyone-us should filter on country only: %+v", d)
	} else if !matchesGeography(d, Candidate{Country: strp("USA")}) || matchesGeography(d, Candidate{Country: strp("Norway")}) {
		t.Errorf("everyone-us country filter does not resolve aliases")
	}
}

func TestFind(t *testing.T) {
	defs := Definitions()

	if got := Find(defs, "MALE"); len(got) != 1 || got[0].ID != "male" {
		t.Errorf("exact id lookup failed: %v", got)
	}

	got := Find(defs, "fem1824")
	if len(got) != 1 || got[0].ID != "female-18-24" {
		t.Errorf("fuzzy lookup returned %d results", len(got))
	}

	if got := Find(defs, ""); len(got) != len(defs) {
		t.Errorf("empty query should list everything, got %d", len(got))
	}
}

func TestMatchesGeography(t *testing.T) {
	tests := []struct {
		name string
		def  *models.CohortDefinition
		c    Candidate
		want bool
	}{
		{"no filter", &models.CohortDefinition{}, Candidate{}, true},
		{"alias", &models.CohortDefinition{Country: strp("United States")}, Candidate{Country: strp(" usa ")}, true},
		{"case and spaces", &models.CohortDefinition{Country: strp("norway"), Region: strp("Oslo")},
			Candidate{Country: strp("Norway"), Region: strp("  oslo")}, true},
		{"missing value", &models.CohortDefinition{Country: strp("US")}, Candidate{}, false},
		{"other region", &models.CohortDefinition{Region: strp("Bergen")}, Candidate{Region: strp("Oslo")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesGeography(tt.def, tt.c); got != tt.want {
				t.Errorf("matchesGeography() = %v, want %v", got, tt.want)
			}
		})
	}
}
