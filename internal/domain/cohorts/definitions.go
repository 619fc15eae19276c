package cohorts

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/swipestats/migrator/swipestats/config"
	"github.com/swipestats/migrator/swipestats/database/models"
)

type bracket struct {
	slug     string
	label    string
	min, max *int
}

func intp(v int) *int { return &v }

var brackets = []bracket{
	{"18-24", "18-24", intp(18), intp(24)},
	{"25-34", "25-34", intp(25), intp(34)},
	{"35-44", "35-44", intp(35), intp(44)},
	{"45-plus", "45+", intp(45), nil},
	{"35-plus", "35+", intp(35), nil},
}

var geographies = []struct {
	slug    string
	label   string
	country string
}{
	{"us", "the United States", "United States"},
}

// Definitions returns the system cohorts. The list is versioned by
// config.CohortSeedVersion; seeding never updates an existing row.
func Definitions() []*models.CohortDefinition {
	defs := []*models.CohortDefinition{
		systemCohort("everyone", "Everyone", "All profiles", nil, nil, nil),
	}

	for _, g := range []struct {
		gender models.Gender
		slug   string
		label  string
	}{
		{models.GenderFemale, "female", "Women"},
		{models.GenderMale, "male", "Men"},
	} {
		gender := g.gender
		defs = append(defs, systemCohort(g.slug, g.label, "All "+strings.ToLower(g.label), &gender, nil, nil))
		for _, b := range brackets {
			defs = append(defs, systemCohort(
				g.slug+"-"+b.slug,
				fmt.Sprintf("%s %s", g.label, b.label),
				fmt.Sprintf("%s aged %s at upload", g.label, b.label),
				&gender, b.min, b.max))
		}
	}

	for _, g := range geographies {
		def := systemCohort("everyone-"+g.slug, "Everyone in "+g.label, "All profiles from "+g.label, nil, nil, nil)
		country := g.country
		def.Country = &country
		defs = append(defs, def)
	}
	return defs
}

func systemCohort(id, name, description string, gender *models.Gender, ageMin, ageMax *int) *models.CohortDefinition {
	return &models.CohortDefinition{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        models.CohortTypeSystem,
		Gender:      gender,
		AgeMin:      ageMin,
		AgeMax:      ageMax,
		SeedVersion: config.CohortSeedVersion,
	}
}

type definitionSource []*models.CohortDefinition

func (d definitionSource) String(i int) string { return d[i].ID + " " + d[i].Name }
func (d definitionSource) Len() int            { return len(d) }

// Find resolves a query against cohort ids and names. An exact id wins,
// otherwise fuzzy matches are returned best first.
func Find(defs []*models.CohortDefinition, query string) []*models.CohortDefinition {
	query = strings.TrimSpace(query)
	if query == "" {
		return defs
	}
	for _, d := range defs {
		if strings.EqualFold(d.ID, query) {
			return []*models.CohortDefinition{d}
		}
	}

	matches := fuzzy.FindFrom(query, definitionSource(defs))
	out := make([]*models.CohortDefinition, 0, len(matches))
	for _, m := range matches {
		out = append(out, defs[m.Index])
	}
	return out
}
