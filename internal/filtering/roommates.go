package filtering

import (
	"strings"

	"github.com/samber/lo"

	"github.com/safestay/safestay/internal/catalog"
)

// RoommateQuery carries the active filter values for roommate discovery.
// Multi-select dimensions (branches, hobbies) use ANY-match semantics: a
// profile passes when it shares at least one selected label.
type RoommateQuery struct {
	Search   string
	Year     string
	Branches []string
	Hobbies  []string
}

// RoommateSteps builds the roommate filter pipeline for the query.
func RoommateSteps(q RoommateQuery) []Filter[*catalog.Profile] {
	return []Filter[*catalog.Profile]{
		NewProfileSearch(q.Search),
		NewYear(q.Year),
		NewBranches(q.Branches),
		NewHobbies(q.Hobbies),
	}
}

// NewProfileSearch matches a case-insensitive substring against the profile
// name.
func NewProfileSearch(query string) Filter[*catalog.Profile] {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return passThrough[*catalog.Profile]("search", "empty query")
	}

	return &predicateFilter[*catalog.Profile]{
		name: "search",
		keep: func(p *catalog.Profile) bool {
			return strings.Contains(strings.ToLower(p.Name), query)
		},
	}
}

// NewYear keeps profiles from the selected year of study.
func NewYear(year string) Filter[*catalog.Profile] {
	year = strings.TrimSpace(year)
	if year == "" || strings.EqualFold(year, "any") || strings.EqualFold(year, sentinelAll) {
		return passThrough[*catalog.Profile]("year", "no year selected")
	}

	return &predicateFilter[*catalog.Profile]{
		name: "year",
		keep: func(p *catalog.Profile) bool { return p.Year == year },
	}
}

// NewBranches keeps profiles whose branch is one of the selected branches.
func NewBranches(branches []string) Filter[*catalog.Profile] {
	branches = lo.Compact(branches)
	if len(branches) == 0 {
		return passThrough[*catalog.Profile]("branches", "no branches selected")
	}

	return &predicateFilter[*catalog.Profile]{
		name: "branches",
		keep: func(p *catalog.Profile) bool { return lo.Contains(branches, p.Branch) },
	}
}

// NewHobbies keeps profiles sharing at least one of the selected hobbies.
func NewHobbies(hobbies []string) Filter[*catalog.Profile] {
	hobbies = lo.Compact(hobbies)
	if len(hobbies) == 0 {
		return passThrough[*catalog.Profile]("hobbies", "no hobbies selected")
	}

	return &predicateFilter[*catalog.Profile]{
		name: "hobbies",
		keep: func(p *catalog.Profile) bool {
			return lo.Some(p.Hobbies, hobbies)
		},
	}
}
