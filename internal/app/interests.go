package app

import (
	"strings"

	"munchen_mate/internal/domain"
)

// InterestTable maps an interest key to the tag keywords that satisfy it.
// An interest missing from the table matches itself.
type InterestTable map[string][]string

func DefaultInterests() InterestTable {
	return InterestTable{
		"art":      {"art", "museum"},
		"history":  {"history", "royal"},
		"food":     {"food", "beer"},
		"outdoor":  {"outdoor", "park"},
		"shopping": {"shopping", "market"},
	}
}

func (t InterestTable) Keywords(interest string) []string {
	if kw, ok := t[interest]; ok && len(kw) > 0 {
		return kw
	}
	return []string{interest}
}

// Matches reports whether any interest keyword occurs in the attraction's
// tags joined by single spaces, so a keyword may span adjacent tags.
func (t InterestTable) Matches(a domain.Attraction, interests []string) bool {
	tags := strings.Join(a.Tags, " ")
	for _, in := range interests {
		for _, kw := range t.Keywords(in) {
			if strings.Contains(tags, kw) {
				return true
			}
		}
	}
	return false
}
