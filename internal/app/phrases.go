package app

import (
	"strings"

	"munchen_mate/internal/domain"
)

type SearchState string

const (
	SearchNoQuery   SearchState = "no_query"
	SearchNoMatches SearchState = "no_matches"
	SearchMatches   SearchState = "matches"
)

type PhraseSearch struct {
	Query   string          `json:"query"`
	State   SearchState     `json:"state"`
	Phrases []domain.Phrase `json:"phrases"`
}

// SearchPhrases matches the query case-insensitively against the English,
// Spanish and category fields. Results keep phrasebook order.
func SearchPhrases(phrasebook []domain.Phrase, query string) PhraseSearch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return PhraseSearch{State: SearchNoQuery}
	}
	out := PhraseSearch{Query: q, State: SearchNoMatches, Phrases: []domain.Phrase{}}
	for _, p := range phrasebook {
		if strings.Contains(strings.ToLower(p.English), q) ||
			strings.Contains(strings.ToLower(p.Spanish), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out.Phrases = append(out.Phrases, p)
		}
	}
	if len(out.Phrases) > 0 {
		out.State = SearchMatches
	}
	return out
}
