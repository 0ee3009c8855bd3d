package app

import (
	"math/rand/v2"
	"strings"
	"sync"

	"munchen_mate/internal/domain"
)

const defaultTripDays = 3

// Upper bounds for trip length and day size. Larger requests are clamped.
const (
	MaxTripDays    = 60
	MaxItemsPerDay = 20
)

// tripDays coerces a requested trip length into [1, MaxTripDays].
func tripDays(n int) int {
	if n <= 0 {
		return defaultTripDays
	}
	return min(n, MaxTripDays)
}

// Shuffler permutes n elements in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

type ItineraryRequest struct {
	Days        int      `json:"days"`
	ItemsPerDay int      `json:"items_per_day"`
	Interests   []string `json:"interests"`
}

type DayPlan struct {
	Day         int                 `json:"day"`
	Attractions []domain.Attraction `json:"attractions"`
	// Free marks a day nothing was assigned to.
	Free bool `json:"free"`
}

type Itinerary struct {
	Days           []DayPlan `json:"days"`
	CandidateCount int       `json:"candidate_count"`
	FellBack       bool      `json:"fell_back"`
}

// Planner builds randomised day-by-day plans. The random source is not
// assumed to be safe for concurrent use, so Plan serialises on it.
type Planner struct {
	mu        sync.Mutex
	rng       Shuffler
	interests InterestTable
}

func NewPlanner(rng Shuffler, interests InterestTable) *Planner {
	if rng == nil {
		rng = globalRand{}
	}
	if interests == nil {
		interests = DefaultInterests()
	}
	return &Planner{rng: rng, interests: interests}
}

func (p *Planner) Plan(attractions []domain.Attraction, req ItineraryRequest) Itinerary {
	days, perDay := tripDays(req.Days), req.ItemsPerDay
	if perDay <= 0 {
		perDay = defaultTripDays
	}
	perDay = min(perDay, MaxItemsPerDay)

	candidates, fellBack := p.candidates(attractions, cleanInterests(req.Interests))

	p.mu.Lock()
	p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	p.mu.Unlock()

	out := Itinerary{
		Days:           make([]DayPlan, 0, min(days, defaultTripDays)),
		CandidateCount: len(candidates),
		FellBack:       fellBack,
	}
	next := 0
	for d := 1; d <= days; d++ {
		end := min(next+perDay, len(candidates))
		day := DayPlan{Day: d, Attractions: candidates[next:end:end]}
		if len(day.Attractions) == 0 {
			day.Attractions, day.Free = []domain.Attraction{}, true
		}
		next = end
		out.Days = append(out.Days, day)
	}
	return out
}

// candidates returns a fresh slice the caller may reorder.
func (p *Planner) candidates(all []domain.Attraction, interests []string) ([]domain.Attraction, bool) {
	if len(interests) == 0 {
		return append([]domain.Attraction(nil), all...), false
	}
	var out []domain.Attraction
	for _, a := range all {
		if p.interests.Matches(a, interests) {
			out = append(out, a)
		}
	}
	if len(out) > 0 {
		return out, false
	}
	for _, a := range all {
		if a.HasTag(domain.TagMustSee) {
			out = append(out, a)
		}
	}
	return out, true
}

func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
