package app

import "munchen_mate/internal/domain"

// FindRoute returns the first route whose endpoints equal from and to
// exactly. A miss is reported through ok, never as an error.
func FindRoute(routes []domain.TransportRoute, from, to string) (route domain.TransportRoute, ok bool) {
	for _, r := range routes {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return domain.TransportRoute{}, false
}

type RouteEndpoints struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

// Endpoints lists the distinct origins and destinations in first-seen order.
func Endpoints(routes []domain.TransportRoute) RouteEndpoints {
	out := RouteEndpoints{Origins: []string{}, Destinations: []string{}}
	seenFrom, seenTo := map[string]bool{}, map[string]bool{}
	for _, r := range routes {
		if !seenFrom[r.From] {
			seenFrom[r.From] = true
			out.Origins = append(out.Origins, r.From)
		}
		if !seenTo[r.To] {
			seenTo[r.To] = true
			out.Destinations = append(out.Destinations, r.To)
		}
	}
	return out
}
