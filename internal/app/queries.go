package app

import (
	"context"
	"fmt"

	"munchen_mate/internal/domain"
)

type QueryService struct {
	catalog *Catalog
	planner *Planner
	pacer   Pacer
}

func NewQueryService(c *Catalog, p *Planner, pacer Pacer) *QueryService {
	if pacer == nil {
		pacer = NoDelay
	}
	return &QueryService{catalog: c, planner: p, pacer: pacer}
}

func (s *QueryService) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	return s.catalog.Attractions(ctx)
}

// Itinerary plans a trip for the session. sess may be nil when no result
// panel needs protecting (CLI use).
func (s *QueryService) Itinerary(ctx context.Context, sess *Session, req ItineraryRequest) (Itinerary, error) {
	tok := begin(sess, FeatureItinerary)
	all, err := s.catalog.Attractions(ctx)
	if err != nil {
		return Itinerary{}, err
	}
	out := s.planner.Plan(all, req)
	if err := s.deliver(ctx, sess, tok, true); err != nil {
		return Itinerary{}, err
	}
	return out, nil
}

func (s *QueryService) Packing(ctx context.Context, sess *Session, req PackingRequest) (PackingList, error) {
	tok := begin(sess, FeaturePacking)
	items, err := s.catalog.Clothing(ctx)
	if err != nil {
		return PackingList{}, err
	}
	out := Compose(items, req)
	if err := s.deliver(ctx, sess, tok, true); err != nil {
		return PackingList{}, err
	}
	return out, nil
}

// Phrases answers an empty query without touching the phrasebook.
func (s *QueryService) Phrases(ctx context.Context, sess *Session, query string) (PhraseSearch, error) {
	tok := begin(sess, FeaturePhrases)
	if res := SearchPhrases(nil, query); res.State == SearchNoQuery {
		return res, nil
	}
	book, err := s.catalog.Phrases(ctx)
	if err != nil {
		return PhraseSearch{}, err
	}
	out := SearchPhrases(book, query)
	if err := s.deliver(ctx, sess, tok, false); err != nil {
		return PhraseSearch{}, err
	}
	return out, nil
}

type RouteResult struct {
	From  string                 `json:"from"`
	To    string                 `json:"to"`
	Found bool                   `json:"found"`
	Route *domain.TransportRoute `json:"route,omitempty"`
}

func (s *QueryService) Route(ctx context.Context, sess *Session, from, to string) (RouteResult, error) {
	if from == "" || to == "" {
		return RouteResult{}, fmt.Errorf("%w: both a start and a destination are required", domain.ErrInvalidInput)
	}
	tok := begin(sess, FeatureTransport)
	routes, err := s.catalog.Routes(ctx)
	if err != nil {
		return RouteResult{}, err
	}
	out := RouteResult{From: from, To: to}
	if r, ok := FindRoute(routes, from, to); ok {
		out.Found, out.Route = true, &r
	}
	if err := s.deliver(ctx, sess, tok, true); err != nil {
		return RouteResult{}, err
	}
	return out, nil
}

func (s *QueryService) Endpoints(ctx context.Context) (RouteEndpoints, error) {
	routes, err := s.catalog.Routes(ctx)
	if err != nil {
		return RouteEndpoints{}, err
	}
	return Endpoints(routes), nil
}

func (s *QueryService) Expenses(sess *Session) ExpenseSummary {
	return sess.Expenses.Summary()
}

func begin(sess *Session, feature string) Token {
	if sess == nil {
		return Token{Feature: feature}
	}
	return sess.Tokens.Begin(feature)
}

// deliver paces the result and then drops it if a newer request for the
// same panel has been issued meanwhile.
func (s *QueryService) deliver(ctx context.Context, sess *Session, tok Token, paced bool) error {
	if paced {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
	}
	if sess != nil && !sess.Tokens.Current(tok) {
		return fmt.Errorf("%s request %d: %w", tok.Feature, tok.Seq, domain.ErrSuperseded)
	}
	return nil
}
