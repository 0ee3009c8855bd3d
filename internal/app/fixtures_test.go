package app_test

import (
	"context"
	"errors"
	"sync/atomic"

	"munchen_mate/internal/domain"
)

func attractions() []domain.Attraction {
	return []domain.Attraction{
		{Name: "Deutsches Museum", Category: "Museum", Tags: []string{"museum", "science", "indoor"}},
		{Name: "Residenz", Category: "Palace", Tags: []string{"history", "royal", "must_see"}},
		{Name: "Viktualienmarkt", Category: "Market", Tags: []string{"food", "market", "must_see"}},
		{Name: "Englischer Garten", Category: "Park", Tags: []string{"outdoor", "park", "must_see"}},
		{Name: "Hofbräuhaus", Category: "Beer Hall", Tags: []string{"beer", "food"}},
		{Name: "Alte Pinakothek", Category: "Gallery", Tags: []string{"art", "museum"}},
		{Name: "BMW Welt", Category: "Showroom", Tags: []string{"cars", "indoor"}},
	}
}

func clothing() []domain.ClothingItem {
	return []domain.ClothingItem{
		{Item: "T-Shirts", Category: "Clothes", MinTemp: 10, MaxTemp: 40, Rule: domain.RuleOnePerDay},
		{Item: "Jeans", Category: "Clothes", MinTemp: -10, MaxTemp: 25, Rule: domain.RuleOnePer2Days},
		{Item: "Umbrella", Category: "Gear", MinTemp: -10, MaxTemp: 40, Condition: domain.ConditionRain, Rule: domain.RuleFixed},
		{Item: "Sunglasses", Category: "Gear", MinTemp: 5, MaxTemp: 40, Condition: domain.ConditionSun, Rule: domain.RuleFixed},
		{Item: "Blazer", Category: "Clothes", MinTemp: -5, MaxTemp: 25, Style: domain.StyleFormal, Rule: domain.RuleFixed},
		{Item: "Phone Charger", Category: "Electronics", MinTemp: -30, MaxTemp: 50, Rule: domain.RuleFixed},
		{Item: "Sweaters", Category: "Clothes", MinTemp: -20, MaxTemp: 15, Rule: domain.RuleOnePer3Days},
		{Item: "Snow Chains", Category: "Gear", MinTemp: -30, MaxTemp: 50, Condition: "snow", Rule: domain.RuleFixed},
	}
}

func phrases() []domain.Phrase {
	return []domain.Phrase{
		{German: "Ein Bier, bitte", English: "A beer, please", Spanish: "Una cerveza, por favor", Category: "Food", Context: "Beer gardens."},
		{German: "Hallo", English: "Hello", Spanish: "Hola", Category: "Greetings", Context: "Any time."},
		{German: "Wo ist der Bahnhof?", English: "Where is the train station?", Spanish: "¿Dónde está la estación?", Category: "Transport", Context: "Ask staff."},
		{German: "Leitungswasser", English: "Tap water", Spanish: "Agua del grifo", Category: "Food", Context: "Not always free."},
	}
}

func routes() []domain.TransportRoute {
	return []domain.TransportRoute{
		{From: "Airport", To: "Central Station", Mode: "S-Bahn", Line: "S8", Stops: []string{"Airport", "Ostbahnhof", "Central Station"}},
		{From: "Central Station", To: "Marienplatz", Mode: "S-Bahn", Line: "S1"},
		{From: "Airport", To: "Central Station", Mode: "Bus", Line: "Lufthansa Express"},
		{From: "Marienplatz", To: "Olympiapark", Mode: "U-Bahn", Line: "U3"},
	}
}

// fakeLoader counts loads per dataset and can fail on demand.
type fakeLoader struct {
	attractionLoads atomic.Int32
	fail            atomic.Bool
}

var errOffline = errors.New("offline")

func (f *fakeLoader) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	f.attractionLoads.Add(1)
	if f.fail.Load() {
		return nil, errors.Join(domain.ErrDataUnavailable, errOffline)
	}
	return attractions(), nil
}

func (f *fakeLoader) Clothing(ctx context.Context) ([]domain.ClothingItem, error) {
	if f.fail.Load() {
		return nil, errors.Join(domain.ErrDataUnavailable, errOffline)
	}
	return clothing(), nil
}

func (f *fakeLoader) Phrases(ctx context.Context) ([]domain.Phrase, error) {
	if f.fail.Load() {
		return nil, errors.Join(domain.ErrDataUnavailable, errOffline)
	}
	return phrases(), nil
}

func (f *fakeLoader) Routes(ctx context.Context) ([]domain.TransportRoute, error) {
	if f.fail.Load() {
		return nil, errors.Join(domain.ErrDataUnavailable, errOffline)
	}
	return routes(), nil
}
