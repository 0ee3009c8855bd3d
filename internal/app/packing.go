package app

import (
	"fmt"

	"munchen_mate/internal/domain"
)

type PackingRequest struct {
	Days         int          `json:"days"`
	TemperatureC int          `json:"temperature_c"`
	Raining      bool         `json:"raining"`
	Sunny        bool         `json:"sunny"`
	Style        domain.Style `json:"style"`
}

type PackedItem struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
	Label    string `json:"label"`
}

type PackingGroup struct {
	Category string       `json:"category"`
	Items    []PackedItem `json:"items"`
}

type PackingList struct {
	Days         int            `json:"days"`
	TemperatureC int            `json:"temperature_c"`
	Style        domain.Style   `json:"style"`
	Groups       []PackingGroup `json:"groups"`
}

// Compose filters the clothing catalog for the trip and groups the result
// by category in first-seen order, keeping catalog order within a group.
func Compose(catalog []domain.ClothingItem, req PackingRequest) PackingList {
	req.Days = tripDays(req.Days)
	if req.Style == domain.StyleAny {
		req.Style = domain.StyleCasual
	}

	out := PackingList{Days: req.Days, TemperatureC: req.TemperatureC, Style: req.Style}
	index := map[string]int{}
	for _, it := range catalog {
		if !packable(it, req) {
			continue
		}
		gi, ok := index[it.Category]
		if !ok {
			gi = len(out.Groups)
			index[it.Category] = gi
			out.Groups = append(out.Groups, PackingGroup{Category: it.Category})
		}
		qty := it.Rule.Quantity(req.Days)
		label := it.Item
		if it.Rule != domain.RuleFixed {
			label = fmt.Sprintf("%dx %s", qty, it.Item)
		}
		out.Groups[gi].Items = append(out.Groups[gi].Items, PackedItem{Item: it.Item, Quantity: qty, Label: label})
	}
	return out
}

func packable(it domain.ClothingItem, req PackingRequest) bool {
	if req.TemperatureC < it.MinTemp || req.TemperatureC > it.MaxTemp {
		return false
	}
	switch it.Condition {
	case domain.ConditionNone:
	case domain.ConditionRain:
		if !req.Raining {
			return false
		}
	case domain.ConditionSun:
		if !req.Sunny {
			return false
		}
	default:
		return false
	}
	return it.Style != domain.StyleFormal || req.Style == domain.StyleFormal
}
