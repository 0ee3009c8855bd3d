package domain

import "fmt"

type Condition string

const (
	ConditionNone Condition = ""
	ConditionRain Condition = "rain"
	ConditionSun  Condition = "sun"
)

type Style string

const (
	StyleAny    Style = ""
	StyleCasual Style = "casual"
	StyleFormal Style = "formal"
)

type QuantityRule string

const (
	RuleFixed       QuantityRule = "fixed"
	RuleOnePerDay   QuantityRule = "1_per_day"
	RuleOnePer2Days QuantityRule = "1_per_2_days"
	RuleOnePer3Days QuantityRule = "1_per_3_days"
)

// ClothingItem is one entry of the clothing dataset. The temperature
// range is inclusive, in whole degrees Celsius.
type ClothingItem struct {
	Item      string       `json:"item"`
	Category  string       `json:"category"`
	MinTemp   int          `json:"min_temp"`
	MaxTemp   int          `json:"max_temp"`
	Condition Condition    `json:"condition,omitempty"`
	Style     Style        `json:"style,omitempty"`
	Rule      QuantityRule `json:"rule"`
}

func (c ClothingItem) Validate() error {
	if c.MinTemp > c.MaxTemp {
		return fmt.Errorf("%w: %q has min_temp %d above max_temp %d", ErrInvalidInput, c.Item, c.MinTemp, c.MaxTemp)
	}
	return nil
}

// Quantity returns how many of the item to pack for a trip of days days.
func (r QuantityRule) Quantity(days int) int {
	switch r {
	case RuleOnePerDay:
		return days
	case RuleOnePer2Days:
		return ceilDiv(days, 2)
	case RuleOnePer3Days:
		return ceilDiv(days, 3)
	default:
		return 1
	}
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}
