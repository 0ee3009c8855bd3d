package app_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munchen_mate/internal/app"
	"munchen_mate/internal/domain"
)

func find(pl app.PackingList, item string) (app.PackedItem, bool) {
	for _, g := range pl.Groups {
		for _, it := range g.Items {
			if it.Item == item {
				return it, true
			}
		}
	}
	return app.PackedItem{}, false
}

func TestQuantityRule(t *testing.T) {
	cases := []struct {
		rule domain.QuantityRule
		days int
		want int
	}{
		{domain.RuleFixed, 7, 1},
		{domain.RuleOnePerDay, 7, 7},
		{domain.RuleOnePer2Days, 5, 3},
		{domain.RuleOnePer2Days, 4, 2},
		{domain.RuleOnePer3Days, 7, 3},
		{domain.RuleOnePer3Days, 3, 1},
		{"", 4, 1},
		{domain.RuleOnePer2Days, math.MaxInt, math.MaxInt/2 + 1},
		{domain.RuleOnePer3Days, math.MaxInt, math.MaxInt/3 + 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.rule.Quantity(c.days), "%s over %d days", c.rule, c.days)
	}
}

func TestCompose_QuantitiesAndLabels(t *testing.T) {
	pl := app.Compose(clothing(), app.PackingRequest{Days: 5, TemperatureC: 12})

	jeans, ok := find(pl, "Jeans")
	require.True(t, ok)
	assert.Equal(t, 3, jeans.Quantity)
	assert.Equal(t, "3x Jeans", jeans.Label)

	charger, ok := find(pl, "Phone Charger")
	require.True(t, ok)
	assert.Equal(t, 1, charger.Quantity)
	assert.Equal(t, "Phone Charger", charger.Label)

	sweaters, ok := find(pl, "Sweaters")
	require.True(t, ok)
	assert.Equal(t, "2x Sweaters", sweaters.Label)
}

func TestCompose_RainItemFollowsRainFlag(t *testing.T) {
	dry := app.Compose(clothing(), app.PackingRequest{Days: 3, TemperatureC: 15, Raining: false})
	wet := app.Compose(clothing(), app.PackingRequest{Days: 3, TemperatureC: 15, Raining: true})

	_, inDry := find(dry, "Umbrella")
	_, inWet := find(wet, "Umbrella")
	assert.False(t, inDry)
	assert.True(t, inWet)
}

func TestCompose_SunItemFollowsSunFlag(t *testing.T) {
	_, cloudy := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 20}), "Sunglasses")
	_, sunny := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 20, Sunny: true}), "Sunglasses")
	assert.False(t, cloudy)
	assert.True(t, sunny)
}

func TestCompose_UnknownConditionExcluded(t *testing.T) {
	pl := app.Compose(clothing(), app.PackingRequest{TemperatureC: 0, Raining: true, Sunny: true})
	_, ok := find(pl, "Snow Chains")
	assert.False(t, ok)
}

func TestCompose_FormalOnlyWhenRequested(t *testing.T) {
	_, casual := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 15, Style: domain.StyleCasual}), "Blazer")
	_, formal := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 15, Style: domain.StyleFormal}), "Blazer")
	_, defaulted := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 15}), "Blazer")
	assert.False(t, casual)
	assert.True(t, formal)
	assert.False(t, defaulted)

	// unstyled items stay in a formal list
	_, charger := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 15, Style: domain.StyleFormal}), "Phone Charger")
	assert.True(t, charger)
}

func TestCompose_TemperatureBoundsInclusive(t *testing.T) {
	_, atMax := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 25}), "Jeans")
	_, above := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 26}), "Jeans")
	_, atMin := find(app.Compose(clothing(), app.PackingRequest{TemperatureC: 10}), "T-Shirts")
	assert.True(t, atMax)
	assert.False(t, above)
	assert.True(t, atMin)
}

func TestCompose_GroupOrder(t *testing.T) {
	pl := app.Compose(clothing(), app.PackingRequest{Days: 2, TemperatureC: 12, Raining: true, Sunny: true})

	var cats []string
	for _, g := range pl.Groups {
		cats = append(cats, g.Category)
	}
	assert.Equal(t, []string{"Clothes", "Gear", "Electronics"}, cats)

	var clothes []string
	for _, it := range pl.Groups[0].Items {
		clothes = append(clothes, it.Item)
	}
	assert.Equal(t, []string{"T-Shirts", "Jeans", "Sweaters"}, clothes)
}

func TestCompose_Defaults(t *testing.T) {
	pl := app.Compose(clothing(), app.PackingRequest{Days: -1, TemperatureC: 12})
	assert.Equal(t, 3, pl.Days)
	assert.Equal(t, domain.StyleCasual, pl.Style)

	shirts, ok := find(pl, "T-Shirts")
	require.True(t, ok)
	assert.Equal(t, 3, shirts.Quantity)
}

func TestCompose_ClampsTripLength(t *testing.T) {
	pl := app.Compose(clothing(), app.PackingRequest{Days: math.MaxInt, TemperatureC: 12})
	assert.Equal(t, app.MaxTripDays, pl.Days)

	jeans, ok := find(pl, "Jeans")
	require.True(t, ok)
	assert.Equal(t, app.MaxTripDays/2, jeans.Quantity)
	assert.Equal(t, "30x Jeans", jeans.Label)
}

func TestClothingItem_Validate(t *testing.T) {
	bad := domain.ClothingItem{Item: "Parka", MinTemp: 10, MaxTemp: -5}
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)
	assert.NoError(t, clothing()[0].Validate())
}
