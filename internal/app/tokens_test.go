package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"munchen_mate/internal/app"
)

func TestRequestTokens_NewerRequestMakesOlderStale(t *testing.T) {
	tk := app.NewRequestTokens()

	first := tk.Begin(app.FeatureItinerary)
	assert.True(t, tk.Current(first))

	second := tk.Begin(app.FeatureItinerary)
	assert.False(t, tk.Current(first))
	assert.True(t, tk.Current(second))
	assert.Greater(t, second.Seq, first.Seq)
}

func TestRequestTokens_FeaturesAreIndependent(t *testing.T) {
	tk := app.NewRequestTokens()

	plan := tk.Begin(app.FeatureItinerary)
	tk.Begin(app.FeaturePacking)

	assert.True(t, tk.Current(plan))
}

func TestRequestTokens_Concurrent(t *testing.T) {
	tk := app.NewRequestTokens()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk.Begin(app.FeaturePhrases)
		}()
	}
	wg.Wait()

	last := tk.Begin(app.FeaturePhrases)
	assert.Equal(t, uint64(51), last.Seq)
}
