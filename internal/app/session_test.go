package app_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"munchen_mate/internal/app"
)

func TestSessions_GetCreatesAndReuses(t *testing.T) {
	s := app.NewSessions()

	fresh := s.Get("")
	assert.NotEmpty(t, fresh.ID)
	assert.Same(t, fresh, s.Get(fresh.ID))

	other := s.Get("")
	assert.NotEqual(t, fresh.ID, other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestSessions_UnknownIDIsNotAdopted(t *testing.T) {
	s := app.NewSessions()

	chosen := strings.Repeat("x", 4096)
	sess := s.Get(chosen)
	assert.NotEqual(t, chosen, sess.ID)
	_, err := uuid.Parse(sess.ID)
	assert.NoError(t, err)

	assert.NotSame(t, sess, s.Get(chosen))
	assert.Same(t, sess, s.Get(sess.ID))
	assert.Equal(t, 2, s.Len())
}

func TestSessions_ExpensesAreIsolated(t *testing.T) {
	s := app.NewSessions()
	a := s.Get("")
	_, err := a.Expenses.Add("Beer", 5, "Food")
	assert.NoError(t, err)

	assert.Empty(t, s.Get("").Expenses.Summary().Entries)
	assert.Len(t, s.Get(a.ID).Expenses.Summary().Entries, 1)
}

func TestSessions_Evict(t *testing.T) {
	s := app.NewSessions()
	old := s.Get("")
	time.Sleep(20 * time.Millisecond)
	live := s.Get("")

	assert.Equal(t, 1, s.Evict(10*time.Millisecond))
	assert.Equal(t, 1, s.Len())
	assert.Same(t, live, s.Get(live.ID))
	assert.NotSame(t, old, s.Get(old.ID))
}
