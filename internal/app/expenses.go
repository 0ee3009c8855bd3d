package app

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"munchen_mate/internal/domain"
)

// ExpenseLedger is the in-memory expense list of one session.
type ExpenseLedger struct {
	mu      sync.Mutex
	entries []domain.ExpenseEntry
	now     func() time.Time
}

func NewExpenseLedger() *ExpenseLedger {
	return &ExpenseLedger{now: time.Now}
}

type ExpenseSummary struct {
	Entries []domain.ExpenseEntry `json:"entries"`
	Total   float64               `json:"total"`
	// ByCategory sums amounts per category.
	ByCategory map[string]float64 `json:"by_category"`
}

func (l *ExpenseLedger) Add(description string, amount float64, category string) (domain.ExpenseEntry, error) {
	description, category = strings.TrimSpace(description), strings.TrimSpace(category)
	switch {
	case description == "":
		return domain.ExpenseEntry{}, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	case category == "":
		return domain.ExpenseEntry{}, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0:
		return domain.ExpenseEntry{}, fmt.Errorf("%w: amount must be a non-negative number", domain.ErrInvalidInput)
	}

	e := domain.ExpenseEntry{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		CreatedAt:   l.now().UTC(),
	}
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return e, nil
}

func (l *ExpenseLedger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %q: %w", id, domain.ErrNotFound)
}

func (l *ExpenseLedger) Summary() ExpenseSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := ExpenseSummary{
		Entries:    make([]domain.ExpenseEntry, len(l.entries)),
		ByCategory: map[string]float64{},
	}
	copy(out.Entries, l.entries)
	for _, e := range l.entries {
		out.Total += e.Amount
		out.ByCategory[e.Category] += e.Amount
	}
	return out
}
