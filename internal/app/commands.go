package app

import (
	"context"

	"munchen_mate/internal/domain"
	"munchen_mate/internal/offline"
)

// CommandService groups the state-changing operations: session expenses
// and the lifecycle of the offline asset cache.
type CommandService struct {
	cache    *offline.Manager
	manifest domain.Manifest
}

func NewCommandService(cache *offline.Manager, manifest domain.Manifest) *CommandService {
	return &CommandService{cache: cache, manifest: manifest}
}

func (s *CommandService) AddExpense(sess *Session, description string, amount float64, category string) (domain.ExpenseEntry, error) {
	return sess.Expenses.Add(description, amount, category)
}

func (s *CommandService) DeleteExpense(sess *Session, id string) error {
	return sess.Expenses.Delete(id)
}

func (s *CommandService) Manifest() domain.Manifest { return s.manifest }

// InstallCache installs the configured manifest.
func (s *CommandService) InstallCache(ctx context.Context) error {
	return s.cache.Install(ctx, s.manifest)
}

// ResumeOrInstall re-activates the configured version if a persistent
// store already holds it, and installs it otherwise.
func (s *CommandService) ResumeOrInstall(ctx context.Context) error {
	if err := s.cache.Activate(ctx, s.manifest.Version); err == nil {
		return nil
	}
	return s.cache.Install(ctx, s.manifest)
}

func (s *CommandService) ActivateCache(ctx context.Context, version string) error {
	return s.cache.Activate(ctx, version)
}

func (s *CommandService) PruneCaches(ctx context.Context) ([]string, error) {
	return s.cache.Prune(ctx)
}

func (s *CommandService) CacheStatus() offline.Status {
	return s.cache.Status()
}

func (s *CommandService) InstalledCaches(ctx context.Context) ([]string, error) {
	return s.cache.Caches(ctx)
}
