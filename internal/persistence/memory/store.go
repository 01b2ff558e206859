// Package memory provides an in-process domain.Store for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"example.com/wellplan/internal/domain"
	"example.com/wellplan/internal/persistence"
)

// Store keeps profiles, plans and feedback in maps guarded by a single mutex,
// which also serializes active-plan swaps.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	plans    map[string]domain.Plan
	feedback map[string][]domain.FeedbackRecord
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]domain.Profile),
		plans:    make(map[string]domain.Plan),
		feedback: make(map[string][]domain.FeedbackRecord),
	}
}

// GetProfile implements domain.Store.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// SaveProfile implements domain.Store. The stored targets are replaced with the
// profile's, so an update without targets clears the cache.
func (s *Store) SaveProfile(ctx context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = profile
	return nil
}

// SaveTargets implements domain.Store.
func (s *Store) SaveTargets(ctx context.Context, userID string, targets domain.NutritionTargets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	profile.Targets = &targets
	s.profiles[userID] = profile
	return nil
}

// GetPlan implements domain.Store.
func (s *Store) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

// GetActivePlan implements domain.Store.
func (s *Store) GetActivePlan(ctx context.Context, userID string, kind domain.PlanKind) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		if plan.UserID == userID && plan.Kind == kind && plan.Active {
			p := plan
			return &p, nil
		}
	}
	return nil, nil
}

// ListPlans implements domain.Store.
func (s *Store) ListPlans(ctx context.Context, userID string, kind domain.PlanKind, cursor *domain.Cursor, limit int) ([]domain.Plan, *domain.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Plan, 0)
	for _, plan := range s.plans {
		if plan.UserID != userID || (kind != "" && plan.Kind != kind) {
			continue
		}
		if !persistence.Before(cursor, plan.CreatedAt, plan.ID) {
			continue
		}
		results = append(results, plan)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].ID > results[j].ID
		}
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	var next *domain.Cursor
	if limit > 0 && len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// DeactivatePlan implements domain.Store.
func (s *Store) DeactivatePlan(ctx context.Context, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[planID]
	if !ok {
		return domain.ErrPlanNotFound
	}
	plan.Active = false
	s.plans[planID] = plan
	return nil
}

// SwapActivePlan implements domain.Store.
func (s *Store) SwapActivePlan(ctx context.Context, plan domain.Plan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	priorID := ""
	for id, existing := range s.plans {
		if existing.UserID == plan.UserID && existing.Kind == plan.Kind && existing.Active {
			existing.Active = false
			s.plans[id] = existing
			priorID = id
		}
	}
	plan.Active = true
	s.plans[plan.ID] = plan
	return priorID, nil
}

// InsertFeedback implements domain.Store.
func (s *Store) InsertFeedback(ctx context.Context, record domain.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[record.PlanID]; !ok {
		return domain.ErrPlanNotFound
	}
	s.feedback[record.PlanID] = append(s.feedback[record.PlanID], record)
	return nil
}

// ListFeedback implements domain.Store.
func (s *Store) ListFeedback(ctx context.Context, planID string) ([]domain.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.feedback[planID]
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]domain.FeedbackRecord, len(records))
	copy(out, records)
	return out, nil
}
