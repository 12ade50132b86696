// Package store persists plan progress and milestones.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bryan-cox/launchledger/internal/model"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// PlanStore keeps one PlanState blob per plan id.
type PlanStore interface {
	// Get returns the stored state and whether one existed.
	Get(ctx context.Context, planID string) (model.PlanState, bool, error)
	Put(ctx context.Context, planID string, state model.PlanState) error
	// Delete removes the stored state. Deleting an absent plan is not an error.
	Delete(ctx context.Context, planID string) error
}

// MilestoneStore keeps milestone rows per user.
type MilestoneStore interface {
	// List returns the user's milestones ordered by phase, then order index.
	List(ctx context.Context, userID string) ([]model.Milestone, error)
	// Update sets the completion fields of one milestone. Unknown ids yield ErrNotFound.
	Update(ctx context.Context, id string, completed bool, completedAt *time.Time) error
	Insert(ctx context.Context, milestones []model.Milestone) error
}

// SortMilestones orders milestones by phase rank, then order index.
func SortMilestones(ms []model.Milestone) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ri, rj := ms[i].Phase.Rank(), ms[j].Phase.Rank(); ri != rj {
			return ri < rj
		}
		return ms[i].OrderIndex < ms[j].OrderIndex
	})
}

func clonePlanState(s model.PlanState) model.PlanState {
	out := model.PlanState{Template: s.Template}
	if s.Tasks != nil {
		out.Tasks = make([]model.Task, len(s.Tasks))
		copy(out.Tasks, s.Tasks)
	}
	return out
}

// MemoryPlanStore is a PlanStore backed by a map.
type MemoryPlanStore struct {
	mu    sync.Mutex
	plans map[string]model.PlanState
}

// NewMemoryPlanStore returns an empty in-memory plan store.
func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{plans: make(map[string]model.PlanState)}
}

func (m *MemoryPlanStore) Get(_ context.Context, planID string) (model.PlanState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.plans[planID]
	if !ok {
		return model.PlanState{}, false, nil
	}
	return clonePlanState(s), true, nil
}

func (m *MemoryPlanStore) Put(_ context.Context, planID string, state model.PlanState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[planID] = clonePlanState(state)
	return nil
}

func (m *MemoryPlanStore) Delete(_ context.Context, planID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, planID)
	return nil
}

// MemoryMilestoneStore is a MilestoneStore backed by a slice.
type MemoryMilestoneStore struct {
	mu   sync.Mutex
	rows []model.Milestone
}

// NewMemoryMilestoneStore returns a store preloaded with rows.
func NewMemoryMilestoneStore(rows ...model.Milestone) *MemoryMilestoneStore {
	return &MemoryMilestoneStore{rows: append([]model.Milestone(nil), rows...)}
}

func (m *MemoryMilestoneStore) List(_ context.Context, userID string) ([]model.Milestone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Milestone
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	SortMilestones(out)
	return out, nil
}

func (m *MemoryMilestoneStore) Update(_ context.Context, id string, completed bool, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Completed = completed
			m.rows[i].CompletedAt = completedAt
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryMilestoneStore) Insert(_ context.Context, milestones []model.Milestone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, milestones...)
	return nil
}
