package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bryan-cox/launchledger/internal/catalog"
	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/progress"
	"github.com/bryan-cox/launchledger/internal/store"
)

// ErrAlreadySeeded is returned when seeding a user who already has milestones.
var ErrAlreadySeeded = errors.New("milestones already exist")

// Tracker is an open phase tracker for one user.
type Tracker struct {
	store      store.MilestoneStore
	userID     string
	now        func() time.Time
	milestones []model.Milestone
	phase      model.Phase
}

// OpenTracker loads the user's milestones and derives the current phase. A nil now
// uses time.Now.
func OpenTracker(ctx context.Context, s store.MilestoneStore, userID string, now func() time.Time) (*Tracker, error) {
	if now == nil {
		now = time.Now
	}
	milestones, err := s.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load milestones for %s: %w", userID, err)
	}
	t := &Tracker{store: s, userID: userID, now: now}
	t.apply(milestones)
	return t, nil
}

func (t *Tracker) apply(milestones []model.Milestone) {
	t.milestones = milestones
	t.phase = progress.DeterminePhase(milestones)
}

// Phase returns the current phase.
func (t *Tracker) Phase() model.Phase { return t.phase }

// Milestones returns a copy of the user's milestones in phase order.
func (t *Tracker) Milestones() []model.Milestone {
	out := make([]model.Milestone, len(t.milestones))
	copy(out, t.milestones)
	return out
}

// ToggleMilestone marks a milestone done or not done. The store is written first;
// the phase is then recomputed from the same update. Unknown ids are ignored.
func (t *Tracker) ToggleMilestone(ctx context.Context, id string, completed bool) error {
	known := false
	for _, m := range t.milestones {
		if m.ID == id {
			known = true
			break
		}
	}
	if !known {
		slog.Debug("toggle ignored, unknown milestone", "user_id", t.userID, "milestone_id", id)
		return nil
	}

	stamp := t.now().UTC()
	var completedAt *time.Time
	if completed {
		completedAt = &stamp
	}
	if err := t.store.Update(ctx, id, completed, completedAt); err != nil {
		slog.Warn("failed to update milestone", "user_id", t.userID, "milestone_id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}

	prev := t.phase
	t.apply(progress.SetMilestone(t.milestones, id, completed, stamp))
	if t.phase != prev {
		slog.Info("phase changed", "user_id", t.userID, "from", prev, "to", t.phase)
	}
	return nil
}

// Seed stores the default milestone set for a user with no milestones.
func (t *Tracker) Seed(ctx context.Context, newID func() string) error {
	if len(t.milestones) > 0 {
		return fmt.Errorf("%w for user %s", ErrAlreadySeeded, t.userID)
	}
	seed := catalog.DefaultMilestones(t.userID, newID)
	if err := t.store.Insert(ctx, seed); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	store.SortMilestones(seed)
	t.apply(seed)
	return nil
}
