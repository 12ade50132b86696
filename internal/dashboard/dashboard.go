// Package dashboard keeps a plan's task catalog and template choice in sync with a
// plan store, and a user's milestones in sync with a milestone store.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bryan-cox/launchledger/internal/catalog"
	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/progress"
	"github.com/bryan-cox/launchledger/internal/store"
)

var (
	// ErrNotPersisted wraps store failures. The in-memory state has been rolled back.
	ErrNotPersisted = errors.New("change not persisted")
	// ErrResetDeclined is returned when the confirmation callback says no.
	ErrResetDeclined = errors.New("reset declined")
)

// ResetPrompt is shown to the user before a reset.
const ResetPrompt = "Reset all progress? This cannot be undone."

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) (bool, error)

// Session is an open plan dashboard.
type Session struct {
	store    store.PlanStore
	plan     *model.BusinessPlan
	planID   string
	tasks    []model.Task
	template model.Template
}

// Open loads stored progress for plan, generating a fresh catalog when none is stored.
// A missing or unrecognized stored template falls back to the checklist.
func Open(ctx context.Context, s store.PlanStore, plan *model.BusinessPlan) (*Session, error) {
	planID := plan.PlanID()
	if planID == "" {
		return nil, errors.New("plan has no idea id")
	}

	state, ok, err := s.Get(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load progress for plan %s: %w", planID, err)
	}

	sess := &Session{
		store:    s,
		plan:     plan,
		planID:   planID,
		template: model.DefaultTemplate,
	}
	if ok && len(state.Tasks) > 0 {
		sess.tasks = state.Tasks
	} else {
		sess.tasks = catalog.Generate(plan)
	}
	if ok && state.Template.Valid() {
		sess.template = state.Template
	}
	slog.Debug("opened dashboard", "plan_id", planID, "stored", ok, "template", sess.template)
	return sess, nil
}

// PlanID returns the id progress is stored under.
func (s *Session) PlanID() string { return s.planID }

// Template returns the selected template.
func (s *Session) Template() model.Template { return s.template }

// Tasks returns a copy of the catalog in catalog order.
func (s *Session) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Stats returns per-category completion.
func (s *Session) Stats() []progress.CategoryStat {
	return progress.CategoryStats(s.tasks)
}

// OverallPercent returns the completed share of the catalog.
func (s *Session) OverallPercent() int {
	return progress.OverallPercent(s.tasks)
}

func (s *Session) hasTask(id string) bool {
	for _, t := range s.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) persist(ctx context.Context) error {
	err := s.store.Put(ctx, s.planID, model.PlanState{Tasks: s.tasks, Template: s.template})
	if err != nil {
		slog.Warn("failed to save plan progress", "plan_id", s.planID, "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// ToggleTask flips one task and saves. Unknown ids are ignored.
func (s *Session) ToggleTask(ctx context.Context, id string) error {
	if !s.hasTask(id) {
		slog.Debug("toggle ignored, unknown task", "plan_id", s.planID, "task_id", id)
		return nil
	}
	prev := s.tasks
	s.tasks = progress.Toggle(prev, id)
	if err := s.persist(ctx); err != nil {
		s.tasks = prev
		return err
	}
	return nil
}

// SelectTemplate switches the rendering template and saves. Task data is untouched.
func (s *Session) SelectTemplate(ctx context.Context, t model.Template) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownTemplate, t)
	}
	prev := s.template
	s.template = t
	if err := s.persist(ctx); err != nil {
		s.template = prev
		return err
	}
	return nil
}

// Reset regenerates the catalog and clears stored completion after confirm agrees.
// The template choice survives a reset.
func (s *Session) Reset(ctx context.Context, confirm ConfirmFunc) error {
	ok, err := confirm(ResetPrompt)
	if err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	if !ok {
		return ErrResetDeclined
	}

	// One write either way, so a failure leaves the store untouched.
	if s.template == model.DefaultTemplate {
		err = s.store.Delete(ctx, s.planID)
	} else {
		err = s.store.Put(ctx, s.planID, model.PlanState{Template: s.template})
	}
	if err != nil {
		slog.Warn("failed to clear plan progress", "plan_id", s.planID, "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	s.tasks = catalog.Generate(s.plan)
	slog.Info("reset plan progress", "plan_id", s.planID)
	return nil
}
