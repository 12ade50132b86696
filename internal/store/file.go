package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/launchledger/internal/model"
)

// FilePlanStore keeps one YAML file per plan under Dir.
type FilePlanStore struct {
	Dir string
}

// NewFilePlanStore returns a store rooted at dir. The directory is created on first write.
func NewFilePlanStore(dir string) *FilePlanStore {
	return &FilePlanStore{Dir: dir}
}

func (f *FilePlanStore) path(planID string) string {
	return filepath.Join(f.Dir, url.PathEscape(planID)+".yml")
}

func (f *FilePlanStore) Get(_ context.Context, planID string) (model.PlanState, bool, error) {
	path := f.path(planID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.PlanState{}, false, nil
		}
		return model.PlanState{}, false, fmt.Errorf("could not read plan state '%s': %w", path, err)
	}

	var state model.PlanState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return model.PlanState{}, false, fmt.Errorf("could not parse plan state '%s': %w", path, err)
	}
	slog.Debug("loaded plan state", "plan_id", planID, "path", path, "tasks", len(state.Tasks))
	return state, true, nil
}

// Put writes the state through a temp file and rename so a crash never leaves a
// half-written file behind.
func (f *FilePlanStore) Put(_ context.Context, planID string, state model.PlanState) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plan store dir: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal plan state: %w", err)
	}

	path := f.path(planID)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	slog.Debug("saved plan state", "plan_id", planID, "path", path)
	return nil
}

func (f *FilePlanStore) Delete(_ context.Context, planID string) error {
	err := os.Remove(f.path(planID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete plan state: %w", err)
	}
	return nil
}
