package catalog

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bryan-cox/launchledger/internal/model"
)

func descriptionOf(t *testing.T, tasks []model.Task, id string) string {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task.Description
		}
	}
	t.Fatalf("task %q not found in catalog", id)
	return ""
}

func TestGenerate(t *testing.T) {
	full := &model.BusinessPlan{
		Idea: model.BusinessIdea{ID: "idea-42", Name: "Tea Stall"},
		Workforce: []model.WorkforceRequirement{
			{Role: "Helper", Count: 1},
			{Role: "Cashier", Count: 1},
			{Role: "Cook", Count: 2},
		},
		Location: &model.LocationAdvice{AreaType: "a busy market", ShopSize: "100 sq ft"},
	}

	tests := []struct {
		name          string
		plan          *model.BusinessPlan
		wantLocation  string
		wantHeadcount string
	}{
		{
			name:          "nil plan uses fallbacks",
			plan:          nil,
			wantLocation:  "Find suitable space in target area",
			wantHeadcount: "Recruit 1 team member(s)",
		},
		{
			name:          "empty plan uses fallbacks",
			plan:          &model.BusinessPlan{Idea: model.BusinessIdea{ID: "empty"}},
			wantLocation:  "Find suitable space in target area",
			wantHeadcount: "Recruit 1 team member(s)",
		},
		{
			name: "partial location falls back per field",
			plan: &model.BusinessPlan{
				Location:  &model.LocationAdvice{AreaType: "residential colony"},
				Workforce: []model.WorkforceRequirement{},
			},
			wantLocation:  "Find suitable space in residential colony",
			wantHeadcount: "Recruit 1 team member(s)",
		},
		{
			name:          "plan values are substituted",
			plan:          full,
			wantLocation:  "Find 100 sq ft space in a busy market",
			wantHeadcount: "Recruit 3 team member(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := Generate(tt.plan)
			if len(tasks) != Size {
				t.Fatalf("expected %d tasks, got %d", Size, len(tasks))
			}
			for _, task := range tasks {
				if task.Completed {
					t.Errorf("task %s should start incomplete", task.ID)
				}
			}
			if got := descriptionOf(t, tasks, "setup-3"); got != tt.wantLocation {
				t.Errorf("setup-3 description = %q, want %q", got, tt.wantLocation)
			}
			if got := descriptionOf(t, tasks, "operations-1"); got != tt.wantHeadcount {
				t.Errorf("operations-1 description = %q, want %q", got, tt.wantHeadcount)
			}
		})
	}
}

func TestGenerateOrder(t *testing.T) {
	var got []string
	for _, task := range Generate(nil) {
		got = append(got, task.ID)
	}
	want := []string{
		"setup-1", "setup-2", "setup-3", "setup-4",
		"materials-1", "materials-2", "materials-3",
		"marketing-1", "marketing-2", "marketing-3", "marketing-4",
		"operations-1", "operations-2", "operations-3",
		"growth-1", "growth-2", "growth-3",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	plan := &model.BusinessPlan{Location: &model.LocationAdvice{ShopSize: "small"}}
	if diff := cmp.Diff(Generate(plan), Generate(plan)); diff != "" {
		t.Errorf("Generate is not deterministic (-first +second):\n%s", diff)
	}
}

func TestGenerateIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, task := range Generate(nil) {
		if seen[task.ID] {
			t.Errorf("duplicate task id %s", task.ID)
		}
		seen[task.ID] = true
		if task.Category.Rank() < 0 {
			t.Errorf("task %s has unknown category %q", task.ID, task.Category)
		}
	}
}

func TestDefaultMilestones(t *testing.T) {
	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("m-%d", n)
	}
	milestones := DefaultMilestones("user-1", newID)

	perPhase := make(map[model.Phase][]int)
	for _, m := range milestones {
		if m.UserID != "user-1" {
			t.Errorf("milestone %s has user %q", m.ID, m.UserID)
		}
		if m.Completed || m.CompletedAt != nil {
			t.Errorf("milestone %s should start incomplete", m.ID)
		}
		perPhase[m.Phase] = append(perPhase[m.Phase], m.OrderIndex)
	}
	for _, phase := range model.Phases {
		if diff := cmp.Diff([]int{0, 1, 2}, perPhase[phase]); diff != "" {
			t.Errorf("order_index for %s (-want +got):\n%s", phase, diff)
		}
	}
	if milestones[0].ID != "m-1" || milestones[len(milestones)-1].ID != fmt.Sprintf("m-%d", len(milestones)) {
		t.Errorf("ids not taken from generator in order: first=%s last=%s", milestones[0].ID, milestones[len(milestones)-1].ID)
	}
}
