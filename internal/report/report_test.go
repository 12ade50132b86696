package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bryan-cox/launchledger/internal/catalog"
	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/progress"
)

func sampleTasks(done ...string) []model.Task {
	tasks := catalog.Generate(&model.BusinessPlan{Idea: model.BusinessIdea{ID: "p1", Name: "Bakery"}})
	for _, id := range done {
		tasks = progress.Toggle(tasks, id)
	}
	return tasks
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestChecklist(t *testing.T) {
	tasks := sampleTasks("setup-1", "setup-2", "setup-3", "setup-4", "materials-1")
	stats := progress.CategoryStats(tasks)

	t.Run("no filter keeps every task", func(t *testing.T) {
		view := Checklist(tasks, stats, "")
		if len(view.Tasks) != catalog.Size {
			t.Errorf("expected %d tasks, got %d", catalog.Size, len(view.Tasks))
		}
		if view.Focus != model.CategoryMaterials {
			t.Errorf("focus = %s, want materials", view.Focus)
		}
		if len(view.Cards) != len(model.Categories) {
			t.Fatalf("expected %d cards, got %d", len(model.Categories), len(view.Cards))
		}
		if c := view.Cards[0]; c.Completed != 4 || c.Total != 4 || c.Percent != 100 || c.Label != "Setup" {
			t.Errorf("unexpected setup card: %+v", c)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		view := Checklist(tasks, stats, model.CategoryOperations)
		want := []string{"operations-1", "operations-2", "operations-3"}
		if diff := cmp.Diff(want, ids(view.Tasks)); diff != "" {
			t.Errorf("filtered tasks mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMilestones(t *testing.T) {
	tasks := sampleTasks("setup-1", "setup-2", "setup-3", "setup-4", "marketing-2")
	nodes := Milestones(tasks, progress.CategoryStats(tasks))

	got := make(map[model.Category]NodeState)
	for _, n := range nodes {
		got[n.Category] = n.State
	}
	want := map[model.Category]NodeState{
		model.CategorySetup:      NodeDone,
		model.CategoryMaterials:  NodePending,
		model.CategoryMarketing:  NodeStarted,
		model.CategoryOperations: NodePending,
		model.CategoryGrowth:     NodePending,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("node states mismatch (-want +got):\n%s", diff)
	}
	if len(nodes[2].Tasks) != 4 {
		t.Errorf("marketing node has %d tasks, want 4", len(nodes[2].Tasks))
	}
}

func TestMilestonesEmptyCategoryIsPending(t *testing.T) {
	nodes := Milestones(nil, progress.CategoryStats(nil))
	for _, n := range nodes {
		if n.State != NodePending {
			t.Errorf("%s state = %s, want pending", n.Category, n.State)
		}
	}
}

func TestTimeline(t *testing.T) {
	tasks := sampleTasks("operations-1")
	phases := Timeline(tasks)

	wantLabels := []string{"Week 1: Setup", "Week 2-3: Resources", "Week 4: Marketing", "Month 2+: Growth"}
	var labels []string
	for _, p := range phases {
		labels = append(labels, p.Label)
	}
	if diff := cmp.Diff(wantLabels, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	wantResources := []string{"materials-1", "materials-2", "materials-3", "operations-1", "operations-2", "operations-3"}
	if diff := cmp.Diff(wantResources, ids(phases[1].Tasks)); diff != "" {
		t.Errorf("resources tasks mismatch (-want +got):\n%s", diff)
	}
	if phases[1].Completed != 1 {
		t.Errorf("resources completed = %d, want 1", phases[1].Completed)
	}

	total := 0
	for _, p := range phases {
		total += len(p.Tasks)
	}
	if total != catalog.Size {
		t.Errorf("timeline covers %d tasks, want %d", total, catalog.Size)
	}
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		name          string
		done          []string
		wantRemaining int
		wantTarget    int
	}{
		{name: "fresh catalog", wantRemaining: 17, wantTarget: 3},
		{
			name: "two left",
			done: []string{
				"setup-1", "setup-2", "setup-3", "setup-4",
				"materials-1", "materials-2", "materials-3",
				"marketing-1", "marketing-2", "marketing-3", "marketing-4",
				"operations-1", "operations-2", "operations-3",
				"growth-1",
			},
			wantRemaining: 2,
			wantTarget:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := sampleTasks(tt.done...)
			view := Metrics(tasks, progress.CategoryStats(tasks))
			if view.Total != 17 || view.Completed != len(tt.done) || view.Remaining != tt.wantRemaining {
				t.Errorf("unexpected totals: %+v", view)
			}
			if view.WeeklyTarget != tt.wantTarget {
				t.Errorf("weekly target = %d, want %d", view.WeeklyTarget, tt.wantTarget)
			}
		})
	}
}

func milestone(id string, phase model.Phase, completed bool) model.Milestone {
	return model.Milestone{ID: id, Phase: phase, Name: "Milestone " + id, Completed: completed}
}

func TestPhases(t *testing.T) {
	ms := []model.Milestone{
		milestone("i1", model.PhaseIdea, true),
		milestone("i2", model.PhaseIdea, true),
		milestone("l1", model.PhaseLaunch, true),
		milestone("l2", model.PhaseLaunch, false),
		milestone("l3", model.PhaseLaunch, false),
		milestone("g1", model.PhaseGrowth, false),
	}
	view := Phases(ms)
	if view.Current != model.PhaseLaunch {
		t.Fatalf("current = %s, want launch", view.Current)
	}
	if view.CurrentPercent != 33 {
		t.Errorf("current percent = %d, want 33", view.CurrentPercent)
	}
	if view.Overall != 50 {
		t.Errorf("overall = %d, want 50", view.Overall)
	}
	if len(view.Bars) != len(model.Phases) {
		t.Errorf("expected %d bars, got %d", len(model.Phases), len(view.Bars))
	}
	if len(view.Milestones) != 3 {
		t.Errorf("expected 3 launch milestones, got %d", len(view.Milestones))
	}
}

func TestProgressBar(t *testing.T) {
	tests := map[int]string{
		0:   strings.Repeat("░", BarWidth),
		50:  strings.Repeat("█", BarWidth/2) + strings.Repeat("░", BarWidth/2),
		100: strings.Repeat("█", BarWidth),
		150: strings.Repeat("█", BarWidth),
		-5:  strings.Repeat("░", BarWidth),
	}
	for percent, want := range tests {
		if got := ProgressBar(percent); got != want {
			t.Errorf("ProgressBar(%d) = %q, want %q", percent, got, want)
		}
	}
}

func TestPrintDashboard(t *testing.T) {
	plan := &model.BusinessPlan{Idea: model.BusinessIdea{ID: "p1", Name: "Bakery"}}

	tests := []struct {
		name     string
		template model.Template
		filter   model.Category
		done     []string
		want     []string
		notWant  []string
	}{
		{
			name:     "checklist",
			template: model.TemplateChecklist,
			done:     []string{"setup-1", "setup-2", "setup-3"},
			want:     []string{"Bakery", "3 of 17 tasks completed", "All tasks", "Register business/GSTIN", "Focus next on Setup"},
			notWant:  []string{"Complete!"},
		},
		{
			name:     "filtered checklist",
			template: model.TemplateChecklist,
			filter:   model.CategoryGrowth,
			want:     []string{"Growth tasks", "Reach 50 customers"},
			notWant:  []string{"Register business/GSTIN"},
		},
		{
			name:     "milestones",
			template: model.TemplateMilestones,
			done:     []string{"growth-1"},
			want:     []string{"Roadmap", "5. Growth", "(started)", "(pending)"},
		},
		{
			name:     "timeline",
			template: model.TemplateTimeline,
			want:     []string{"Week 1: Setup", "Week 2-3: Resources", "Week 4: Marketing", "Month 2+: Growth"},
		},
		{
			name:     "metrics",
			template: model.TemplateMetrics,
			want:     []string{"Total tasks:     17", "Remaining:       17", "Complete 3 more task(s)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintDashboard(&buf, plan, sampleTasks(tt.done...), tt.template, tt.filter)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output unexpectedly contains %q", nw)
				}
			}
		})
	}
}

func TestPrintHeaderComplete(t *testing.T) {
	tasks := sampleTasks()
	for _, task := range tasks {
		tasks = progress.Toggle(tasks, task.ID)
	}
	var buf bytes.Buffer
	PrintHeader(&buf, nil, tasks)
	if !strings.Contains(buf.String(), "17 of 17 tasks completed") || !strings.Contains(buf.String(), "Complete!") {
		t.Errorf("unexpected header: %q", buf.String())
	}
}

func TestPrintPhases(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ms := []model.Milestone{
		milestone("i1", model.PhaseIdea, false),
		milestone("i2", model.PhaseIdea, true),
	}
	ms[1].CompletedAt = &stamp

	var buf bytes.Buffer
	PrintPhases(&buf, Phases(ms))
	out := buf.String()
	for _, w := range []string{"Current: Idea Phase", "50% complete", "Idea Phase milestones", "Milestone i1", "2024-03-01"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}

	buf.Reset()
	PrintPhases(&buf, Phases(nil))
	if !strings.Contains(buf.String(), "No milestones yet") || !strings.Contains(buf.String(), "Scale Phase") {
		t.Errorf("unexpected empty output:\n%s", buf.String())
	}
}
