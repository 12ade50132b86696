// Package report projects a task catalog or milestone list into the view model of each
// dashboard template and renders it as text.
package report

import (
	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/progress"
)

// WeeklyTarget caps the number of tasks suggested for the coming week.
const WeeklyTarget = 3

// CategoryCard is the summary shown for one category.
type CategoryCard struct {
	Category  model.Category
	Label     string
	Completed int
	Total     int
	Percent   int
}

func cards(stats []progress.CategoryStat) []CategoryCard {
	out := make([]CategoryCard, 0, len(stats))
	for _, s := range stats {
		out = append(out, CategoryCard{
			Category:  s.Category,
			Label:     s.Category.Label(),
			Completed: s.Completed,
			Total:     s.Total,
			Percent:   s.Percent,
		})
	}
	return out
}

func tasksIn(tasks []model.Task, categories ...model.Category) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		for _, c := range categories {
			if t.Category == c {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// ChecklistView is the checklist template.
type ChecklistView struct {
	Cards []CategoryCard
	// Filter is empty when every category is shown.
	Filter model.Category
	Tasks  []model.Task
	Focus  model.Category
}

// Checklist builds the checklist view. An empty filter keeps every task.
func Checklist(tasks []model.Task, stats []progress.CategoryStat, filter model.Category) ChecklistView {
	view := ChecklistView{
		Cards:  cards(stats),
		Filter: filter,
		Focus:  progress.CurrentCategory(tasks),
	}
	if filter == "" {
		view.Tasks = append([]model.Task(nil), tasks...)
	} else {
		view.Tasks = tasksIn(tasks, filter)
	}
	return view
}

// NodeState describes how far along a milestone node is.
type NodeState string

const (
	NodeDone    NodeState = "done"
	NodeStarted NodeState = "started"
	NodePending NodeState = "pending"
)

// MilestoneNode is one category on the milestones roadmap.
type MilestoneNode struct {
	CategoryCard
	State NodeState
	Tasks []model.Task
}

// Milestones builds one roadmap node per category.
func Milestones(tasks []model.Task, stats []progress.CategoryStat) []MilestoneNode {
	nodes := make([]MilestoneNode, 0, len(stats))
	for _, card := range cards(stats) {
		state := NodePending
		switch {
		case card.Total > 0 && card.Completed == card.Total:
			state = NodeDone
		case card.Completed > 0:
			state = NodeStarted
		}
		nodes = append(nodes, MilestoneNode{
			CategoryCard: card,
			State:        state,
			Tasks:        tasksIn(tasks, card.Category),
		})
	}
	return nodes
}

// WeekPhase is one column of the timeline template.
type WeekPhase struct {
	Label      string
	Categories []model.Category
	Tasks      []model.Task
	Completed  int
}

var weekPhases = []struct {
	label      string
	categories []model.Category
}{
	{"Week 1: Setup", []model.Category{model.CategorySetup}},
	{"Week 2-3: Resources", []model.Category{model.CategoryMaterials, model.CategoryOperations}},
	{"Week 4: Marketing", []model.Category{model.CategoryMarketing}},
	{"Month 2+: Growth", []model.Category{model.CategoryGrowth}},
}

// Timeline groups tasks into week phases, keeping catalog order within each.
func Timeline(tasks []model.Task) []WeekPhase {
	out := make([]WeekPhase, 0, len(weekPhases))
	for _, wp := range weekPhases {
		phaseTasks := tasksIn(tasks, wp.categories...)
		out = append(out, WeekPhase{
			Label:      wp.label,
			Categories: wp.categories,
			Tasks:      phaseTasks,
			Completed:  progress.CompletedCount(phaseTasks),
		})
	}
	return out
}

// MetricsView is the metrics template.
type MetricsView struct {
	Cards        []CategoryCard
	Total        int
	Completed    int
	Remaining    int
	Overall      int
	WeeklyTarget int
}

// Metrics builds the metrics view.
func Metrics(tasks []model.Task, stats []progress.CategoryStat) MetricsView {
	completed := progress.CompletedCount(tasks)
	remaining := len(tasks) - completed
	return MetricsView{
		Cards:        cards(stats),
		Total:        len(tasks),
		Completed:    completed,
		Remaining:    remaining,
		Overall:      progress.OverallPercent(tasks),
		WeeklyTarget: min(WeeklyTarget, remaining),
	}
}

// PhasesView is the business phase tracker.
type PhasesView struct {
	Current        model.Phase
	CurrentPercent int
	Overall        int
	Bars           []progress.PhaseStat
	Milestones     []model.Milestone
}

// Phases builds the phase tracker view from a user's milestones.
func Phases(milestones []model.Milestone) PhasesView {
	current := progress.DeterminePhase(milestones)
	bars := progress.PhaseStats(milestones)
	return PhasesView{
		Current:        current,
		CurrentPercent: bars[current.Rank()].Percent,
		Overall:        progress.MilestonePercent(milestones),
		Bars:           bars,
		Milestones:     progress.InPhase(milestones, current),
	}
}
