package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bryan-cox/launchledger/internal/model"
	"github.com/bryan-cox/launchledger/internal/progress"
)

// BarWidth is the number of cells in a rendered progress bar.
const BarWidth = 20

var (
	accentColor = lipgloss.Color("#5FAFAF")
	subtleColor = lipgloss.Color("#666666")
	doneColor   = lipgloss.Color("#87AF87")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	sectionStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
	doneStyle    = lipgloss.NewStyle().Foreground(doneColor)
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
)

// ProgressBar draws percent as a fixed-width bar. Values are clamped to 0..100.
func ProgressBar(percent int) string {
	percent = max(0, min(100, percent))
	filled := percent * BarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", BarWidth-filled)
}

// PrintHeader prints the plan title and overall completion.
func PrintHeader(out io.Writer, plan *model.BusinessPlan, tasks []model.Task) {
	completed := progress.CompletedCount(tasks)
	overall := progress.OverallPercent(tasks)

	if plan != nil && plan.Idea.Name != "" {
		fmt.Fprintln(out, titleStyle.Render(plan.Idea.Name))
	}
	line := fmt.Sprintf("%s %3d%%  %d of %d tasks completed", ProgressBar(overall), overall, completed, len(tasks))
	if len(tasks) > 0 && completed == len(tasks) {
		line += "  " + doneStyle.Render("Complete!")
	}
	fmt.Fprintln(out, line)
}

func checkbox(t model.Task) string {
	if t.Completed {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}

func printTask(out io.Writer, indent string, t model.Task) {
	fmt.Fprintf(out, "%s%s %s %s\n", indent, checkbox(t), t.Title, subtleStyle.Render("("+t.ID+")"))
	if t.Description != "" {
		fmt.Fprintf(out, "%s    %s\n", indent, subtleStyle.Render(t.Description))
	}
}

func printCards(out io.Writer, cards []CategoryCard, focus model.Category) {
	for _, c := range cards {
		label := fmt.Sprintf("%-11s", c.Label)
		if c.Category == focus {
			label = focusStyle.Render(label)
		}
		fmt.Fprintf(out, "  %s %d/%d  %s %3d%%\n", label, c.Completed, c.Total, ProgressBar(c.Percent), c.Percent)
	}
}

// PrintChecklist prints category cards followed by the (possibly filtered) task list.
func PrintChecklist(out io.Writer, view ChecklistView) {
	fmt.Fprintln(out, "\n"+sectionStyle.Render("Categories"))
	printCards(out, view.Cards, view.Focus)

	heading := "All tasks"
	if view.Filter != "" {
		heading = view.Filter.Label() + " tasks"
	}
	fmt.Fprintln(out, "\n"+sectionStyle.Render(heading))
	if len(view.Tasks) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("  No tasks in this category"))
		return
	}
	for _, t := range view.Tasks {
		printTask(out, "  ", t)
	}
	fmt.Fprintf(out, "\nFocus next on %s\n", focusStyle.Render(view.Focus.Label()))
}

// PrintMilestones prints the category roadmap.
func PrintMilestones(out io.Writer, nodes []MilestoneNode) {
	fmt.Fprintln(out, "\n"+sectionStyle.Render("Roadmap"))
	for i, n := range nodes {
		marker := "○"
		switch n.State {
		case NodeDone:
			marker = doneStyle.Render("●")
		case NodeStarted:
			marker = focusStyle.Render("◐")
		}
		fmt.Fprintf(out, "%s %d. %s  %d%% (%s)\n", marker, i+1, n.Label, n.Percent, n.State)
		for _, t := range n.Tasks {
			printTask(out, "     ", t)
		}
	}
}

// PrintTimeline prints the week-by-week plan.
func PrintTimeline(out io.Writer, phases []WeekPhase) {
	for _, wp := range phases {
		fmt.Fprintf(out, "\n%s %s\n", sectionStyle.Render(wp.Label), subtleStyle.Render(fmt.Sprintf("%d/%d", wp.Completed, len(wp.Tasks))))
		for _, t := range wp.Tasks {
			printTask(out, "  ", t)
		}
	}
}

// PrintMetrics prints completion figures and the weekly target.
func PrintMetrics(out io.Writer, view MetricsView) {
	fmt.Fprintln(out, "\n"+sectionStyle.Render("Metrics"))
	fmt.Fprintf(out, "  Total tasks:     %d\n", view.Total)
	fmt.Fprintf(out, "  Completed:       %d\n", view.Completed)
	fmt.Fprintf(out, "  Remaining:       %d\n", view.Remaining)
	fmt.Fprintf(out, "  Overall:         %d%%\n", view.Overall)

	fmt.Fprintln(out, "\n"+sectionStyle.Render("By category"))
	printCards(out, view.Cards, "")

	fmt.Fprintln(out, "\n"+sectionStyle.Render("This week"))
	if view.WeeklyTarget == 0 {
		fmt.Fprintln(out, doneStyle.Render("  All tasks done"))
		return
	}
	fmt.Fprintf(out, "  Complete %d more task(s)\n", view.WeeklyTarget)
}

// PrintPhases prints the business phase tracker.
func PrintPhases(out io.Writer, view PhasesView) {
	fmt.Fprintf(out, "%s  %d%% complete\n", titleStyle.Render("Current: "+view.Current.Label()), view.CurrentPercent)
	fmt.Fprintf(out, "Overall progress %s %d%%\n", ProgressBar(view.Overall), view.Overall)

	fmt.Fprintln(out, "\n"+sectionStyle.Render("Phases"))
	for _, b := range view.Bars {
		label := fmt.Sprintf("%-15s", b.Phase.Label())
		if b.Phase == view.Current {
			label = focusStyle.Render(label)
		}
		fmt.Fprintf(out, "  %s %s %3d%%  %d/%d\n", label, ProgressBar(b.Percent), b.Percent, b.Completed, b.Total)
	}

	fmt.Fprintln(out, "\n"+sectionStyle.Render(view.Current.Label()+" milestones"))
	if len(view.Milestones) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("  No milestones yet"))
		return
	}
	for _, m := range view.Milestones {
		box := "[ ]"
		when := ""
		if m.Completed {
			box = doneStyle.Render("[x]")
			if m.CompletedAt != nil {
				when = " " + subtleStyle.Render(m.CompletedAt.Format("2006-01-02"))
			}
		}
		fmt.Fprintf(out, "  %s %s %s%s\n", box, m.Name, subtleStyle.Render("("+m.ID+")"), when)
	}
}

// PrintDashboard prints the header and the view for template. filter only applies to
// the checklist.
func PrintDashboard(out io.Writer, plan *model.BusinessPlan, tasks []model.Task, t model.Template, filter model.Category) {
	PrintHeader(out, plan, tasks)
	stats := progress.CategoryStats(tasks)
	switch t {
	case model.TemplateMilestones:
		PrintMilestones(out, Milestones(tasks, stats))
	case model.TemplateTimeline:
		PrintTimeline(out, Timeline(tasks))
	case model.TemplateMetrics:
		PrintMetrics(out, Metrics(tasks, stats))
	default:
		PrintChecklist(out, Checklist(tasks, stats, filter))
	}
}
