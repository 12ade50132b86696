// Package progress computes completion state over task catalogs and milestone lists.
package progress

import (
	"time"

	"github.com/bryan-cox/launchledger/internal/model"
)

// Bucket is a group of items with a completion count.
type Bucket[K comparable] struct {
	Key       K
	Total     int
	Completed int
}

// FirstIncomplete returns the key of the first bucket with Completed < Total.
// Empty buckets count as satisfied. If every bucket is satisfied, fallback is returned.
func FirstIncomplete[K comparable](buckets []Bucket[K], fallback K) K {
	for _, b := range buckets {
		if b.Completed < b.Total {
			return b.Key
		}
	}
	return fallback
}

// Percent returns completed/total as a whole percentage, rounding half up.
// A zero total yields 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (completed*200 + total) / (2 * total)
}

// CategoryStat summarizes one category of a catalog.
type CategoryStat struct {
	Category  model.Category
	Total     int
	Completed int
	Percent   int
}

// Toggle returns a copy of tasks with the completion flag of id flipped.
// An unknown id returns an unchanged copy.
func Toggle(tasks []model.Task, id string) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
			break
		}
	}
	return out
}

// CompletedCount returns the number of completed tasks.
func CompletedCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// OverallPercent returns the completed share of all tasks.
func OverallPercent(tasks []model.Task) int {
	return Percent(CompletedCount(tasks), len(tasks))
}

func categoryBuckets(tasks []model.Task) []Bucket[model.Category] {
	buckets := make([]Bucket[model.Category], len(model.Categories))
	for i, c := range model.Categories {
		buckets[i].Key = c
	}
	for _, t := range tasks {
		rank := t.Category.Rank()
		if rank < 0 {
			continue
		}
		buckets[rank].Total++
		if t.Completed {
			buckets[rank].Completed++
		}
	}
	return buckets
}

// CategoryStats returns one entry per category, in category order.
func CategoryStats(tasks []model.Task) []CategoryStat {
	buckets := categoryBuckets(tasks)
	stats := make([]CategoryStat, len(buckets))
	for i, b := range buckets {
		stats[i] = CategoryStat{
			Category:  b.Key,
			Total:     b.Total,
			Completed: b.Completed,
			Percent:   Percent(b.Completed, b.Total),
		}
	}
	return stats
}

// CurrentCategory returns the first category that still has open tasks, or growth
// when the whole catalog is done.
func CurrentCategory(tasks []model.Task) model.Category {
	return FirstIncomplete(categoryBuckets(tasks), model.CategoryGrowth)
}

// PhaseStat summarizes the milestones of one phase.
type PhaseStat struct {
	Phase     model.Phase
	Total     int
	Completed int
	Percent   int
}

func phaseBuckets(milestones []model.Milestone) []Bucket[model.Phase] {
	buckets := make([]Bucket[model.Phase], len(model.Phases))
	for i, p := range model.Phases {
		buckets[i].Key = p
	}
	for _, m := range milestones {
		rank := m.Phase.Rank()
		if rank < 0 {
			continue
		}
		buckets[rank].Total++
		if m.Completed {
			buckets[rank].Completed++
		}
	}
	return buckets
}

// DeterminePhase returns the first phase whose milestones are not all complete.
// Phases without milestones are skipped; scale is returned when nothing is open.
func DeterminePhase(milestones []model.Milestone) model.Phase {
	return FirstIncomplete(phaseBuckets(milestones), model.PhaseScale)
}

// PhaseStats returns one entry per phase, in phase order.
func PhaseStats(milestones []model.Milestone) []PhaseStat {
	buckets := phaseBuckets(milestones)
	stats := make([]PhaseStat, len(buckets))
	for i, b := range buckets {
		stats[i] = PhaseStat{
			Phase:     b.Key,
			Total:     b.Total,
			Completed: b.Completed,
			Percent:   Percent(b.Completed, b.Total),
		}
	}
	return stats
}

// MilestonePercent returns the completed share of all milestones.
func MilestonePercent(milestones []model.Milestone) int {
	n := 0
	for _, m := range milestones {
		if m.Completed {
			n++
		}
	}
	return Percent(n, len(milestones))
}

// SetMilestone returns a copy of milestones with id marked completed or not.
// Completing stamps CompletedAt with now; un-completing clears it. An unknown id
// returns an unchanged copy.
func SetMilestone(milestones []model.Milestone, id string, completed bool, now time.Time) []model.Milestone {
	out := make([]model.Milestone, len(milestones))
	copy(out, milestones)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		out[i].Completed = completed
		if completed {
			stamp := now
			out[i].CompletedAt = &stamp
		} else {
			out[i].CompletedAt = nil
		}
		break
	}
	return out
}

// InPhase returns the milestones of phase, preserving input order.
func InPhase(milestones []model.Milestone, phase model.Phase) []model.Milestone {
	var out []model.Milestone
	for _, m := range milestones {
		if m.Phase == phase {
			out = append(out, m)
		}
	}
	return out
}
