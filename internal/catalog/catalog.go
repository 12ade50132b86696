// Package catalog builds the fixed launch task catalog for a business plan.
package catalog

import (
	"fmt"
	"sort"

	"github.com/bryan-cox/launchledger/internal/model"
)

// Fallback phrases substituted when the plan omits a value.
const (
	FallbackShopSize  = "suitable"
	FallbackAreaType  = "target area"
	FallbackHeadcount = 1
)

// Size is the number of tasks Generate always returns.
const Size = 17

// Generate returns the task catalog for plan, ordered by category block and then by
// declaration order within a block. Every task starts incomplete. A nil plan or
// missing plan sections fall back to the documented phrases.
func Generate(plan *model.BusinessPlan) []model.Task {
	shopSize, areaType := FallbackShopSize, FallbackAreaType
	headcount := FallbackHeadcount
	if plan != nil {
		if plan.Location != nil {
			if plan.Location.ShopSize != "" {
				shopSize = plan.Location.ShopSize
			}
			if plan.Location.AreaType != "" {
				areaType = plan.Location.AreaType
			}
		}
		if len(plan.Workforce) > 0 {
			headcount = len(plan.Workforce)
		}
	}

	tasks := []model.Task{
		{ID: "setup-1", Category: model.CategorySetup, Title: "Register business/GSTIN", Description: "Complete legal registration and obtain GST number"},
		{ID: "setup-2", Category: model.CategorySetup, Title: "Open business bank account", Description: "Set up dedicated account for business transactions"},
		{ID: "setup-3", Category: model.CategorySetup, Title: "Finalize location", Description: fmt.Sprintf("Find %s space in %s", shopSize, areaType)},
		{ID: "setup-4", Category: model.CategorySetup, Title: "Complete shop setup", Description: "Install furniture, signage, and equipment"},

		{ID: "materials-1", Category: model.CategoryMaterials, Title: "Identify primary suppliers", Description: "Finalize 2-3 reliable suppliers for raw materials"},
		{ID: "materials-2", Category: model.CategoryMaterials, Title: "Place first order", Description: "Order initial inventory from selected suppliers"},
		{ID: "materials-3", Category: model.CategoryMaterials, Title: "Set up inventory tracking", Description: "Create system to track stock levels"},

		{ID: "marketing-1", Category: model.CategoryMarketing, Title: "Create social media accounts", Description: "Set up Instagram, WhatsApp Business profiles"},
		{ID: "marketing-2", Category: model.CategoryMarketing, Title: "Design marketing materials", Description: "Create banners, visiting cards, flyers"},
		{ID: "marketing-3", Category: model.CategoryMarketing, Title: "List on Google My Business", Description: "Create GMB profile for local visibility"},
		{ID: "marketing-4", Category: model.CategoryMarketing, Title: "Plan launch offers", Description: "Design opening discounts and promotions"},

		{ID: "operations-1", Category: model.CategoryOperations, Title: "Hire initial staff", Description: fmt.Sprintf("Recruit %d team member(s)", headcount)},
		{ID: "operations-2", Category: model.CategoryOperations, Title: "Create pricing list", Description: "Finalize product/service pricing"},
		{ID: "operations-3", Category: model.CategoryOperations, Title: "Set up billing system", Description: "Install POS or billing software"},

		{ID: "growth-1", Category: model.CategoryGrowth, Title: "Reach 50 customers", Description: "Build initial customer base"},
		{ID: "growth-2", Category: model.CategoryGrowth, Title: "Get first 10 reviews", Description: "Collect customer reviews on Google"},
		{ID: "growth-3", Category: model.CategoryGrowth, Title: "Start delivery service", Description: "Expand with home delivery option"},
	}

	// Category rank is the primary key; the stable sort keeps declaration order inside a block.
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Category.Rank() < tasks[j].Category.Rank()
	})
	return tasks
}

// DefaultMilestones returns the starter milestone set for a user. newID supplies
// row identifiers.
func DefaultMilestones(userID string, newID func() string) []model.Milestone {
	seed := []struct {
		phase       model.Phase
		name        string
		description string
	}{
		{model.PhaseIdea, "Validate the idea", "Talk to 10 potential customers about the problem"},
		{model.PhaseIdea, "Estimate startup costs", "List one-time and monthly costs"},
		{model.PhaseIdea, "Write the business plan", "Generate and review a full plan"},

		{model.PhaseLaunch, "Register the business", "Complete registration and tax setup"},
		{model.PhaseLaunch, "Open for business", "Serve the first paying customer"},
		{model.PhaseLaunch, "Run launch promotion", "Announce the opening locally and online"},

		{model.PhaseGrowth, "Reach break-even", "Monthly revenue covers monthly costs"},
		{model.PhaseGrowth, "Build repeat customers", "Get 30% of sales from returning customers"},
		{model.PhaseGrowth, "Hire first employee", "Delegate daily operations"},

		{model.PhaseScale, "Add a second channel", "Start delivery, online orders or wholesale"},
		{model.PhaseScale, "Open a second location", "Replicate the first shop's setup"},
		{model.PhaseScale, "Systematize operations", "Document processes so the business runs without you"},
	}

	milestones := make([]model.Milestone, 0, len(seed))
	orderInPhase := make(map[model.Phase]int)
	for _, s := range seed {
		milestones = append(milestones, model.Milestone{
			ID:          newID(),
			UserID:      userID,
			Phase:       s.phase,
			Name:        s.name,
			Description: s.description,
			OrderIndex:  orderInPhase[s.phase],
		})
		orderInPhase[s.phase]++
	}
	return milestones
}
