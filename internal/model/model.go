// Package model defines the core data structures for LaunchLedger.
package model

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownTemplate is returned when a template name is not one of Templates.
var ErrUnknownTemplate = errors.New("unknown dashboard template")

// Category groups catalog tasks. The set is closed.
type Category string

// Task categories, in display order.
const (
	CategorySetup      Category = "setup"
	CategoryMaterials  Category = "materials"
	CategoryMarketing  Category = "marketing"
	CategoryOperations Category = "operations"
	CategoryGrowth     Category = "growth"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySetup,
	CategoryMaterials,
	CategoryMarketing,
	CategoryOperations,
	CategoryGrowth,
}

// Rank returns the position of c in Categories, or -1 if c is not a known category.
func (c Category) Rank() int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return -1
}

// Label returns the display name, e.g. "Operations".
func (c Category) Label() string {
	return cases.Title(language.English).String(string(c))
}

// ParseCategory converts a user-supplied name into a Category.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if c.Rank() < 0 {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// Phase is a business-maturity stage. Phases are totally ordered.
type Phase string

// Business phases, from earliest to latest.
const (
	PhaseIdea   Phase = "idea"
	PhaseLaunch Phase = "launch"
	PhaseGrowth Phase = "growth"
	PhaseScale  Phase = "scale"
)

// Phases lists every phase from earliest to latest.
var Phases = []Phase{PhaseIdea, PhaseLaunch, PhaseGrowth, PhaseScale}

// Rank returns the position of p in Phases, or -1 if p is not a known phase.
func (p Phase) Rank() int {
	for i, known := range Phases {
		if p == known {
			return i
		}
	}
	return -1
}

// Label returns the display name, e.g. "Launch Phase".
func (p Phase) Label() string {
	return cases.Title(language.English).String(string(p)) + " Phase"
}

// Template is a dashboard rendering mode over the task catalog.
type Template string

// Dashboard templates.
const (
	TemplateChecklist  Template = "checklist"
	TemplateMilestones Template = "milestones"
	TemplateTimeline   Template = "timeline"
	TemplateMetrics    Template = "metrics"
)

// DefaultTemplate is used when no choice has been stored for a plan.
const DefaultTemplate = TemplateChecklist

// Templates lists every template in switcher order.
var Templates = []Template{TemplateChecklist, TemplateMilestones, TemplateTimeline, TemplateMetrics}

// Valid reports whether t is one of Templates.
func (t Template) Valid() bool {
	for _, known := range Templates {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTemplate converts a user-supplied name into a Template.
func ParseTemplate(name string) (Template, error) {
	t := Template(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Task is a single checklist item in a plan's catalog.
type Task struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Category    Category `yaml:"category" json:"category"`
	Completed   bool     `yaml:"completed" json:"completed"`
}

// Milestone is a phase-scoped item tracked per user in the milestone store.
type Milestone struct {
	ID          string     `yaml:"id" json:"id"`
	UserID      string     `yaml:"user_id" json:"user_id"`
	Phase       Phase      `yaml:"phase" json:"phase"`
	Name        string     `yaml:"milestone_name" json:"milestone_name"`
	Description string     `yaml:"description" json:"description"`
	Completed   bool       `yaml:"completed" json:"completed"`
	CompletedAt *time.Time `yaml:"completed_date,omitempty" json:"completed_date"`
	OrderIndex  int        `yaml:"order_index" json:"order_index"`
}

// PlanState is the blob persisted per plan id.
type PlanState struct {
	Tasks    []Task   `yaml:"tasks" json:"tasks"`
	Template Template `yaml:"template,omitempty" json:"template,omitempty"`
}

// BusinessIdea identifies the plan. ID doubles as the plan id.
type BusinessIdea struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Description     string `yaml:"description" json:"description"`
	InvestmentRange string `yaml:"investmentRange" json:"investmentRange"`
	RiskLevel       string `yaml:"riskLevel" json:"riskLevel"`
}

// WorkforceRequirement is one role the plan needs to hire for.
type WorkforceRequirement struct {
	Role            string `yaml:"role" json:"role"`
	SkillLevel      string `yaml:"skillLevel" json:"skillLevel"`
	Count           int    `yaml:"count" json:"count"`
	EstimatedSalary string `yaml:"estimatedSalary" json:"estimatedSalary"`
}

// LocationAdvice describes where the business should operate.
type LocationAdvice struct {
	AreaType     string   `yaml:"areaType" json:"areaType"`
	ShopSize     string   `yaml:"shopSize" json:"shopSize"`
	RentEstimate string   `yaml:"rentEstimate" json:"rentEstimate"`
	SetupNeeds   []string `yaml:"setupNeeds" json:"setupNeeds"`
}

// BusinessPlan is the generated plan. Only the fields the tracker reads are modeled;
// the remaining plan sections are ignored on load.
type BusinessPlan struct {
	Idea      BusinessIdea           `yaml:"idea" json:"idea"`
	Workforce []WorkforceRequirement `yaml:"workforce" json:"workforce"`
	Location  *LocationAdvice        `yaml:"location" json:"location"`
}

// PlanID returns the identifier used to key stored progress.
func (p *BusinessPlan) PlanID() string {
	if p == nil {
		return ""
	}
	return p.Idea.ID
}
