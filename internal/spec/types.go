// Package spec defines the domain model for product specifications:
// the entity graph produced by generation (Spec owning Stories, Risks,
// Unknowns and Milestones, Stories owning Tasks), the external payloads,
// and the validation rules applied at every boundary.
package spec

import "time"

// DefaultConstraint is stored for timeline/budget constraints the user
// did not provide.
const DefaultConstraint = "Not specified"

// ProductTypes lists the product type tags suggested by the intake form.
// The field itself is a free-form tag and is not validated against this list.
var ProductTypes = []string{
	"web-app",
	"mobile-app",
	"api",
	"desktop-app",
	"cli",
	"saas",
	"other",
}

// ComplexityLevels lists the complexity tags the model is expected to assign.
// Like ProductTypes, this is advisory vocabulary, not an enforced enum.
var ComplexityLevels = []string{"low", "medium", "high", "very-high"}

// Spec is the root product-specification record with all children resolved.
type Spec struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Goal                 string      `json:"goal"`
	TargetUser           string      `json:"targetUser"`
	Summary              string      `json:"summary"`
	ProductType          string      `json:"productType"`
	Complexity           string      `json:"complexity"`
	EstimatedTimeline    string      `json:"estimatedTimeline"`
	SuccessCriteria      []string    `json:"successCriteria"`
	TechnicalConstraints []string    `json:"technicalConstraints"`
	TimelineConstraint   string      `json:"timelineConstraint"`
	BudgetConstraint     string      `json:"budgetConstraint"`
	Stories              []Story     `json:"stories"`
	Risks                []Risk      `json:"risks"`
	Unknowns             []Unknown   `json:"unknowns"`
	Milestones           []Milestone `json:"milestones"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// Story is a user-facing feature narrative grouping related tasks.
// Order is a zero-based dense index unique within the owning spec.
type Story struct {
	ID          string    `json:"id"`
	SpecID      string    `json:"specId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Tasks       []Task    `json:"tasks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Task is an atomic work item under a story.
type Task struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"storyId"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Risk is a flagged potential problem for the product.
type Risk struct {
	ID        string    `json:"id"`
	SpecID    string    `json:"specId"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unknown is an open question requiring future resolution. It is
// structurally identical to Risk but kept as its own entity.
type Unknown struct {
	ID        string    `json:"id"`
	SpecID    string    `json:"specId"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Milestone is a named delivery checkpoint.
type Milestone struct {
	ID          string    `json:"id"`
	SpecID      string    `json:"specId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListItem is the summary view returned by list queries (no children).
type ListItem struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Goal              string    `json:"goal"`
	ProductType       string    `json:"productType"`
	Complexity        string    `json:"complexity"`
	EstimatedTimeline string    `json:"estimatedTimeline"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Pagination describes the envelope returned with list results.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// GenerateRequest is the user's product idea submitted for generation.
// The four constraint fields are optional free text; empty means absent.
type GenerateRequest struct {
	Title                string `json:"title"`
	Goal                 string `json:"goal"`
	TargetUsers          string `json:"targetUsers"`
	ProductType          string `json:"productType"`
	SuccessCriteria      string `json:"successCriteria,omitempty"`
	TechnicalConstraints string `json:"technicalConstraints,omitempty"`
	TimelineConstraint   string `json:"timelineConstraint,omitempty"`
	BudgetConstraint     string `json:"budgetConstraint,omitempty"`
}

// AIOutput is the structured document the model must return. It is
// validated before any persistence happens; a spec and its children are
// materialized from it by the store.
type AIOutput struct {
	Title             string        `json:"title"`
	Goal              string        `json:"goal"`
	TargetUser        string        `json:"targetUser"`
	Summary           string        `json:"summary"`
	ProductType       string        `json:"productType"`
	Complexity        string        `json:"complexity"`
	EstimatedTimeline string        `json:"estimatedTimeline"`
	SuccessCriteria   []string      `json:"successCriteria"`
	Stories           []AIStory     `json:"stories"`
	Risks             []string      `json:"risks"`
	Unknowns          []string      `json:"unknowns"`
	Milestones        []AIMilestone `json:"milestones"`
}

// AIStory is a story as returned by the model: tasks are bare strings,
// ordering is implied by array position.
type AIStory struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

// AIMilestone is a milestone as returned by the model.
type AIMilestone struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdatePayload carries a partial update of the mutable top-level spec
// fields. Nil means "leave unchanged"; at least one field must be set.
type UpdatePayload struct {
	Title                *string   `json:"title,omitempty"`
	Goal                 *string   `json:"goal,omitempty"`
	TargetUser           *string   `json:"targetUser,omitempty"`
	Summary              *string   `json:"summary,omitempty"`
	TimelineConstraint   *string   `json:"timelineConstraint,omitempty"`
	BudgetConstraint     *string   `json:"budgetConstraint,omitempty"`
	TechnicalConstraints *[]string `json:"technicalConstraints,omitempty"`
	SuccessCriteria      *[]string `json:"successCriteria,omitempty"`
}

// Empty reports whether the payload contains no recognized fields.
func (p *UpdatePayload) Empty() bool {
	return p.Title == nil && p.Goal == nil && p.TargetUser == nil &&
		p.Summary == nil && p.TimelineConstraint == nil &&
		p.BudgetConstraint == nil && p.TechnicalConstraints == nil &&
		p.SuccessCriteria == nil
}

// ListOptions holds the parameters of a list query.
type ListOptions struct {
	Page        int
	Limit       int
	ProductType string
}
