package spec

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Spec field bounds, shared between create-time and update-time validation.
const (
	titleMinLen      = 3
	titleMaxLen      = 200
	goalMinLen       = 10
	targetUserMinLen = 3
	productTypeMin   = 2
	storyTitleMaxLen = 300
)

// List query bounds.
const (
	MinPage      = 1
	MinLimit     = 1
	MaxLimit     = 100
	DefaultPage  = 1
	DefaultLimit = 20
)

var idPattern = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// ValidateID checks the 24-character hexadecimal identifier format.
// A malformed id is a validation error, never a not-found.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		e := &ValidationError{}
		e.add("id", "must be a 24-character hexadecimal string")
		return e
	}
	return nil
}

// Validate checks the generation request against the intake contract.
// Length bounds are inclusive and counted in runes.
func (r *GenerateRequest) Validate() error {
	e := &ValidationError{}
	if utf8.RuneCountInString(r.Title) < titleMinLen {
		e.add("title", fmt.Sprintf("must be at least %d characters", titleMinLen))
	} else if utf8.RuneCountInString(r.Title) > titleMaxLen {
		e.add("title", fmt.Sprintf("cannot exceed %d characters", titleMaxLen))
	}
	if utf8.RuneCountInString(r.Goal) < goalMinLen {
		e.add("goal", fmt.Sprintf("must be at least %d characters", goalMinLen))
	}
	if utf8.RuneCountInString(r.TargetUsers) < targetUserMinLen {
		e.add("targetUsers", fmt.Sprintf("must be at least %d characters", targetUserMinLen))
	}
	if utf8.RuneCountInString(r.ProductType) < productTypeMin {
		e.add("productType", fmt.Sprintf("must be at least %d characters", productTypeMin))
	}
	return e.ok()
}

// Validate checks an update payload: at least one recognized field must be
// present, and provided fields are re-checked against the spec bounds.
func (p *UpdatePayload) Validate() error {
	e := &ValidationError{}
	if p.Empty() {
		e.add("body", "at least one field must be provided")
		return e
	}
	if p.Title != nil {
		n := utf8.RuneCountInString(*p.Title)
		if n < titleMinLen {
			e.add("title", fmt.Sprintf("must be at least %d characters", titleMinLen))
		} else if n > titleMaxLen {
			e.add("title", fmt.Sprintf("cannot exceed %d characters", titleMaxLen))
		}
	}
	if p.Goal != nil && utf8.RuneCountInString(*p.Goal) < goalMinLen {
		e.add("goal", fmt.Sprintf("must be at least %d characters", goalMinLen))
	}
	if p.TargetUser != nil && utf8.RuneCountInString(*p.TargetUser) < targetUserMinLen {
		e.add("targetUser", fmt.Sprintf("must be at least %d characters", targetUserMinLen))
	}
	return e.ok()
}

// Validate checks list query options after defaults have been applied.
func (o *ListOptions) Validate() error {
	e := &ValidationError{}
	if o.Page < MinPage {
		e.add("page", fmt.Sprintf("must be an integer >= %d", MinPage))
	}
	if o.Limit < MinLimit || o.Limit > MaxLimit {
		e.add("limit", fmt.Sprintf("must be an integer between %d and %d", MinLimit, MaxLimit))
	}
	return e.ok()
}

// Validate checks the model output against the AI-output contract. Any
// missing field, empty required string, or absent list is a hard failure;
// malformed output is never repaired.
func (a *AIOutput) Validate() error {
	e := &ValidationError{}
	requireString(e, "title", a.Title)
	requireString(e, "goal", a.Goal)
	requireString(e, "targetUser", a.TargetUser)
	requireString(e, "summary", a.Summary)
	requireString(e, "productType", a.ProductType)
	requireString(e, "complexity", a.Complexity)
	requireString(e, "estimatedTimeline", a.EstimatedTimeline)
	if a.SuccessCriteria == nil {
		e.add("successCriteria", "must be a list of strings")
	}
	if a.Risks == nil {
		e.add("risks", "must be a list of strings")
	}
	if a.Unknowns == nil {
		e.add("unknowns", "must be a list of strings")
	}
	if a.Stories == nil {
		e.add("stories", "must be a list of stories")
	}
	for i, s := range a.Stories {
		requireString(e, fmt.Sprintf("stories[%d].title", i), s.Title)
		requireString(e, fmt.Sprintf("stories[%d].description", i), s.Description)
		if s.Tasks == nil {
			e.add(fmt.Sprintf("stories[%d].tasks", i), "must be a list of strings")
		}
	}
	if a.Milestones == nil {
		e.add("milestones", "must be a list of milestones")
	}
	for i, m := range a.Milestones {
		requireString(e, fmt.Sprintf("milestones[%d].title", i), m.Title)
		requireString(e, fmt.Sprintf("milestones[%d].description", i), m.Description)
	}
	return e.ok()
}

func requireString(e *ValidationError, field, value string) {
	if value == "" {
		e.add(field, "is required")
	}
}
