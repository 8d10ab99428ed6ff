package genai

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// Substitutions for absent optional fields. Each line is always present in
// the prompt; an absent field is spelled out as "not specified, use your
// judgement" instead of being dropped.
const (
	criteriaFallback = "Not specified by user, some reasonable defaults can be assumed based on the goal and product type"
	techFallback     = "None specified, use your judgement to assume any reasonable constraints based on the product type and goal"
	timelineFallback = "Not specified by user, use your judgement to assume a reasonable timeline for a product of this type and complexity"
	budgetFallback   = "Not specified by user, use your judgement to assume a reasonable budget for a product of this type and complexity"
)

// outputSchema is the exact document shape the model must return.
const outputSchema = `{
  "title": "string",
  "goal": "string",
  "targetUser": "string",
  "summary": "string",
  "productType": "string",
  "complexity": "string",
  "estimatedTimeline": "string",
  "successCriteria": ["string"],
  "stories": [
    {
      "title": "string",
      "description": "string",
      "tasks": ["string"]
    }
  ],
  "risks": ["string"],
  "unknowns": ["string"],
  "milestones": [
    {
      "title": "string",
      "description": "string"
    }
  ]
}`

// buildPrompt embeds every request field into a single instruction. Optional
// fields that are absent are substituted with an explicit fallback sentence
// rather than dropped.
func buildPrompt(req *spec.GenerateRequest) string {
	var b strings.Builder
	b.WriteString("You are a senior product architect.\n\n")
	b.WriteString("Use the following user constraints carefully.\n\n")
	b.WriteString("User Input:\n")
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "Target Users: %s\n", req.TargetUsers)
	fmt.Fprintf(&b, "Product Type: %s\n\n", req.ProductType)
	fmt.Fprintf(&b, "Success Criteria: %s\n", fallback(req.SuccessCriteria, criteriaFallback))
	fmt.Fprintf(&b, "Technical Constraints: %s\n", fallback(req.TechnicalConstraints, techFallback))
	fmt.Fprintf(&b, "Timeline Constraint: %s\n", fallback(req.TimelineConstraint, timelineFallback))
	fmt.Fprintf(&b, "Budget Constraint: %s\n\n", fallback(req.BudgetConstraint, budgetFallback))
	b.WriteString("Generate a structured product specification in STRICT JSON format.\n\n")
	b.WriteString("Return ONLY valid JSON with this structure:\n\n")
	b.WriteString(outputSchema)
	b.WriteString("\n\nRespect technical, budget, and timeline constraints while planning.\n")
	return b.String()
}

func fallback(value, substitute string) string {
	if strings.TrimSpace(value) == "" {
		return substitute
	}
	return value
}
