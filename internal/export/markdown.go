// Package export renders a full specification as a flat markdown document.
package export

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// Markdown renders sp deterministically: heading, blockquote summary,
// metadata line, then fixed-order sections. Empty sections are omitted and
// every list is rendered in ascending stored order.
func Markdown(sp *spec.Spec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", sp.Title)
	fmt.Fprintf(&b, "> %s\n\n", sp.Summary)
	fmt.Fprintf(&b, "**Product Type:** %s | **Complexity:** %s | **Timeline:** %s\n\n",
		sp.ProductType, sp.Complexity, sp.EstimatedTimeline)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "**Goal:** %s\n\n", sp.Goal)
	fmt.Fprintf(&b, "**Target Users:** %s\n\n", sp.TargetUser)
	if sp.TimelineConstraint != "" {
		fmt.Fprintf(&b, "**Timeline Constraint:** %s\n\n", sp.TimelineConstraint)
	}
	if sp.BudgetConstraint != "" {
		fmt.Fprintf(&b, "**Budget Constraint:** %s\n\n", sp.BudgetConstraint)
	}

	if len(sp.SuccessCriteria) > 0 {
		b.WriteString("## Success Criteria\n\n")
		for _, c := range sp.SuccessCriteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(sp.TechnicalConstraints) > 0 {
		b.WriteString("## Technical Constraints\n\n")
		for _, c := range sp.TechnicalConstraints {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(sp.Stories) > 0 {
		b.WriteString("## User Stories & Tasks\n\n")
		for i, story := range sp.Stories {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, story.Title)
			fmt.Fprintf(&b, "%s\n\n", story.Description)
			if len(story.Tasks) > 0 {
				for _, task := range story.Tasks {
					fmt.Fprintf(&b, "- [ ] %s\n", task.Content)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(sp.Milestones) > 0 {
		b.WriteString("## Milestones\n\n")
		for i, m := range sp.Milestones {
			fmt.Fprintf(&b, "%d. **%s** — %s\n", i+1, m.Title, m.Description)
		}
		b.WriteString("\n")
	}

	if len(sp.Risks) > 0 {
		b.WriteString("## Risks\n\n")
		for _, r := range sp.Risks {
			fmt.Fprintf(&b, "- %s\n", r.Content)
		}
		b.WriteString("\n")
	}

	if len(sp.Unknowns) > 0 {
		b.WriteString("## Unknowns\n\n")
		for _, u := range sp.Unknowns {
			fmt.Fprintf(&b, "- %s\n", u.Content)
		}
		b.WriteString("\n")
	}

	return b.String()
}
