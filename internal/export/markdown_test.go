package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

func fullSpec() *spec.Spec {
	return &spec.Spec{
		ID:                   "65a1b2c3d4e5f60718293a4b",
		Title:                "Acme CRM",
		Goal:                 "Track leads without spreadsheets",
		TargetUser:           "sales reps",
		Summary:              "A lightweight CRM",
		ProductType:          "saas",
		Complexity:           "medium",
		EstimatedTimeline:    "3 months",
		SuccessCriteria:      []string{"50 active teams", "fast lead entry"},
		TechnicalConstraints: []string{"on-prem only"},
		TimelineConstraint:   "before Q3",
		BudgetConstraint:     "Not specified",
		Stories: []spec.Story{
			{
				Title:       "Lead capture",
				Description: "Record a new lead quickly",
				Order:       0,
				Tasks: []spec.Task{
					{Content: "design lead form", Order: 0},
					{Content: "persist lead record", Order: 1},
				},
			},
			{Title: "Pipeline view", Description: "See leads by stage", Order: 1, Tasks: []spec.Task{}},
		},
		Risks:    []spec.Risk{{Content: "reps keep using spreadsheets", Order: 0}},
		Unknowns: []spec.Unknown{{Content: "email provider priorities", Order: 0}},
		Milestones: []spec.Milestone{
			{Title: "MVP", Description: "Lead capture working", Order: 0},
			{Title: "Launch", Description: "Public availability", Order: 1},
		},
	}
}

func TestMarkdown(t *testing.T) {
	t.Run("renders heading, summary and metadata", func(t *testing.T) {
		md := Markdown(fullSpec())

		assert.True(t, strings.HasPrefix(md, "# Acme CRM\n"))
		assert.Contains(t, md, "> A lightweight CRM\n")
		assert.Contains(t, md, "**Product Type:** saas | **Complexity:** medium | **Timeline:** 3 months")
	})

	t.Run("renders sections in fixed order", func(t *testing.T) {
		md := Markdown(fullSpec())

		sections := []string{
			"## Overview",
			"## Success Criteria",
			"## Technical Constraints",
			"## User Stories & Tasks",
			"## Milestones",
			"## Risks",
			"## Unknowns",
		}
		last := -1
		for _, section := range sections {
			idx := strings.Index(md, section)
			require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
			assert.Greater(t, idx, last, "section %q out of order", section)
			last = idx
		}
	})

	t.Run("numbers stories and renders tasks as checklists", func(t *testing.T) {
		md := Markdown(fullSpec())

		assert.Contains(t, md, "### 1. Lead capture")
		assert.Contains(t, md, "### 2. Pipeline view")
		assert.Contains(t, md, "- [ ] design lead form")
		assert.Contains(t, md, "- [ ] persist lead record")
	})

	t.Run("renders milestones numbered and risks and unknowns as bullets", func(t *testing.T) {
		md := Markdown(fullSpec())

		assert.Contains(t, md, "1. **MVP** — Lead capture working")
		assert.Contains(t, md, "2. **Launch** — Public availability")
		assert.Contains(t, md, "- reps keep using spreadsheets")
		assert.Contains(t, md, "- email provider priorities")
	})

	t.Run("omits empty sections", func(t *testing.T) {
		sp := fullSpec()
		sp.SuccessCriteria = nil
		sp.Risks = nil
		md := Markdown(sp)

		assert.NotContains(t, md, "## Success Criteria")
		assert.NotContains(t, md, "## Risks")
		assert.Contains(t, md, "## Unknowns")
	})

	t.Run("omits blank constraints from the overview", func(t *testing.T) {
		sp := fullSpec()
		sp.TimelineConstraint = ""
		md := Markdown(sp)

		assert.NotContains(t, md, "**Timeline Constraint:**")
		assert.Contains(t, md, "**Budget Constraint:** Not specified")
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, Markdown(fullSpec()), Markdown(fullSpec()))
	})
}
