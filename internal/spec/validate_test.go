package spec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() GenerateRequest {
	return GenerateRequest{
		Title:       "Acme CRM",
		Goal:        "Help small sales teams track leads without spreadsheets",
		TargetUsers: "sales reps at 5-20 person startups",
		ProductType: "saas",
	}
}

func TestGenerateRequestValidate(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		req := validRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("title boundary is inclusive", func(t *testing.T) {
		req := validRequest()
		req.Title = "ab"
		err := req.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "title", verr.Fields[0].Field)

		req.Title = "abc"
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects overlong title", func(t *testing.T) {
		req := validRequest()
		req.Title = strings.Repeat("x", 201)
		assert.Error(t, req.Validate())

		req.Title = strings.Repeat("x", 200)
		assert.NoError(t, req.Validate())
	})

	t.Run("collects every failing field", func(t *testing.T) {
		req := GenerateRequest{}
		err := req.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 4)
	})

	t.Run("goal and targetUsers minimums", func(t *testing.T) {
		req := validRequest()
		req.Goal = "too short"
		assert.Error(t, req.Validate())

		req = validRequest()
		req.TargetUsers = "ab"
		assert.Error(t, req.Validate())
	})
}

func TestValidateID(t *testing.T) {
	t.Run("accepts 24-char lowercase hex", func(t *testing.T) {
		assert.NoError(t, ValidateID("65a1b2c3d4e5f60718293a4b"))
	})

	t.Run("accepts uppercase hex", func(t *testing.T) {
		assert.NoError(t, ValidateID("65A1B2C3D4E5F60718293A4B"))
	})

	t.Run("rejects malformed ids as validation errors", func(t *testing.T) {
		for _, id := range []string{"not-hex", "", "65a1b2c3d4e5f60718293a4", "65a1b2c3d4e5f60718293a4bc", "zza1b2c3d4e5f60718293a4b"} {
			err := ValidateID(id)
			require.Error(t, err, "id %q", id)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		}
	})
}

func TestUpdatePayloadValidate(t *testing.T) {
	t.Run("rejects payload with zero recognized fields", func(t *testing.T) {
		p := &UpdatePayload{}
		err := p.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "body", verr.Fields[0].Field)
	})

	t.Run("re-validates provided fields", func(t *testing.T) {
		title := "ab"
		p := &UpdatePayload{Title: &title}
		assert.Error(t, p.Validate())

		title = "abc"
		assert.NoError(t, p.Validate())
	})

	t.Run("accepts a single list field", func(t *testing.T) {
		criteria := []string{"ships on time"}
		p := &UpdatePayload{SuccessCriteria: &criteria}
		assert.NoError(t, p.Validate())
	})
}

func TestListOptionsValidate(t *testing.T) {
	t.Run("accepts bounds inclusively", func(t *testing.T) {
		assert.NoError(t, (&ListOptions{Page: 1, Limit: 1}).Validate())
		assert.NoError(t, (&ListOptions{Page: 1, Limit: 100}).Validate())
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		assert.Error(t, (&ListOptions{Page: 0, Limit: 20}).Validate())
		assert.Error(t, (&ListOptions{Page: 1, Limit: 0}).Validate())
		assert.Error(t, (&ListOptions{Page: 1, Limit: 101}).Validate())
	})
}

func validAIOutput() AIOutput {
	return AIOutput{
		Title:             "Acme CRM",
		Goal:              "Help small sales teams track leads",
		TargetUser:        "sales reps",
		Summary:           "A lightweight CRM",
		ProductType:       "saas",
		Complexity:        "medium",
		EstimatedTimeline: "3 months",
		SuccessCriteria:   []string{"adoption"},
		Stories: []AIStory{
			{Title: "Lead capture", Description: "Capture leads", Tasks: []string{"form", "api"}},
		},
		Risks:      []string{"churn"},
		Unknowns:   []string{"pricing"},
		Milestones: []AIMilestone{{Title: "MVP", Description: "First release"}},
	}
}

func TestAIOutputValidate(t *testing.T) {
	t.Run("accepts a complete document", func(t *testing.T) {
		out := validAIOutput()
		assert.NoError(t, out.Validate())
	})

	t.Run("rejects missing scalar fields", func(t *testing.T) {
		out := validAIOutput()
		out.Complexity = ""
		err := out.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "complexity", verr.Fields[0].Field)
	})

	t.Run("rejects absent lists", func(t *testing.T) {
		out := validAIOutput()
		out.Risks = nil
		assert.Error(t, out.Validate())

		out = validAIOutput()
		out.Stories = nil
		assert.Error(t, out.Validate())
	})

	t.Run("accepts empty but present lists", func(t *testing.T) {
		out := validAIOutput()
		out.Risks = []string{}
		out.Stories = []AIStory{}
		out.Unknowns = []string{}
		out.Milestones = []AIMilestone{}
		assert.NoError(t, out.Validate())
	})

	t.Run("rejects incomplete nested stories", func(t *testing.T) {
		out := validAIOutput()
		out.Stories[0].Tasks = nil
		assert.Error(t, out.Validate())

		out = validAIOutput()
		out.Stories[0].Description = ""
		assert.Error(t, out.Validate())
	})
}

func TestErrorKinds(t *testing.T) {
	t.Run("not found is a sentinel", func(t *testing.T) {
		assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	})

	t.Run("validation error message lists fields", func(t *testing.T) {
		e := &ValidationError{Fields: []FieldError{{Field: "title", Message: "is required"}}}
		assert.Contains(t, e.Error(), "title: is required")
	})

	t.Run("conflict error carries the key", func(t *testing.T) {
		e := &ConflictError{Key: "stories.spec_id, stories.ord"}
		assert.Contains(t, e.Error(), "stories.ord")
	})
}

func TestUpdatePayloadEmpty(t *testing.T) {
	assert.True(t, (&UpdatePayload{}).Empty())

	goal := "a much longer goal statement"
	assert.False(t, (&UpdatePayload{Goal: &goal}).Empty())
}
