package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// CreateFromAI materializes the entity graph for one validated model output.
//
// The spec row is written first with its scalar fields; stories and their
// tasks follow in array order, then risks, unknowns and milestones, each
// child carrying its zero-based array position as the order index. Technical,
// timeline and budget constraints come from the original user request, never
// from the model output. The whole sequence runs in a single transaction, so
// a failed child write leaves no partial spec behind.
func (s *Store) CreateFromAI(ctx context.Context, ai *spec.AIOutput, req *spec.GenerateRequest) (*spec.Spec, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer tx.Rollback()

	now := encodeTime(time.Now())
	specID := newID()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO specs (
			id, title, goal, target_user, summary, product_type, complexity,
			estimated_timeline, success_criteria, technical_constraints,
			timeline_constraint, budget_constraint, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		specID, ai.Title, ai.Goal, ai.TargetUser, ai.Summary, ai.ProductType,
		ai.Complexity, ai.EstimatedTimeline,
		encodeList(ai.SuccessCriteria),
		encodeList(toStringList(req.TechnicalConstraints)),
		orDefault(req.TimelineConstraint),
		orDefault(req.BudgetConstraint),
		now, now,
	)
	if err != nil {
		return nil, wrapErr(err)
	}

	for i, st := range ai.Stories {
		storyID := newID()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stories (id, spec_id, title, description, ord, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			storyID, specID, st.Title, st.Description, i, now, now)
		if err != nil {
			return nil, wrapErr(err)
		}
		for j, content := range st.Tasks {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tasks (id, story_id, content, ord, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				newID(), storyID, content, j, now, now)
			if err != nil {
				return nil, wrapErr(err)
			}
		}
	}

	for i, content := range ai.Risks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO risks (id, spec_id, content, ord, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), specID, content, i, now, now)
		if err != nil {
			return nil, wrapErr(err)
		}
	}

	for i, content := range ai.Unknowns {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO unknowns (id, spec_id, content, ord, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), specID, content, i, now, now)
		if err != nil {
			return nil, wrapErr(err)
		}
	}

	for i, m := range ai.Milestones {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO milestones (id, spec_id, title, description, ord, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), specID, m.Title, m.Description, i, now, now)
		if err != nil {
			return nil, wrapErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr(err)
	}

	s.logger.Info("spec created",
		zap.String("spec_id", specID),
		zap.Int("stories", len(ai.Stories)),
		zap.Int("risks", len(ai.Risks)),
		zap.Int("unknowns", len(ai.Unknowns)),
		zap.Int("milestones", len(ai.Milestones)))

	return s.GetSpec(ctx, specID)
}

// toStringList normalizes a free-text constraint field: a non-empty string
// becomes a one-element list, absent becomes an empty list.
func toStringList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return []string{}
	}
	return []string{v}
}

func orDefault(v string) string {
	if v == "" {
		return spec.DefaultConstraint
	}
	return v
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
