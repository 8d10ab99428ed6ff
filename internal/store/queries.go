package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

const specColumns = `id, title, goal, target_user, summary, product_type,
	complexity, estimated_timeline, success_criteria, technical_constraints,
	timeline_constraint, budget_constraint, created_at, updated_at`

// GetSpec reassembles a full spec: stories with their nested tasks, plus
// risks, unknowns and milestones, each list ascending by stored order.
// Ids are hex-case-insensitive; rows are stored lowercase.
func (s *Store) GetSpec(ctx context.Context, id string) (*spec.Spec, error) {
	id = strings.ToLower(id)
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM specs WHERE id = ?`, specColumns), id)

	sp, err := scanSpec(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, spec.ErrNotFound
		}
		return nil, wrapErr(err)
	}

	if sp.Stories, err = s.storiesForSpec(ctx, id); err != nil {
		return nil, wrapErr(err)
	}
	if sp.Risks, err = s.risksForSpec(ctx, id); err != nil {
		return nil, wrapErr(err)
	}
	if sp.Unknowns, err = s.unknownsForSpec(ctx, id); err != nil {
		return nil, wrapErr(err)
	}
	if sp.Milestones, err = s.milestonesForSpec(ctx, id); err != nil {
		return nil, wrapErr(err)
	}
	return sp, nil
}

// ListSpecs returns summary rows, newest first, with a pagination envelope.
// A page past the end yields an empty list, not an error.
func (s *Store) ListSpecs(ctx context.Context, opts spec.ListOptions) ([]spec.ListItem, spec.Pagination, error) {
	where := ""
	args := []any{}
	if opts.ProductType != "" {
		where = " WHERE product_type = ?"
		args = append(args, opts.ProductType)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM specs"+where, args...).Scan(&total); err != nil {
		return nil, spec.Pagination{}, wrapErr(err)
	}

	query := `SELECT id, title, goal, product_type, complexity, estimated_timeline, created_at
		FROM specs` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, spec.Pagination{}, wrapErr(err)
	}
	defer rows.Close()

	items := []spec.ListItem{}
	for rows.Next() {
		var it spec.ListItem
		var created string
		if err := rows.Scan(&it.ID, &it.Title, &it.Goal, &it.ProductType,
			&it.Complexity, &it.EstimatedTimeline, &created); err != nil {
			return nil, spec.Pagination{}, wrapErr(err)
		}
		it.CreatedAt = decodeTime(created)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, spec.Pagination{}, wrapErr(err)
	}

	pagination := spec.Pagination{
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
		Pages: (total + opts.Limit - 1) / opts.Limit,
	}
	return items, pagination, nil
}

// UpdateSpec applies the provided subset of mutable scalar fields and
// returns the updated full spec.
func (s *Store) UpdateSpec(ctx context.Context, id string, p *spec.UpdatePayload) (*spec.Spec, error) {
	id = strings.ToLower(id)
	set := []string{}
	args := []any{}
	appendField := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if p.Title != nil {
		appendField("title", *p.Title)
	}
	if p.Goal != nil {
		appendField("goal", *p.Goal)
	}
	if p.TargetUser != nil {
		appendField("target_user", *p.TargetUser)
	}
	if p.Summary != nil {
		appendField("summary", *p.Summary)
	}
	if p.TimelineConstraint != nil {
		appendField("timeline_constraint", *p.TimelineConstraint)
	}
	if p.BudgetConstraint != nil {
		appendField("budget_constraint", *p.BudgetConstraint)
	}
	if p.TechnicalConstraints != nil {
		appendField("technical_constraints", encodeList(*p.TechnicalConstraints))
	}
	if p.SuccessCriteria != nil {
		appendField("success_criteria", encodeList(*p.SuccessCriteria))
	}
	appendField("updated_at", encodeTime(time.Now()))
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE specs SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, wrapErr(err)
	}
	if affected == 0 {
		return nil, spec.ErrNotFound
	}
	return s.GetSpec(ctx, id)
}

// DeleteSpec removes a spec and everything it owns, in dependency order:
// tasks of owned stories first, then stories, risks, unknowns and
// milestones, then the spec row itself. The cascade runs in one transaction.
func (s *Store) DeleteSpec(ctx context.Context, id string) error {
	id = strings.ToLower(id)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM specs WHERE id = ?", id).Scan(&exists); err != nil {
		return wrapErr(err)
	}
	if exists == 0 {
		return spec.ErrNotFound
	}

	steps := []string{
		"DELETE FROM tasks WHERE story_id IN (SELECT id FROM stories WHERE spec_id = ?)",
		"DELETE FROM stories WHERE spec_id = ?",
		"DELETE FROM risks WHERE spec_id = ?",
		"DELETE FROM unknowns WHERE spec_id = ?",
		"DELETE FROM milestones WHERE spec_id = ?",
		"DELETE FROM specs WHERE id = ?",
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			return wrapErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr(err)
	}
	s.logger.Info("spec deleted", zap.String("spec_id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpec(row rowScanner) (*spec.Spec, error) {
	var sp spec.Spec
	var criteria, constraints, created, updated string
	err := row.Scan(&sp.ID, &sp.Title, &sp.Goal, &sp.TargetUser, &sp.Summary,
		&sp.ProductType, &sp.Complexity, &sp.EstimatedTimeline,
		&criteria, &constraints, &sp.TimelineConstraint, &sp.BudgetConstraint,
		&created, &updated)
	if err != nil {
		return nil, err
	}
	sp.SuccessCriteria = decodeList(criteria)
	sp.TechnicalConstraints = decodeList(constraints)
	sp.CreatedAt = decodeTime(created)
	sp.UpdatedAt = decodeTime(updated)
	return &sp, nil
}

func (s *Store) storiesForSpec(ctx context.Context, specID string) ([]spec.Story, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, title, description, ord, created_at, updated_at
		FROM stories WHERE spec_id = ? ORDER BY ord ASC`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []spec.Story{}
	for rows.Next() {
		var st spec.Story
		var created, updated string
		if err := rows.Scan(&st.ID, &st.SpecID, &st.Title, &st.Description,
			&st.Order, &created, &updated); err != nil {
			return nil, err
		}
		st.CreatedAt = decodeTime(created)
		st.UpdatedAt = decodeTime(updated)
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stories {
		tasks, err := s.tasksForStory(ctx, stories[i].ID)
		if err != nil {
			return nil, err
		}
		stories[i].Tasks = tasks
	}
	return stories, nil
}

func (s *Store) tasksForStory(ctx context.Context, storyID string) ([]spec.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, story_id, content, ord, created_at, updated_at
		FROM tasks WHERE story_id = ? ORDER BY ord ASC`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []spec.Task{}
	for rows.Next() {
		var t spec.Task
		var created, updated string
		if err := rows.Scan(&t.ID, &t.StoryID, &t.Content, &t.Order, &created, &updated); err != nil {
			return nil, err
		}
		t.CreatedAt = decodeTime(created)
		t.UpdatedAt = decodeTime(updated)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) risksForSpec(ctx context.Context, specID string) ([]spec.Risk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, content, ord, created_at, updated_at
		FROM risks WHERE spec_id = ? ORDER BY ord ASC`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	risks := []spec.Risk{}
	for rows.Next() {
		var r spec.Risk
		var created, updated string
		if err := rows.Scan(&r.ID, &r.SpecID, &r.Content, &r.Order, &created, &updated); err != nil {
			return nil, err
		}
		r.CreatedAt = decodeTime(created)
		r.UpdatedAt = decodeTime(updated)
		risks = append(risks, r)
	}
	return risks, rows.Err()
}

func (s *Store) unknownsForSpec(ctx context.Context, specID string) ([]spec.Unknown, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, content, ord, created_at, updated_at
		FROM unknowns WHERE spec_id = ? ORDER BY ord ASC`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unknowns := []spec.Unknown{}
	for rows.Next() {
		var u spec.Unknown
		var created, updated string
		if err := rows.Scan(&u.ID, &u.SpecID, &u.Content, &u.Order, &created, &updated); err != nil {
			return nil, err
		}
		u.CreatedAt = decodeTime(created)
		u.UpdatedAt = decodeTime(updated)
		unknowns = append(unknowns, u)
	}
	return unknowns, rows.Err()
}

func (s *Store) milestonesForSpec(ctx context.Context, specID string) ([]spec.Milestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, spec_id, title, description, ord, created_at, updated_at
		FROM milestones WHERE spec_id = ? ORDER BY ord ASC`, specID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones := []spec.Milestone{}
	for rows.Next() {
		var m spec.Milestone
		var created, updated string
		if err := rows.Scan(&m.ID, &m.SpecID, &m.Title, &m.Description,
			&m.Order, &created, &updated); err != nil {
			return nil, err
		}
		m.CreatedAt = decodeTime(created)
		m.UpdatedAt = decodeTime(updated)
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}
