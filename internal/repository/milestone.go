package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gmgoals/goals/internal/model"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

type MilestoneRepository interface {
	Create(ctx context.Context, goalID int64, title string) (*model.Milestone, error)
	Update(ctx context.Context, id int64, apply func(m *model.Milestone)) (*model.Milestone, error)
	Delete(ctx context.Context, id int64) error
	ByGoalIDs(ctx context.Context, goalIDs []int64) (map[int64][]*model.Milestone, error)
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

const milestoneColumns = `id, goal_id, title, completed, sort_order, created_at`

func insertMilestone(ctx context.Context, tx *sqlx.Tx, m *model.Milestone) error {
	query := `INSERT INTO milestones (goal_id, title, completed, sort_order, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := tx.QueryRowxContext(ctx, query,
		m.GoalID,
		m.Title,
		m.Completed,
		m.Order,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert milestone: %w", err)
	}

	return nil
}

// Create appends a milestone to the goal. Its order is the number of
// milestones the goal already has, counted under the goal lock.
func (r *milestoneRepository) Create(ctx context.Context, goalID int64, title string) (*model.Milestone, error) {
	now := time.Now().UTC()
	m := &model.Milestone{GoalID: goalID, Title: title, CreatedAt: now}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := lockGoal(ctx, tx, goalID, now)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &m.Order, `SELECT COUNT(*) FROM milestones WHERE goal_id = $1`, goalID)
		if err != nil {
			return fmt.Errorf("count milestones: %w", err)
		}

		err = insertMilestone(ctx, tx, m)
		if err != nil {
			return err
		}

		return recomputeProgress(ctx, tx, goalID)
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *milestoneRepository) Update(ctx context.Context, id int64, apply func(m *model.Milestone)) (*model.Milestone, error) {
	m := &model.Milestone{}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := r.lockOwner(ctx, tx, id)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, m, `SELECT `+milestoneColumns+` FROM milestones WHERE id = $1`, id)
		if isNoRows(err) {
			return ErrMilestoneNotFound
		}
		if err != nil {
			return err
		}

		apply(m)

		query := `UPDATE milestones SET title = $1, completed = $2, sort_order = $3 WHERE id = $4`
		_, err = tx.ExecContext(ctx, query, m.Title, m.Completed, m.Order, id)
		if err != nil {
			return fmt.Errorf("update milestone: %w", err)
		}

		return recomputeProgress(ctx, tx, m.GoalID)
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes the milestone. Remaining orders are left as they are.
func (r *milestoneRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		goalID, err := r.lockOwner(ctx, tx, id)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM milestones WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete milestone: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrMilestoneNotFound
		}

		return recomputeProgress(ctx, tx, goalID)
	})
}

// lockOwner takes the lock on the goal owning milestone id.
func (r *milestoneRepository) lockOwner(ctx context.Context, tx *sqlx.Tx, id int64) (int64, error) {
	var goalID int64
	err := tx.GetContext(ctx, &goalID, `SELECT goal_id FROM milestones WHERE id = $1`, id)
	if isNoRows(err) {
		return 0, ErrMilestoneNotFound
	}
	if err != nil {
		return 0, err
	}

	err = lockGoal(ctx, tx, goalID, time.Now().UTC())
	if errors.Is(err, ErrGoalNotFound) {
		// the goal and its milestones went away in between
		return 0, ErrMilestoneNotFound
	}

	return goalID, err
}

// ByGoalIDs groups milestones by goal, ordered by order then id.
func (r *milestoneRepository) ByGoalIDs(ctx context.Context, goalIDs []int64) (map[int64][]*model.Milestone, error) {
	out := make(map[int64][]*model.Milestone, len(goalIDs))
	if len(goalIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+milestoneColumns+` FROM milestones WHERE goal_id IN (?) ORDER BY sort_order, id`, goalIDs)
	if err != nil {
		return nil, err
	}

	var milestones []*model.Milestone
	err = r.db.SelectContext(ctx, &milestones, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select milestones: %w", err)
	}

	for _, m := range milestones {
		out[m.GoalID] = append(out[m.GoalID], m)
	}

	return out, nil
}
