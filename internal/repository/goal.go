package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gmgoals/goals/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Goals(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error)
	ByID(ctx context.Context, id int64) (*model.Goal, error)
	Create(ctx context.Context, goal *model.Goal, milestones []string) error
	Update(ctx context.Context, id int64, apply func(goal *model.Goal) error) (*model.Goal, error)
	Delete(ctx context.Context, id int64) error
	Years(ctx context.Context) ([]int, error)
}

type goalRepository struct {
	db         *sqlx.DB
	milestones MilestoneRepository
	checkins   CheckInRepository
}

func NewGoalRepository(db *sqlx.DB, milestones MilestoneRepository, checkins CheckInRepository) GoalRepository {
	return &goalRepository{db: db, milestones: milestones, checkins: checkins}
}

const goalColumns = `id, person, year, title, description, category, progress, target_date, is_habit, created_at, updated_at`

// Goals lists goals newest first, each with its milestones and check-ins.
func (r *goalRepository) Goals(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error) {
	var (
		where []string
		args  []any
	)
	if filter.Year != 0 {
		args = append(args, filter.Year)
		where = append(where, "year = $"+strconv.Itoa(len(args)))
	}
	if filter.Person != "" {
		args = append(args, filter.Person)
		where = append(where, "person = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + goalColumns + ` FROM goals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	goals := []*model.Goal{}
	err := r.db.SelectContext(ctx, &goals, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select goals: %w", err)
	}

	err = r.attachChildren(ctx, goals)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) ByID(ctx context.Context, id int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, id)
	if isNoRows(err) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.attachChildren(ctx, []*model.Goal{goal})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Create inserts the goal and its initial milestones (orders 0..n-1) in one
// transaction. goal.ID, timestamps and Milestones are filled in.
func (r *goalRepository) Create(ctx context.Context, goal *model.Goal, milestones []string) error {
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO goals (person, year, title, description, category, progress, target_date, is_habit, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		          RETURNING id`

		err := tx.QueryRowxContext(ctx, query,
			goal.Person,
			goal.Year,
			goal.Title,
			goal.Description,
			goal.Category,
			goal.Progress,
			goal.TargetDate,
			goal.IsHabit,
			goal.CreatedAt,
			goal.UpdatedAt,
		).Scan(&goal.ID)
		if err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}

		goal.Milestones = make([]*model.Milestone, 0, len(milestones))
		goal.CheckIns = []*model.CheckIn{}
		for i, title := range milestones {
			m := &model.Milestone{GoalID: goal.ID, Title: title, Order: i, CreatedAt: now}
			err = insertMilestone(ctx, tx, m)
			if err != nil {
				return err
			}
			goal.Milestones = append(goal.Milestones, m)
		}

		if len(milestones) > 0 {
			err = recomputeProgress(ctx, tx, goal.ID)
			if err != nil {
				return err
			}
			goal.Progress = 0
		}

		return nil
	})
}

// Update loads the goal under the goal lock, lets apply change it, and
// writes it back. Goals with milestones get their progress recomputed in the
// same transaction, so a manual progress edit does not stick.
func (r *goalRepository) Update(ctx context.Context, id int64, apply func(goal *model.Goal) error) (*model.Goal, error) {
	now := time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := lockGoal(ctx, tx, id, now)
		if err != nil {
			return err
		}

		goal := &model.Goal{}
		err = tx.GetContext(ctx, goal, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
		if isNoRows(err) {
			return ErrGoalNotFound
		}
		if err != nil {
			return err
		}

		err = apply(goal)
		if err != nil {
			return err
		}

		query := `UPDATE goals
		          SET person = $1, year = $2, title = $3, description = $4, category = $5,
		              progress = $6, target_date = $7, is_habit = $8, updated_at = $9
		          WHERE id = $10`

		_, err = tx.ExecContext(ctx, query,
			goal.Person,
			goal.Year,
			goal.Title,
			goal.Description,
			goal.Category,
			goal.Progress,
			goal.TargetDate,
			goal.IsHabit,
			now,
			id,
		)
		if err != nil {
			return fmt.Errorf("update goal: %w", err)
		}

		return recomputeProgress(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}

	return r.ByID(ctx, id)
}

// Delete removes the goal's check-ins, milestones and the goal itself in one
// transaction.
func (r *goalRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM checkins WHERE goal_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete checkins: %w", err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM milestones WHERE goal_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete milestones: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrGoalNotFound
		}

		return nil
	})
}

// Years returns the distinct goal years, newest first.
func (r *goalRepository) Years(ctx context.Context) ([]int, error) {
	years := []int{}
	err := r.db.SelectContext(ctx, &years, `SELECT DISTINCT year FROM goals ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("select years: %w", err)
	}
	return years, nil
}

func (r *goalRepository) attachChildren(ctx context.Context, goals []*model.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	ids := make([]int64, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}

	milestones, err := r.milestones.ByGoalIDs(ctx, ids)
	if err != nil {
		return err
	}

	checkins, err := r.checkins.ByGoalIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, g := range goals {
		g.Milestones = milestones[g.ID]
		if g.Milestones == nil {
			g.Milestones = []*model.Milestone{}
		}
		g.CheckIns = checkins[g.ID]
		if g.CheckIns == nil {
			g.CheckIns = []*model.CheckIn{}
		}
	}

	return nil
}
