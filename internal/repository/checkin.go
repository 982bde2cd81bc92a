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
	ErrCheckInNotFound = errors.New("check-in not found")
)

type CheckInRepository interface {
	Create(ctx context.Context, goalID int64, note string) (*model.CheckIn, error)
	Delete(ctx context.Context, id int64) error
	ByGoalIDs(ctx context.Context, goalIDs []int64) (map[int64][]*model.CheckIn, error)
}

type checkInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(ctx context.Context, goalID int64, note string) (*model.CheckIn, error) {
	c := &model.CheckIn{GoalID: goalID, Note: note, CreatedAt: time.Now().UTC()}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM goals WHERE id = $1`, goalID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrGoalNotFound
		}

		query := `INSERT INTO checkins (goal_id, note, created_at) VALUES ($1, $2, $3) RETURNING id`
		err = tx.QueryRowxContext(ctx, query, c.GoalID, c.Note, c.CreatedAt).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert checkin: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *checkInRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM checkins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete checkin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCheckInNotFound
	}

	return nil
}

// ByGoalIDs groups check-ins by goal, newest first.
func (r *checkInRepository) ByGoalIDs(ctx context.Context, goalIDs []int64) (map[int64][]*model.CheckIn, error) {
	out := make(map[int64][]*model.CheckIn, len(goalIDs))
	if len(goalIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT id, goal_id, note, created_at FROM checkins WHERE goal_id IN (?) ORDER BY created_at DESC, id DESC`, goalIDs)
	if err != nil {
		return nil, err
	}

	var checkins []*model.CheckIn
	err = r.db.SelectContext(ctx, &checkins, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select checkins: %w", err)
	}

	for _, c := range checkins {
		out[c.GoalID] = append(out[c.GoalID], c)
	}

	return out, nil
}
