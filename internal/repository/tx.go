package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gmgoals/goals/internal/model"
)

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = fn(tx)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// lockGoal bumps the goal's updated_at as the first write of a transaction.
// On Postgres this takes the row lock, on SQLite the database write lock,
// so every read that follows sees a state no concurrent mutation can change.
func lockGoal(ctx context.Context, tx *sqlx.Tx, goalID int64, now time.Time) error {
	result, err := tx.ExecContext(ctx, `UPDATE goals SET updated_at = $1 WHERE id = $2`, now, goalID)
	if err != nil {
		return fmt.Errorf("lock goal %d: %w", goalID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// recomputeProgress derives the goal's progress from its milestones.
// Goals without milestones keep their manual value.
func recomputeProgress(ctx context.Context, tx *sqlx.Tx, goalID int64) error {
	var counts struct {
		Total     int `db:"total"`
		Completed int `db:"completed"`
	}

	query := `SELECT COUNT(*) AS total,
	                 COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed
	          FROM milestones WHERE goal_id = $1`

	err := tx.GetContext(ctx, &counts, query, goalID)
	if err != nil {
		return fmt.Errorf("count milestones: %w", err)
	}

	progress, ok := model.MilestoneProgress(counts.Completed, counts.Total)
	if !ok {
		return nil
	}

	_, err = tx.ExecContext(ctx, `UPDATE goals SET progress = $1 WHERE id = $2`, progress, goalID)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}

	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
