package model

import (
	"time"
)

// CheckIn is a dated progress note. It is never edited, only deleted.
type CheckIn struct {
	ID        int64     `db:"id" json:"id"`
	GoalID    int64     `db:"goal_id" json:"goal_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
