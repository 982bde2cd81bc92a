package model

import (
	"time"
)

const DefaultCategory = "Personal"

type Goal struct {
	ID          int64        `db:"id" json:"id"`
	Person      string       `db:"person" json:"person"`
	Year        int          `db:"year" json:"year"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Category    string       `db:"category" json:"category"`
	Progress    int          `db:"progress" json:"progress"`
	TargetDate  *string      `db:"target_date" json:"target_date"`
	IsHabit     bool         `db:"is_habit" json:"is_habit"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	Milestones  []*Milestone `db:"-" json:"milestones"`
	CheckIns    []*CheckIn   `db:"-" json:"checkins"`
}

// IsCompleted reports whether the goal has reached 100%.
func (g *Goal) IsCompleted() bool {
	return g.Progress >= 100
}

// GoalFilter narrows a goal listing. Zero values mean "any".
type GoalFilter struct {
	Year   int
	Person string
}
