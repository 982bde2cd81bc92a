package model

import (
	"bytes"
	"encoding/json"
)

// Request bodies accepted by the JSON API. Field constraints are enforced
// by the validation package through the validate tags.

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

type GoalCreate struct {
	Year        int      `json:"year" validate:"omitempty,gte=1970,lte=9999"`
	Person      string   `json:"person" validate:"required,max=50"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Category    string   `json:"category" validate:"max=50"`
	TargetDate  *string  `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
	IsHabit     bool     `json:"is_habit"`
	Milestones  []string `json:"milestones" validate:"max=100,dive,required,max=200"`
}

// GoalUpdate is a merge patch: nil fields are left untouched.
type GoalUpdate struct {
	Year        *int           `json:"year" validate:"omitempty,gte=1970,lte=9999"`
	Person      *string        `json:"person" validate:"omitempty,min=1,max=50"`
	Title       *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Category    *string        `json:"category" validate:"omitempty,max=50"`
	Progress    *int           `json:"progress" validate:"omitempty,gte=0,lte=100"`
	TargetDate  OptionalString `json:"target_date"`
	IsHabit     *bool          `json:"is_habit"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (u GoalUpdate) IsEmpty() bool {
	return u.Year == nil && u.Person == nil && u.Title == nil && u.Description == nil &&
		u.Category == nil && u.Progress == nil && !u.TargetDate.Set && u.IsHabit == nil
}

type MilestoneCreate struct {
	Title string `json:"title" validate:"required,max=200"`
}

type MilestoneUpdate struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Completed *bool   `json:"completed"`
	Order     *int    `json:"order" validate:"omitempty,gte=0"`
}

type CheckInCreate struct {
	Note string `json:"note" validate:"required,max=1000"`
}

// OptionalString distinguishes an absent JSON field from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	o.Value = &s
	return nil
}
