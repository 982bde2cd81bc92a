package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/repository"
	"github.com/gmgoals/goals/internal/validation"
)

type GoalService struct {
	repo        repository.GoalRepository
	persons     []string
	categories  []string
	currentYear int
}

func NewGoalService(repo repository.GoalRepository, cfg *config.Config) *GoalService {
	return &GoalService{
		repo:        repo,
		persons:     cfg.Persons(),
		categories:  config.Categories,
		currentYear: cfg.CurrentYear,
	}
}

func (s *GoalService) CurrentYear() int {
	return s.currentYear
}

func (s *GoalService) Goals(ctx context.Context, filter model.GoalFilter) ([]*model.Goal, error) {
	filter.Person = strings.TrimSpace(filter.Person)
	return s.repo.Goals(ctx, filter)
}

func (s *GoalService) Goal(ctx context.Context, id int64) (*model.Goal, error) {
	return s.repo.ByID(ctx, id)
}

func (s *GoalService) Create(ctx context.Context, req model.GoalCreate) (*model.Goal, error) {
	req.Person = strings.TrimSpace(req.Person)
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.TargetDate = trimOptional(req.TargetDate)
	for i, title := range req.Milestones {
		req.Milestones[i] = strings.TrimSpace(title)
	}

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	err = validation.ValidatePerson(req.Person, s.persons)
	if err != nil {
		return nil, err
	}

	category, err := validation.NormalizeCategory(req.Category, model.DefaultCategory, s.categories)
	if err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year = s.currentYear
	}

	goal := &model.Goal{
		Person:      req.Person,
		Year:        year,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		TargetDate:  req.TargetDate,
		IsHabit:     req.IsHabit,
	}

	err = s.repo.Create(ctx, goal, req.Milestones)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// Update applies a merge patch: only the fields present in req change.
func (s *GoalService) Update(ctx context.Context, id int64, req model.GoalUpdate) (*model.Goal, error) {
	req.Person = trimPtr(req.Person)
	req.Title = trimPtr(req.Title)
	req.Description = trimPtr(req.Description)
	req.TargetDate.Value = trimOptional(req.TargetDate.Value)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title == "" {
		return nil, validation.Invalid("title", "title must not be empty")
	}

	if req.Person != nil {
		err = validation.ValidatePerson(*req.Person, s.persons)
		if err != nil {
			return nil, err
		}
	}

	if req.TargetDate.Value != nil {
		err = validation.ValidateTargetDate(*req.TargetDate.Value)
		if err != nil {
			return nil, err
		}
	}

	var category *string
	if req.Category != nil {
		c, err := validation.NormalizeCategory(*req.Category, model.DefaultCategory, s.categories)
		if err != nil {
			return nil, err
		}
		category = &c
	}

	return s.repo.Update(ctx, id, func(goal *model.Goal) error {
		if req.Year != nil {
			goal.Year = *req.Year
		}
		if req.Person != nil {
			goal.Person = *req.Person
		}
		if req.Title != nil {
			goal.Title = *req.Title
		}
		if req.Description != nil {
			goal.Description = *req.Description
		}
		if category != nil {
			goal.Category = *category
		}
		if req.Progress != nil {
			goal.Progress = *req.Progress
		}
		if req.TargetDate.Set {
			goal.TargetDate = req.TargetDate.Value
		}
		if req.IsHabit != nil {
			goal.IsHabit = *req.IsHabit
		}
		return nil
	})
}

func (s *GoalService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Years lists years that have goals, newest first, always including the
// current year.
func (s *GoalService) Years(ctx context.Context) ([]int, error) {
	years, err := s.repo.Years(ctx)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(years, s.currentYear) {
		years = append(years, s.currentYear)
		slices.SortFunc(years, func(a, b int) int { return b - a })
	}

	return years, nil
}

// trimOptional trims a present value and turns a blank one into nil.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
