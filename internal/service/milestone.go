package service

import (
	"context"
	"strings"

	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/repository"
	"github.com/gmgoals/goals/internal/validation"
)

// MilestoneService keeps goal progress in step with milestone completion.
// The repository does the recompute inside each mutating transaction.
type MilestoneService struct {
	repo repository.MilestoneRepository
}

func NewMilestoneService(repo repository.MilestoneRepository) *MilestoneService {
	return &MilestoneService{repo: repo}
}

func (s *MilestoneService) Create(ctx context.Context, goalID int64, req model.MilestoneCreate) (*model.Milestone, error) {
	req.Title = strings.TrimSpace(req.Title)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, goalID, req.Title)
}

func (s *MilestoneService) Update(ctx context.Context, id int64, req model.MilestoneUpdate) (*model.Milestone, error) {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title == "" {
		return nil, validation.Invalid("title", "title must not be empty")
	}

	return s.repo.Update(ctx, id, func(m *model.Milestone) {
		if req.Title != nil {
			m.Title = *req.Title
		}
		if req.Completed != nil {
			m.Completed = *req.Completed
		}
		if req.Order != nil {
			m.Order = *req.Order
		}
	})
}

func (s *MilestoneService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
