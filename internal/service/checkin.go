package service

import (
	"context"
	"strings"

	"github.com/gmgoals/goals/internal/model"
	"github.com/gmgoals/goals/internal/repository"
	"github.com/gmgoals/goals/internal/validation"
)

// CheckInService records progress notes. Check-ins never change progress.
type CheckInService struct {
	repo repository.CheckInRepository
}

func NewCheckInService(repo repository.CheckInRepository) *CheckInService {
	return &CheckInService{repo: repo}
}

func (s *CheckInService) Create(ctx context.Context, goalID int64, req model.CheckInCreate) (*model.CheckIn, error) {
	req.Note = strings.TrimSpace(req.Note)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, goalID, req.Note)
}

func (s *CheckInService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
