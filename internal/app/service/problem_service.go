package service

import (
	"context"

	"algojudge/internal/domain/repository"
)

// ProblemService exposes the evaluation core's read-side view of problems.
// Catalog management lives in a separate service.
type ProblemService struct {
	solvedRepo repository.SolvedProblemRepository
}

func NewProblemService(solvedRepo repository.SolvedProblemRepository) *ProblemService {
	return &ProblemService{solvedRepo: solvedRepo}
}

// ListSolvedProblems returns the ids of problems the user has at least one
// accepted submission for.
func (s *ProblemService) ListSolvedProblems(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.solvedRepo.ListSolvedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
