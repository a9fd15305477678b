package service

import (
	"context"
	"log/slog"

	"algojudge/internal/app/judge"
	"algojudge/internal/common"
	"algojudge/internal/domain/model"
	"algojudge/internal/domain/repository"

	"github.com/google/uuid"
)

// SubmissionService owns the submission lifecycle: pending on accept of the
// request, exactly one terminal transition once evaluation finishes.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	solvedRepo     repository.SolvedProblemRepository
	runner         *judge.Runner
	logger         *slog.Logger
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	probRepo repository.ProblemRepository,
	solvedRepo repository.SolvedProblemRepository,
	runner *judge.Runner,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		problemRepo:    probRepo,
		solvedRepo:     solvedRepo,
		runner:         runner,
		logger:         logger,
	}
}

type EvaluateRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// validate rejects bad input before any state is created.
func (s *SubmissionService) validate(ctx context.Context, problemID string, req EvaluateRequest) (model.Language, *model.Problem, error) {
	if problemID == "" || req.Code == "" || req.Language == "" {
		return "", nil, common.Errorf("problem id, code and language are required: %w", common.ErrValidation)
	}
	language, ok := model.ParseLanguage(req.Language)
	if !ok {
		return "", nil, common.Errorf("unsupported language %q: %w", req.Language, common.ErrValidation)
	}
	problem, err := s.problemRepo.FindProblemByID(ctx, problemID)
	if err != nil {
		return "", nil, common.Errorf("problem %s: %w", problemID, err)
	}
	return language, problem, nil
}

// Submit grades code against the problem's hidden test cases and persists
// the outcome. A new submission row is created per call; terminal rows are
// never mutated again.
func (s *SubmissionService) Submit(ctx context.Context, userID, problemID string, req EvaluateRequest) (*model.Submission, error) {
	language, problem, err := s.validate(ctx, problemID, req)
	if err != nil {
		return nil, err
	}

	hiddenCases, err := s.problemRepo.GetTestCases(ctx, problem.ID, true)
	if err != nil {
		return nil, common.Errorf("failed to load hidden test cases: %w", err)
	}
	if len(hiddenCases) == 0 {
		return nil, common.Errorf("problem %s has no hidden test cases: %w", problem.ID, common.ErrInternalServer)
	}

	sub := &model.Submission{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProblemID:      problem.ID,
		Code:           req.Code,
		Language:       language,
		Status:         model.StatusPending,
		TestCasesTotal: len(hiddenCases),
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	outcome, err := s.runner.RunGraded(ctx, req.Code, language, hiddenCases)
	if err != nil {
		// The submission stays pending; nothing partial was written.
		return nil, common.Errorf("grading failed for submission %s: %w", sub.ID, err)
	}

	sub.TestCasesPassed = outcome.Passed
	sub.RuntimeMs = outcome.RuntimeMs
	sub.MemoryKb = outcome.MemoryKb
	if outcome.ExecError != "" {
		sub.Status = model.StatusRuntimeError
		msg := outcome.ExecError
		sub.ErrorMessage = &msg
	} else if outcome.Passed == outcome.Total {
		sub.Status = model.StatusAccepted
	} else {
		sub.Status = model.StatusWrongAnswer
	}

	if err := s.submissionRepo.Finalize(ctx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("submission finalized",
		"submission_id", sub.ID, "status", sub.Status,
		"passed", sub.TestCasesPassed, "total", sub.TestCasesTotal)

	// Solved-set update happens strictly after the accepted status is
	// durable, so the set can never contain a problem whose submission
	// later turned out to fail.
	if sub.Status == model.StatusAccepted {
		if err := s.solvedRepo.MarkSolved(ctx, userID, problem.ID); err != nil {
			s.logger.Error("failed to mark problem solved",
				"user_id", userID, "problem_id", problem.ID, "error", err)
		}
	}

	return sub, nil
}

// Run evaluates code against the problem's visible test cases for user
// feedback. Nothing is persisted.
func (s *SubmissionService) Run(ctx context.Context, userID, problemID string, req EvaluateRequest) ([]model.CaseResult, error) {
	language, problem, err := s.validate(ctx, problemID, req)
	if err != nil {
		return nil, err
	}

	visibleCases, err := s.problemRepo.GetTestCases(ctx, problem.ID, false)
	if err != nil {
		return nil, common.Errorf("failed to load visible test cases: %w", err)
	}

	results, err := s.runner.RunPreview(ctx, req.Code, language, visibleCases)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.CaseResult{}
	}
	return results, nil
}

// History lists the user's submissions for one problem, newest first.
func (s *SubmissionService) History(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	if problemID == "" {
		return nil, common.Errorf("problem id is required: %w", common.ErrValidation)
	}
	subs, err := s.submissionRepo.ListByUserAndProblem(ctx, userID, problemID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}
