package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algojudge/internal/common"
	"algojudge/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// Finalize applies the single permitted pending -> terminal transition
	// as one logical update. A submission that is already terminal is never
	// touched; that case surfaces as ErrConflict.
	Finalize(ctx context.Context, sub *model.Submission) error
	ListByUserAndProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id, user_id, problem_id, code, language, status, runtime_ms, memory_kb,
	error_message, test_cases_passed, test_cases_total, created_at, updated_at`

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, user_id, problem_id, code, language, status, runtime_ms, memory_kb, test_cases_passed, test_cases_total)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		sub.ID, sub.UserID, sub.ProblemID, sub.Code, sub.Language, sub.Status,
		sub.RuntimeMs, sub.MemoryKb, sub.TestCasesPassed, sub.TestCasesTotal,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) Finalize(ctx context.Context, sub *model.Submission) error {
	if !sub.Status.Terminal() {
		return fmt.Errorf("finalize requires a terminal status, got %q: %w", sub.Status, common.ErrValidation)
	}
	query := `UPDATE submissions
	          SET status = $1, runtime_ms = $2, memory_kb = $3, error_message = $4,
	              test_cases_passed = $5, test_cases_total = $6, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $7 AND status = $8
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		sub.Status, sub.RuntimeMs, sub.MemoryKb, sub.ErrorMessage,
		sub.TestCasesPassed, sub.TestCasesTotal, sub.ID, model.StatusPending,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("submission %s is not pending: %w", sub.ID, common.ErrConflict)
		}
		return fmt.Errorf("pgSubmissionRepository.Finalize: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Code, &sub.Language, &sub.Status,
		&sub.RuntimeMs, &sub.MemoryKb, &sub.ErrorMessage, &sub.TestCasesPassed, &sub.TestCasesTotal,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.GetByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) ListByUserAndProblem(ctx context.Context, userID, problemID string) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + `
	          FROM submissions
	          WHERE user_id = $1 AND problem_id = $2
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUserAndProblem: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.ProblemID, &sub.Code, &sub.Language, &sub.Status,
			&sub.RuntimeMs, &sub.MemoryKb, &sub.ErrorMessage, &sub.TestCasesPassed, &sub.TestCasesTotal,
			&sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUserAndProblem scan: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
