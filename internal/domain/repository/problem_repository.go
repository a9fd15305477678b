package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algojudge/internal/common"
	"algojudge/internal/domain/model"
)

// ProblemRepository is a read-only view of the problem catalog. Problem
// lifecycle (create/update/delete) is owned by the catalog service, not by
// the evaluation core.
type ProblemRepository interface {
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	// GetTestCases returns a problem's visible or hidden cases in stored
	// order; evaluation and reporting both depend on that order.
	GetTestCases(ctx context.Context, problemID string, hidden bool) ([]model.TestCase, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, title, description, difficulty, created_at, updated_at
	          FROM problems WHERE id = $1`
	p := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Difficulty, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindProblemByID: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepository) GetTestCases(ctx context.Context, problemID string, hidden bool) ([]model.TestCase, error) {
	query := `SELECT id, problem_id, input, expected_output, is_hidden, sort_order, created_at
	          FROM test_cases
	          WHERE problem_id = $1 AND is_hidden = $2
	          ORDER BY sort_order, created_at`
	rows, err := r.db.QueryContext(ctx, query, problemID, hidden)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestCases: %w", err)
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.ExpectedOutput, &tc.IsHidden, &tc.SortOrder, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.GetTestCases scan: %w", err)
		}
		cases = append(cases, tc)
	}
	return cases, rows.Err()
}
