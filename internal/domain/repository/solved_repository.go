package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SolvedProblemRepository is the only mutator of a user's solved set. An
// entry is added once per (user, problem) pair regardless of how many
// accepted submissions exist.
type SolvedProblemRepository interface {
	MarkSolved(ctx context.Context, userID, problemID string) error
	IsSolved(ctx context.Context, userID, problemID string) (bool, error)
	ListSolvedByUser(ctx context.Context, userID string) ([]string, error)
}

type pgSolvedProblemRepository struct {
	db *sql.DB
}

func NewPgSolvedProblemRepository(db *sql.DB) SolvedProblemRepository {
	return &pgSolvedProblemRepository{db: db}
}

func (r *pgSolvedProblemRepository) MarkSolved(ctx context.Context, userID, problemID string) error {
	solved, err := r.IsSolved(ctx, userID, problemID)
	if err != nil {
		return err
	}
	if solved {
		return nil
	}
	// ON CONFLICT keeps the insert idempotent when two accepted submissions
	// for the same pair race past the membership check.
	query := `INSERT INTO solved_problems (user_id, problem_id)
	          VALUES ($1, $2)
	          ON CONFLICT (user_id, problem_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, problemID); err != nil {
		return fmt.Errorf("pgSolvedProblemRepository.MarkSolved: %w", err)
	}
	return nil
}

func (r *pgSolvedProblemRepository) IsSolved(ctx context.Context, userID, problemID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM solved_problems WHERE user_id = $1 AND problem_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, problemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSolvedProblemRepository.IsSolved: %w", err)
	}
	return exists, nil
}

func (r *pgSolvedProblemRepository) ListSolvedByUser(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT problem_id FROM solved_problems WHERE user_id = $1 ORDER BY solved_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSolvedProblemRepository.ListSolvedByUser: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgSolvedProblemRepository.ListSolvedByUser scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
