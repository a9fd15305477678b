package model

import "time"

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is owned by the catalog; the evaluation core only reads it to
// obtain test cases and to verify the reference exists.
type Problem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Difficulty  ProblemDifficulty `json:"difficulty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// TestCase is an (input, expected output) pair. Visible cases are shown to
// the user and drive the run pathway; hidden cases grade submissions and are
// never returned to the client.
type TestCase struct {
	ID             string    `json:"id"`
	ProblemID      string    `json:"problemId"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"output"`
	IsHidden       bool      `json:"-"`
	SortOrder      int       `json:"-"`
	CreatedAt      time.Time `json:"-"`
}
