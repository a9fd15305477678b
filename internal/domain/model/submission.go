package model

import "time"

type SubmissionStatus string

const (
	StatusPending      SubmissionStatus = "pending"
	StatusAccepted     SubmissionStatus = "accepted"
	StatusWrongAnswer  SubmissionStatus = "wrong_answer"
	StatusRuntimeError SubmissionStatus = "runtime_error"
)

// Terminal reports whether no further status transition is permitted.
func (s SubmissionStatus) Terminal() bool {
	switch s {
	case StatusAccepted, StatusWrongAnswer, StatusRuntimeError:
		return true
	}
	return false
}

// Submission is one user's graded attempt at a problem. It is created in
// pending and moved exactly once to a terminal status by the evaluation
// pipeline; it is never deleted by this service.
type Submission struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	ProblemID       string           `json:"problemId"`
	Code            string           `json:"code"`
	Language        Language         `json:"language"`
	Status          SubmissionStatus `json:"status"`
	RuntimeMs       int              `json:"runtime"` // milliseconds
	MemoryKb        int              `json:"memory"`  // kilobytes
	ErrorMessage    *string          `json:"errorMessage,omitempty"`
	TestCasesPassed int              `json:"testCasesPassed"`
	TestCasesTotal  int              `json:"testCasesTotal"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// CaseResult is the outcome of running code against a single visible test
// case on the run (non-persisting) pathway.
type CaseResult struct {
	Input    string  `json:"input"`
	Expected string  `json:"expected"`
	Actual   *string `json:"actual"`
	Passed   bool    `json:"passed"`
	Error    *string `json:"error"`
}
