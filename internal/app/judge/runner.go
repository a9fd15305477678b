package judge

import (
	"context"
	"strings"

	"algojudge/internal/app/execution"
	"algojudge/internal/domain/model"

	"github.com/gammazero/workerpool"
)

// GradedOutcome summarizes a submission's run over hidden test cases.
// A non-empty ExecError means grading stopped at the first faulting case;
// Passed then counts only the cases evaluated before the stop.
type GradedOutcome struct {
	Passed    int
	Total     int
	ExecError string
	RuntimeMs int
	MemoryKb  int
}

// Runner evaluates code against ordered test cases through an execution
// client.
type Runner struct {
	client      execution.Client
	concurrency int
}

func NewRunner(client execution.Client, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{client: client, concurrency: concurrency}
}

// outputsMatch compares trimmed output strings: exact, case-sensitive, no
// numeric tolerance.
func outputsMatch(actual, expected string) bool {
	return strings.TrimSpace(actual) == strings.TrimSpace(expected)
}

// RunGraded evaluates cases strictly in order and stops at the first case
// the executor could not run. Later cases are irrelevant once a fault is
// known; the whole submission becomes a runtime error.
func (r *Runner) RunGraded(ctx context.Context, code string, language model.Language, cases []model.TestCase) (GradedOutcome, error) {
	outcome := GradedOutcome{Total: len(cases)}

	for _, tc := range cases {
		res, err := r.client.Execute(ctx, code, language, tc.Input)
		if err != nil {
			return GradedOutcome{}, err
		}

		outcome.RuntimeMs += res.RuntimeMs
		if res.MemoryKb > outcome.MemoryKb {
			outcome.MemoryKb = res.MemoryKb
		}

		if res.Failed() {
			outcome.ExecError = res.ExecError
			return outcome, nil
		}
		if outputsMatch(res.Stdout, tc.ExpectedOutput) {
			outcome.Passed++
		}
	}
	return outcome, nil
}

// RunPreview evaluates every case, recording a per-case error instead of
// aborting, and returns results in stored case order. Cases are independent
// so they run on a bounded worker pool; the index-addressed slice keeps the
// reported order equal to sequential evaluation.
func (r *Runner) RunPreview(ctx context.Context, code string, language model.Language, cases []model.TestCase) ([]model.CaseResult, error) {
	results := make([]model.CaseResult, len(cases))
	errs := make([]error, len(cases))

	wp := workerpool.New(r.concurrency)
	for i, tc := range cases {
		i, tc := i, tc
		wp.Submit(func() {
			res, err := r.client.Execute(ctx, code, language, tc.Input)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = toCaseResult(tc, res)
		})
	}
	wp.StopWait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func toCaseResult(tc model.TestCase, res execution.Result) model.CaseResult {
	cr := model.CaseResult{
		Input:    tc.Input,
		Expected: tc.ExpectedOutput,
	}
	if res.Failed() {
		msg := res.ExecError
		cr.Error = &msg
		return cr
	}
	actual := res.Stdout
	cr.Actual = &actual
	cr.Passed = outputsMatch(actual, tc.ExpectedOutput)
	return cr
}
