package judge_test

import (
	"context"
	"sync"
	"testing"

	"algojudge/internal/app/execution"
	"algojudge/internal/app/judge"
	"algojudge/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecClient answers by stdin and records the order of calls.
type fakeExecClient struct {
	mu        sync.Mutex
	responses map[string]execution.Result
	calls     []string
}

func newFakeExecClient(responses map[string]execution.Result) *fakeExecClient {
	return &fakeExecClient{responses: responses}
}

func (f *fakeExecClient) Execute(ctx context.Context, code string, language model.Language, stdin string) (execution.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, stdin)
	return f.responses[stdin], nil
}

func (f *fakeExecClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func cases(pairs ...[2]string) []model.TestCase {
	out := make([]model.TestCase, len(pairs))
	for i, p := range pairs {
		out[i] = model.TestCase{Input: p[0], ExpectedOutput: p[1], SortOrder: i}
	}
	return out
}

func TestRunGradedAllPass(t *testing.T) {
	client := newFakeExecClient(map[string]execution.Result{
		"()":   {Stdout: "true\n", RuntimeMs: 10, MemoryKb: 128},
		"([)]": {Stdout: "false\n", RuntimeMs: 12, MemoryKb: 256},
		"{[]}": {Stdout: "true\n", RuntimeMs: 8, MemoryKb: 64},
	})
	runner := judge.NewRunner(client, 2)

	outcome, err := runner.RunGraded(context.Background(), "code", model.LangJavaScript,
		cases([2]string{"()", "true"}, [2]string{"([)]", "false"}, [2]string{"{[]}", "true"}))
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Passed)
	assert.Equal(t, 3, outcome.Total)
	assert.Empty(t, outcome.ExecError)
	assert.Equal(t, 30, outcome.RuntimeMs)
	assert.Equal(t, 256, outcome.MemoryKb)
}

func TestRunGradedWrongAnswer(t *testing.T) {
	client := newFakeExecClient(map[string]execution.Result{
		"()":   {Stdout: "true"},
		"([)]": {Stdout: "false"},
		"{[]}": {Stdout: "false"}, // should be true
	})
	runner := judge.NewRunner(client, 2)

	outcome, err := runner.RunGraded(context.Background(), "code", model.LangJavaScript,
		cases([2]string{"()", "true"}, [2]string{"([)]", "false"}, [2]string{"{[]}", "true"}))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Passed)
	assert.Equal(t, 3, outcome.Total)
	assert.Empty(t, outcome.ExecError)
}

func TestRunGradedShortCircuitsOnExecutionError(t *testing.T) {
	client := newFakeExecClient(map[string]execution.Result{
		"A": {Stdout: "1"},
		"B": {ExecError: "segmentation fault"},
		"C": {Stdout: "3"},
	})
	runner := judge.NewRunner(client, 2)

	outcome, err := runner.RunGraded(context.Background(), "code", model.LangCpp,
		cases([2]string{"A", "1"}, [2]string{"B", "2"}, [2]string{"C", "3"}))
	require.NoError(t, err)

	assert.Equal(t, "segmentation fault", outcome.ExecError)
	assert.Equal(t, 1, outcome.Passed, "only the case before the fault counts")
	assert.Equal(t, 3, outcome.Total)
	assert.Equal(t, []string{"A", "B"}, client.calls, "case after the fault must never run")
}

func TestRunGradedComparesTrimmedExactly(t *testing.T) {
	client := newFakeExecClient(map[string]execution.Result{
		"a": {Stdout: "  42\n\n"},
		"b": {Stdout: "True"},
	})
	runner := judge.NewRunner(client, 1)

	outcome, err := runner.RunGraded(context.Background(), "code", model.LangPython,
		cases([2]string{"a", "42"}, [2]string{"b", "true"}))
	require.NoError(t, err)

	// surrounding whitespace is ignored, case is not
	assert.Equal(t, 1, outcome.Passed)
}

func TestRunPreviewEvaluatesAllCasesInOrder(t *testing.T) {
	client := newFakeExecClient(map[string]execution.Result{
		"()":     {Stdout: "true"},
		"()[]{}": {ExecError: "crash"},
	})
	runner := judge.NewRunner(client, 4)

	results, err := runner.RunPreview(context.Background(), "code", model.LangJavaScript,
		cases([2]string{"()", "true"}, [2]string{"()[]{}", "true"}))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "()", results[0].Input)
	assert.True(t, results[0].Passed)
	require.NotNil(t, results[0].Actual)
	assert.Nil(t, results[0].Error)

	assert.Equal(t, "()[]{}", results[1].Input)
	assert.False(t, results[1].Passed)
	assert.Nil(t, results[1].Actual)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "crash", *results[1].Error)

	// unlike the graded pathway, the faulting case does not stop evaluation
	assert.Equal(t, 2, client.callCount())
}

func TestRunPreviewKeepsOrderUnderConcurrency(t *testing.T) {
	responses := map[string]execution.Result{}
	var tcs []model.TestCase
	inputs := []string{"q", "w", "e", "r", "t", "y", "u", "i"}
	for i, in := range inputs {
		responses[in] = execution.Result{Stdout: in}
		tcs = append(tcs, model.TestCase{Input: in, ExpectedOutput: in, SortOrder: i})
	}
	runner := judge.NewRunner(newFakeExecClient(responses), 4)

	results, err := runner.RunPreview(context.Background(), "code", model.LangPython, tcs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))
	for i, in := range inputs {
		assert.Equal(t, in, results[i].Input)
		assert.True(t, results[i].Passed)
	}
}

func TestRunPreviewEmptyCases(t *testing.T) {
	runner := judge.NewRunner(newFakeExecClient(nil), 2)
	results, err := runner.RunPreview(context.Background(), "code", model.LangJava, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
