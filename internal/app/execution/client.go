package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"algojudge/internal/common"
	"algojudge/internal/domain/model"
)

// Result is the outcome of one execution attempt. ExecError is non-empty
// when the code could not be evaluated: the program wrote to stderr, the
// provider failed, or the call timed out. A transport-level failure is an
// execution outcome here, not a Go error; retry policy belongs to callers.
type Result struct {
	Stdout    string
	ExecError string
	RuntimeMs int
	MemoryKb  int
}

func (r Result) Failed() bool {
	return r.ExecError != ""
}

// Client runs a piece of code once against a single stdin. Stateless.
type Client interface {
	Execute(ctx context.Context, code string, language model.Language, stdin string) (Result, error)
}

// The provider speaks its own language identifiers.
var providerLanguageIDs = map[model.Language]string{
	model.LangJavaScript: "javascript",
	model.LangPython:     "python3",
	model.LangCpp:        "cpp",
	model.LangJava:       "java",
}

// genericExecFailure is deliberately opaque: provider-side details are
// logged, never surfaced to the submitting user.
const genericExecFailure = "execution failed"

type pistonClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPistonClient talks to a Piston-compatible execution service. The
// timeout bounds every call; the provider is allowed to hang, we are not.
func NewPistonClient(baseURL string, timeout time.Duration, logger *slog.Logger) Client {
	return &pistonClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"` // "*" lets the provider pin the runtime
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type pistonRunResult struct {
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	Output   string  `json:"output"`
	Code     *int    `json:"code"`
	Signal   *string `json:"signal"`
	MemoryB  int64   `json:"memory"`
	WallTime int     `json:"wall_time"`
}

type pistonResponse struct {
	Run pistonRunResult `json:"run"`
}

func (c *pistonClient) Execute(ctx context.Context, code string, language model.Language, stdin string) (Result, error) {
	providerID, ok := providerLanguageIDs[language]
	if !ok {
		return Result{}, fmt.Errorf("unsupported language %q: %w", language, common.ErrValidation)
	}

	reqBody, err := json.Marshal(pistonRequest{
		Language: providerID,
		Version:  "*",
		Files:    []pistonFile{{Name: "solution", Content: code}},
		Stdin:    stdin,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal execution request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(reqBody))
	if err != nil {
		return Result{}, fmt.Errorf("build execution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		c.logger.Warn("executor call failed", "error", err)
		return Result{ExecError: genericExecFailure, RuntimeMs: elapsed}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("executor returned non-2xx", "status", resp.StatusCode)
		return Result{ExecError: genericExecFailure, RuntimeMs: elapsed}, nil
	}

	var payload pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("executor returned malformed body", "error", err)
		return Result{ExecError: genericExecFailure, RuntimeMs: elapsed}, nil
	}

	result := Result{
		Stdout:    payload.Run.Output,
		ExecError: payload.Run.Stderr,
		RuntimeMs: elapsed,
	}
	if result.Stdout == "" {
		result.Stdout = payload.Run.Stdout
	}
	if payload.Run.WallTime > 0 {
		result.RuntimeMs = payload.Run.WallTime
	}
	if payload.Run.MemoryB > 0 {
		result.MemoryKb = int(payload.Run.MemoryB / 1024)
	}
	return result, nil
}
