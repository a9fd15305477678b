package execution_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"algojudge/internal/app/execution"
	"algojudge/internal/common"
	"algojudge/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteSuccess(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/execute", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"run": map[string]interface{}{"stdout": "true\n", "output": "true\n", "stderr": ""},
		})
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	res, err := client.Execute(context.Background(), "console.log('true')", model.LangJavaScript, "()")
	require.NoError(t, err)

	assert.False(t, res.Failed())
	assert.Equal(t, "true\n", res.Stdout)

	// Provider-specific request contract
	assert.Equal(t, "javascript", gotBody["language"])
	assert.Equal(t, "*", gotBody["version"])
	assert.Equal(t, "()", gotBody["stdin"])
	files := gotBody["files"].([]interface{})
	require.Len(t, files, 1)
	assert.Equal(t, "solution", files[0].(map[string]interface{})["name"])
}

func TestExecuteMapsPythonToProviderID(t *testing.T) {
	var gotLanguage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		gotLanguage = body["language"].(string)
		json.NewEncoder(w).Encode(map[string]interface{}{"run": map[string]interface{}{"output": "ok"}})
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	_, err := client.Execute(context.Background(), "print('ok')", model.LangPython, "")
	require.NoError(t, err)
	assert.Equal(t, "python3", gotLanguage)
}

func TestExecuteStderrIsExecutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"run": map[string]interface{}{"stdout": "", "output": "", "stderr": "ReferenceError: x is not defined"},
		})
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	res, err := client.Execute(context.Background(), "x", model.LangJavaScript, "")
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, "ReferenceError: x is not defined", res.ExecError)
}

func TestExecuteUnsupportedLanguageRejectedBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	_, err := client.Execute(context.Background(), "code", model.Language("ruby"), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, int32(0), calls.Load())
}

func TestExecuteNon2xxIsGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	res, err := client.Execute(context.Background(), "code", model.LangCpp, "")
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, "execution failed", res.ExecError)
}

func TestExecuteMalformedBodyIsGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 5*time.Second, discardLogger())
	res, err := client.Execute(context.Background(), "code", model.LangJava, "")
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, "execution failed", res.ExecError)
}

func TestExecuteTimeoutIsGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := execution.NewPistonClient(srv.URL, 20*time.Millisecond, discardLogger())
	res, err := client.Execute(context.Background(), "code", model.LangPython, "")
	require.NoError(t, err)

	assert.True(t, res.Failed())
	assert.Equal(t, "execution failed", res.ExecError)
}
