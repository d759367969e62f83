package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runixer/rhetoric/internal/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func configFor(t *testing.T, backendURL string) string {
	t.Helper()
	return writeFile(t, "config.yaml", "backend:\n  base_url: \""+backendURL+"\"\n")
}

func sampleBackend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes rootCmd with args and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyze_TextReport(t *testing.T) {
	backend := sampleBackend(t, http.StatusOK, testutil.SampleResultJSON)
	video := writeFile(t, "speech.mp4", "fake video content")

	out, _, err := run(t, "analyze", video, "--config", configFor(t, backend.URL), "--output", "text", "--color=false", "--verbose=false")
	require.NoError(t, err)

	testutil.AssertInOrder(t, out,
		"Q",
		"130",
		"Good",
		"88/100",
		"hello",
		"No significant bad gestures detected!",
		"https://www.youtube.com/watch?v=abc123",
	)
}

func TestAnalyze_JSON(t *testing.T) {
	backend := sampleBackend(t, http.StatusOK, testutil.SampleResultJSON)
	video := writeFile(t, "speech.mp4", "fake video content")

	out, _, err := run(t, "analyze", video, "--config", configFor(t, backend.URL), "--output", "json", "--verbose=false")
	require.NoError(t, err)

	var doc struct {
		File    string `json:"file"`
		Size    int64  `json:"size"`
		Success bool   `json:"success"`
		Error   string `json:"error"`
		VideoID string `json:"video_id"`
		Result  struct {
			Quote         string `json:"quote"`
			AudioAnalysis struct {
				WPM          json.Number `json:"wpm"`
				ClarityScore json.Number `json:"clarity_score"`
			} `json:"audio_analysis"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "speech.mp4", doc.File)
	assert.Equal(t, int64(len("fake video content")), doc.Size)
	assert.True(t, doc.Success)
	assert.Empty(t, doc.Error)
	assert.Equal(t, "abc123", doc.VideoID)
	assert.Equal(t, "Q", doc.Result.Quote)
	assert.Equal(t, json.Number("130"), doc.Result.AudioAnalysis.WPM)
	assert.Equal(t, json.Number("88"), doc.Result.AudioAnalysis.ClarityScore)
}

func TestAnalyze_BackendFailure(t *testing.T) {
	tests := []struct {
		name    string
		backend func(t *testing.T) string
	}{
		{
			name: "server error",
			backend: func(t *testing.T) string {
				return sampleBackend(t, http.StatusInternalServerError, "boom").URL
			},
		},
		{
			name: "connection refused",
			backend: func(t *testing.T) string {
				srv := httptest.NewServer(http.NotFoundHandler())
				srv.Close()
				return srv.URL
			},
		},
		{
			name: "malformed body",
			backend: func(t *testing.T) string {
				return sampleBackend(t, http.StatusOK, "not json").URL
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video := writeFile(t, "speech.mp4", "x")
			out, _, err := run(t, "analyze", video, "--config", configFor(t, tt.backend(t)), "--output", "text", "--color=false", "--verbose=false")

			assert.ErrorIs(t, err, errAnalyzeFailed)
			assert.Equal(t, "Failed to analyze video. Ensure backend is running.\n", out)
		})
	}
}

func TestAnalyze_BadInput(t *testing.T) {
	backend := sampleBackend(t, http.StatusOK, testutil.SampleResultJSON)
	cfg := configFor(t, backend.URL)

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "analyze", filepath.Join(t.TempDir(), "absent.mp4"), "--config", cfg, "--output", "text", "--verbose=false")
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, _, err := run(t, "analyze", t.TempDir(), "--config", cfg, "--output", "text", "--verbose=false")
		assert.Error(t, err)
	})

	t.Run("unknown output", func(t *testing.T) {
		video := writeFile(t, "speech.mp4", "x")
		_, _, err := run(t, "analyze", video, "--config", cfg, "--output", "xml", "--verbose=false")
		assert.ErrorContains(t, err, "unknown output format")
	})

	t.Run("no args", func(t *testing.T) {
		_, _, err := run(t, "analyze", "--config", cfg, "--output", "text", "--verbose=false")
		assert.Error(t, err)
	})
}

func TestAnalyze_VerboseLogsFailure(t *testing.T) {
	backend := sampleBackend(t, http.StatusBadGateway, "upstream down")
	video := writeFile(t, "speech.mp4", "x")

	_, stderr, err := run(t, "analyze", video, "--config", configFor(t, backend.URL), "--output", "text", "--color=false", "--verbose")
	assert.ErrorIs(t, err, errAnalyzeFailed)
	assert.Contains(t, stderr, "failed to analyze video")
	assert.Contains(t, stderr, "file_name=speech.mp4")
}

func TestConfigCommand(t *testing.T) {
	cfg := configFor(t, "http://analyzer.internal:8000")

	out, _, err := run(t, "config", "--config", cfg, "--defaults=false", "--verbose=false")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+cfg)
	assert.Contains(t, out, "base_url: http://analyzer.internal:8000")
	assert.Contains(t, out, "analyze_path: /analyze")

	out, _, err = run(t, "config", "--config", cfg, "--defaults", "--verbose=false")
	require.NoError(t, err)
	assert.Contains(t, out, `base_url: "http://localhost:8000"`)
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	cfg := configFor(t, "not a url")
	_, _, err := run(t, "config", "--config", cfg, "--defaults=false", "--verbose=false")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rhetoric-cli dev")
}

func TestFindConfigPath(t *testing.T) {
	existing := writeFile(t, "config.yaml", "log:\n  level: debug\n")

	path, err := findConfigPath(existing)
	require.NoError(t, err)
	assert.Equal(t, existing, path)

	_, err = findConfigPath(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	t.Chdir(t.TempDir())
	path, err = findConfigPath("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestMustGetHelpers(t *testing.T) {
	cmd := &cobra.Command{}
	assert.Panics(t, func() { mustGetString(cmd, "nonexistent_flag") })
	assert.Panics(t, func() { mustGetBool(cmd, "nonexistent_flag") })

	cmd.Flags().String("name", "default", "test")
	cmd.Flags().Bool("flag", false, "test")
	require.NoError(t, cmd.Flags().Set("name", "value"))
	require.NoError(t, cmd.Flags().Set("flag", "true"))
	assert.Equal(t, "value", mustGetString(cmd, "name"))
	assert.True(t, mustGetBool(cmd, "flag"))
}
