package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runixer/rhetoric/internal/testutil"
	"github.com/runixer/rhetoric/internal/view"
)

func renderPage(t *testing.T, state view.State) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	opts := testOptions(t)
	var buf bytes.Buffer
	err = r.Render(&buf, IndexTemplate, NewAnalyzePage(state, opts), GetFuncMap(opts.Translator, opts.Lang))
	require.NoError(t, err)
	return buf.String()
}

func TestRender_EmptyPage(t *testing.T) {
	html := renderPage(t, view.State{})

	assert.Contains(t, html, "<title>Rhetoric - AI Speech Coach</title>")
	testutil.AssertInOrder(t, html, "Rhetoric", "Your AI Speech Coach", `name="file"`, "Analyze Speech")
	assert.Contains(t, html, `class="analyze" disabled`)
	assert.NotContains(t, html, "Selected:")
	assert.NotContains(t, html, `class="error"`)
	assert.NotContains(t, html, `class="spinner"`)
	assert.NotContains(t, html, "Audio Metrics")
	assert.NotContains(t, html, `http-equiv="refresh"`)
}

func TestRender_SelectedFile(t *testing.T) {
	html := renderPage(t, view.State{File: testutil.VideoFile("speech.mp4")})

	assert.Contains(t, html, "Selected: speech.mp4")
	assert.Contains(t, html, "Analyze Speech")
	assert.NotContains(t, html, "disabled")
}

func TestRender_FileNameEscaped(t *testing.T) {
	html := renderPage(t, view.State{File: testutil.VideoFile(`<b>x<b>&"q".mp4`)})
	assert.NotContains(t, html, "<b>x<b>")
	assert.Contains(t, html, "Selected: &lt;b&gt;x&lt;b&gt;&amp;&#34;q&#34;.mp4")
}

func TestRender_PathLikeFileNameShowsBaseName(t *testing.T) {
	html := renderPage(t, view.State{File: testutil.VideoFile("uploads/talks/speech.mp4")})
	assert.Contains(t, html, "Selected: speech.mp4")
	assert.NotContains(t, html, "uploads/talks")
}

func TestRender_Loading(t *testing.T) {
	html := renderPage(t, view.State{File: testutil.VideoFile("speech.mp4"), Loading: true})

	assert.Contains(t, html, `class="spinner"`)
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.NotContains(t, html, "Analyze Speech")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		kind  view.ErrorKind
		want  string
		other string
	}{
		{"validation", view.ErrorValidation, "Please select a video file first.", "Failed to analyze video."},
		{"transport", view.ErrorTransport, "Failed to analyze video. Ensure backend is running.", "Please select a video file first."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderPage(t, view.State{Error: tt.kind})
			assert.Contains(t, html, `<p class="error">`+tt.want+`</p>`)
			assert.NotContains(t, html, tt.other)
		})
	}
}

func TestRender_SampleResult(t *testing.T) {
	html := renderPage(t, view.State{File: testutil.VideoFile("speech.mp4"), Result: testutil.SampleResult()})

	testutil.AssertInOrder(t, html,
		`<blockquote>"Q"</blockquote>`,
		`<strong class="wpm">130</strong>`,
		`<span class="badge good">Good</span>`,
		`<strong class="clarity">88/100</strong>`,
		`<div class="transcript">hello</div>`,
		"No significant bad gestures detected!",
		`src="https://www.youtube.com/embed/abc123"`,
	)
	testutil.AssertCount(t, html, "<img ", 0)
	assert.Contains(t, html, "We detected potential nervous")
}

func TestRender_FlaggedFrames(t *testing.T) {
	html := renderPage(t, view.State{Result: testutil.FlaggedResult(2)})

	assert.Contains(t, html, `<span class="badge warning">Too Fast</span>`)
	assert.Contains(t, html, `<strong class="wpm">172.5</strong>`)
	testutil.AssertCount(t, html, "<img ", 2)
	testutil.AssertInOrder(t, html,
		`src="http://localhost:8000/static/frames/gesture_issue_0.jpg"`,
		"<figcaption>#1</figcaption>",
		`src="http://localhost:8000/static/frames/gesture_issue_1.jpg"`,
		"<figcaption>#2</figcaption>",
	)
	assert.NotContains(t, html, "No significant bad gestures detected!")
}

func TestRender_SuggestionFallbacks(t *testing.T) {
	t.Run("link when no video id", func(t *testing.T) {
		res := testutil.SampleResult()
		res.SuggestionVideo = "https://youtu.be/abc123"
		html := renderPage(t, view.State{Result: res})

		assert.NotContains(t, html, "<iframe")
		assert.Contains(t, html, `href="https://youtu.be/abc123"`)
		assert.Contains(t, html, "Watch the recommended video")
	})

	t.Run("section omitted when empty", func(t *testing.T) {
		res := testutil.SampleResult()
		res.SuggestionVideo = ""
		html := renderPage(t, view.State{Result: res})

		assert.NotContains(t, html, "<iframe")
		assert.NotContains(t, html, "Recommended Study Material")
	})
}

func TestRender_ErrorKeepsPreviousResult(t *testing.T) {
	html := renderPage(t, view.State{
		File:   testutil.VideoFile("speech.mp4"),
		Result: testutil.SampleResult(),
		Error:  view.ErrorTransport,
	})

	testutil.AssertInOrder(t, html,
		"Failed to analyze video. Ensure backend is running.",
		`<blockquote>"Q"</blockquote>`,
		"88/100",
	)
}

func TestRender_Russian(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	opts := testOptions(t)
	opts.Lang = "ru"
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, IndexTemplate, NewAnalyzePage(view.State{}, opts), GetFuncMap(opts.Translator, opts.Lang)))

	assert.Contains(t, buf.String(), `<html lang="ru">`)
	assert.Contains(t, buf.String(), "Анализировать речь")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "missing.html", AnalyzePage{}, GetFuncMap(nil, ""))
	assert.Error(t, err)
}
