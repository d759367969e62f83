package testutil

import (
	"encoding/json"
	"strconv"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/files"
)

// SampleResultJSON is the backend body of the "speech.mp4" scenario.
const SampleResultJSON = `{"quote":"Q","audio_analysis":{"wpm":130,"pacing":"Good","clarity_score":88,"transcript":"hello"},"flagged_frames":[],"suggestion_video":"https://www.youtube.com/watch?v=abc123"}`

// SampleResult returns the decoded SampleResultJSON.
func SampleResult() *analysis.Result {
	return &analysis.Result{
		Quote: "Q",
		AudioAnalysis: analysis.AudioAnalysis{
			WPM:          json.Number("130"),
			Pacing:       "Good",
			ClarityScore: json.Number("88"),
			Transcript:   "hello",
		},
		FlaggedFrames:   []string{},
		SuggestionVideo: "https://www.youtube.com/watch?v=abc123",
	}
}

// FlaggedResult returns a result with a warning pacing and n flagged frames.
func FlaggedResult(n int) *analysis.Result {
	frames := make([]string, n)
	for i := range frames {
		frames[i] = "/static/frames/gesture_issue_" + strconv.Itoa(i) + ".jpg"
	}
	return &analysis.Result{
		Quote: "Be sincere; be brief; be seated. - Franklin D. Roosevelt",
		AudioAnalysis: analysis.AudioAnalysis{
			WPM:          json.Number("172.5"),
			Pacing:       "Too Fast",
			ClarityScore: json.Number("85"),
			Transcript:   "so um I think like the main point is",
		},
		FlaggedFrames:   frames,
		SuggestionVideo: "https://www.youtube.com/watch?v=i0a61wFaF8A",
	}
}

// VideoFile returns an in-memory selection named name.
func VideoFile(name string) files.SelectedFile {
	return files.FromBytes(name, "video/mp4", []byte("fake video content"))
}
