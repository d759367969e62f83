// Package analysis talks to the speech analysis backend.
package analysis

import (
	"encoding/json"
	"errors"
	"net/url"
)

// PacingGood is the only pacing verdict rendered as a success.
const PacingGood = "Good"

// AudioAnalysis is the speech part of a Result.
// Numbers keep their JSON text so they render exactly as the backend sent them.
type AudioAnalysis struct {
	WPM          json.Number `json:"wpm"`
	Pacing       string      `json:"pacing"`
	ClarityScore json.Number `json:"clarity_score"`
	Transcript   string      `json:"transcript"`
}

// IsGoodPacing reports whether the pacing verdict is exactly "Good".
func (a AudioAnalysis) IsGoodPacing() bool {
	return a.Pacing == PacingGood
}

// Result is the parsed body of a successful analyze call.
type Result struct {
	Quote           string        `json:"quote"`
	AudioAnalysis   AudioAnalysis `json:"audio_analysis"`
	FlaggedFrames   []string      `json:"flagged_frames"`
	SuggestionVideo string        `json:"suggestion_video"`
}

// ErrNoVideoID is returned when the suggestion URL carries no "v" parameter.
var ErrNoVideoID = errors.New("suggestion video has no video id")

// SuggestionVideoID reads the "v" query parameter of the suggestion URL.
func (r *Result) SuggestionVideoID() (string, error) {
	if r.SuggestionVideo == "" {
		return "", ErrNoVideoID
	}
	u, err := url.Parse(r.SuggestionVideo)
	if err != nil {
		return "", errors.Join(ErrNoVideoID, err)
	}
	id := u.Query().Get("v")
	if id == "" {
		return "", ErrNoVideoID
	}
	return id, nil
}
