package ui

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/i18n"
	"github.com/runixer/rhetoric/internal/view"
)

// Pacing badge classes.
const (
	PacingClassGood    = "good"
	PacingClassWarning = "warning"
)

// MissingValue stands in for a metric the backend left out or sent as null.
const MissingValue = "N/A"

// PageOptions carries the configuration the page model depends on.
type PageOptions struct {
	BackendBaseURL string
	EmbedBaseURL   string
	Lang           string
	Translator     *i18n.Translator
	// Notice is an extra one-off line, e.g. a rejected upload.
	Notice string
}

// AnalyzePage is everything the upload page template renders.
type AnalyzePage struct {
	Lang           string
	FileName       string
	HasFile        bool
	Loading        bool
	SubmitDisabled bool
	ErrorMessage   string
	Notice         string
	Result         *ResultView
}

// ResultView is the result section, in render order.
type ResultView struct {
	Quote string

	WPM         string
	Pacing      string
	PacingClass string
	ClarityText string
	Transcript  string

	Frames []FrameView

	SuggestionURL string
	// EmbedURL is empty when no video id could be extracted; the template
	// then falls back to a plain link to SuggestionURL.
	EmbedURL string
}

// HasFrames reports whether the gesture panel shows thumbnails.
func (r *ResultView) HasFrames() bool {
	return len(r.Frames) > 0
}

// FrameView is one flagged gesture thumbnail.
type FrameView struct {
	URL   string
	Label string
	Alt   string
}

// NewAnalyzePage builds the page model from a view snapshot. It has no side
// effects, so the same state always yields the same page.
func NewAnalyzePage(state view.State, opts PageOptions) AnalyzePage {
	page := AnalyzePage{
		Lang:           opts.Lang,
		HasFile:        state.HasFile(),
		Loading:        state.Loading,
		SubmitDisabled: !state.CanSubmit(),
		Notice:         opts.Notice,
	}
	if state.File != nil {
		page.FileName = state.File.Name()
	}
	if state.Error != view.ErrorNone {
		page.ErrorMessage = translate(opts, state.Error.MessageKey())
	}
	if state.Result != nil {
		page.Result = newResultView(state.Result, opts)
	}
	return page
}

func newResultView(res *analysis.Result, opts PageOptions) *ResultView {
	audio := res.AudioAnalysis

	rv := &ResultView{
		Quote:         res.Quote,
		WPM:           lo.Ternary(audio.WPM == "", MissingValue, audio.WPM.String()),
		Pacing:        audio.Pacing,
		PacingClass:   PacingClassWarning,
		ClarityText:   lo.Ternary(audio.ClarityScore == "", MissingValue, audio.ClarityScore.String()+"/100"),
		Transcript:    audio.Transcript,
		SuggestionURL: res.SuggestionVideo,
	}
	if audio.IsGoodPacing() {
		rv.PacingClass = PacingClassGood
	}

	rv.Frames = lo.Map(res.FlaggedFrames, func(path string, i int) FrameView {
		return FrameView{
			URL:   FrameURL(opts.BackendBaseURL, path),
			Label: "#" + strconv.Itoa(i+1),
			Alt:   translate(opts, "gesture.frame_alt", i+1),
		}
	})

	if id, err := res.SuggestionVideoID(); err == nil {
		rv.EmbedURL = EmbedURL(opts.EmbedBaseURL, id)
	}
	return rv
}

// FrameURL joins the backend origin and a frame path returned by the backend.
func FrameURL(base, path string) string {
	if strings.HasPrefix(path, "/") {
		base = strings.TrimRight(base, "/")
	}
	return base + path
}

// EmbedURL returns the player address for a video id.
func EmbedURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}

func translate(opts PageOptions, key string, args ...interface{}) string {
	if opts.Translator == nil {
		return key
	}
	return opts.Translator.Get(opts.Lang, key, args...)
}
