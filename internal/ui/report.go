package ui

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/runixer/rhetoric/internal/i18n"
)

var (
	colorGood    = color.New(color.FgGreen, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorError   = color.New(color.FgRed)
	colorHeader  = color.New(color.FgCyan, color.Bold)
)

// ReportOptions controls the terminal rendering of a page.
type ReportOptions struct {
	Translator *i18n.Translator
	Colours    bool
}

// WriteReport renders the page as plain text for a terminal, in the same
// order as the HTML page: error, quote, metrics, transcript, frames, video.
func WriteReport(w io.Writer, page AnalyzePage, opts ReportOptions) error {
	t := func(key string, args ...interface{}) string {
		if opts.Translator == nil {
			return key
		}
		return opts.Translator.Get(page.Lang, key, args...)
	}
	paint := func(style color.Style, s string) string {
		if !opts.Colours {
			return s
		}
		return style.Render(s)
	}

	if page.ErrorMessage != "" {
		if _, err := fmt.Fprintln(w, paint(colorError, page.ErrorMessage)); err != nil {
			return err
		}
	}
	res := page.Result
	if res == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", paint(colorHeader, t("report.quote")), res.Quote); err != nil {
		return err
	}

	pacingStyle := colorWarning
	if res.PacingClass == PacingClassGood {
		pacingStyle = colorGood
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{t("report.metric"), t("report.value")})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{t("audio.wpm"), res.WPM})
	table.Append([]string{t("report.pacing"), paint(pacingStyle, res.Pacing)})
	table.Append([]string{t("audio.clarity"), res.ClarityText})
	table.Render()

	if _, err := fmt.Fprintf(w, "\n%s\n%s\n\n", paint(colorHeader, t("audio.transcript")), res.Transcript); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, paint(colorHeader, t("report.frames"))); err != nil {
		return err
	}
	if !res.HasFrames() {
		if _, err := fmt.Fprintln(w, t("gesture.none")); err != nil {
			return err
		}
	}
	for _, f := range res.Frames {
		if _, err := fmt.Fprintf(w, "%s %s\n", f.Label, f.URL); err != nil {
			return err
		}
	}

	if res.SuggestionURL != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", paint(colorHeader, t("report.video")), res.SuggestionURL); err != nil {
			return err
		}
	}
	return nil
}
