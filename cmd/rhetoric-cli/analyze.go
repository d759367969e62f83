package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/files"
	"github.com/runixer/rhetoric/internal/origin"
	"github.com/runixer/rhetoric/internal/ui"
	"github.com/runixer/rhetoric/internal/view"
)

// errAnalyzeFailed is returned after the user-facing message was printed;
// the cause is only in the (verbose) log.
var errAnalyzeFailed = errors.New("analysis failed")

// analyzeOutput is the --output json document.
type analyzeOutput struct {
	File     string           `json:"file"`
	MIMEType string           `json:"mime_type"`
	Size     int64            `json:"size"`
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	VideoID  string           `json:"video_id,omitempty"`
	Result   *analysis.Result `json:"result,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Upload a video and print the analysis",
	Long: `Upload a local video to the analysis backend and print the feedback.

Example:
  rhetoric-cli analyze speech.mp4
  rhetoric-cli analyze speech.mp4 --output json
  RHETORIC_BACKEND_BASE_URL=http://gpu-box:8000 rhetoric-cli analyze talk.mov`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := getEnv(cmd)
		if env == nil {
			return fmt.Errorf("cli not initialized")
		}

		outputFormat := mustGetString(cmd, "output")
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("unknown output format %q (want text or json)", outputFormat)
		}
		colours := mustGetBool(cmd, "color")

		file, err := files.FromPath(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(origin.With(cmd.Context(), origin.CLI), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		v := view.New(env.services.Analyzer, env.logger)
		v.SelectFile(file)
		submitErr := v.Submit(ctx)

		state := v.State()
		page := ui.NewAnalyzePage(state, ui.PageOptions{
			BackendBaseURL: env.cfg.Backend.BaseURL,
			EmbedBaseURL:   env.cfg.Player.EmbedBaseURL,
			Lang:           env.cfg.UI.Language,
			Translator:     env.services.Translator,
		})

		if outputFormat == "json" {
			if err := outputJSON(cmd, state, page); err != nil {
				return err
			}
		} else {
			opts := ui.ReportOptions{Translator: env.services.Translator, Colours: colours}
			if err := ui.WriteReport(cmd.OutOrStdout(), page, opts); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}

		if submitErr != nil {
			return errAnalyzeFailed
		}
		return nil
	},
}

func outputJSON(cmd *cobra.Command, state view.State, page ui.AnalyzePage) error {
	out := analyzeOutput{
		File:     state.File.Name(),
		MIMEType: state.File.MIMEType(),
		Size:     state.File.Size(),
		Success:  state.Error == view.ErrorNone && state.Result != nil,
		Error:    page.ErrorMessage,
		Result:   state.Result,
	}
	if state.Result != nil {
		if id, err := state.Result.SuggestionVideoID(); err == nil {
			out.VideoID = id
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	analyzeCmd.Flags().Bool("color", true, "Colour the text report")
	rootCmd.AddCommand(analyzeCmd)
}
