// Package view holds the state of one upload-and-analyze page: the selected
// file, the in-flight flag, the last successful result and the last error.
package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/files"
)

// ErrNoFileSelected is returned by Submit when there is nothing to upload.
var ErrNoFileSelected = errors.New("no video file selected")

// ErrorKind is the user-visible error state. The zero value means no error.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	// ErrorValidation: submit was attempted with no file selected.
	ErrorValidation
	// ErrorTransport: network failure, non-2xx response or unparseable body.
	ErrorTransport
)

// MessageKey returns the i18n key of the message shown for this kind.
func (k ErrorKind) MessageKey() string {
	switch k {
	case ErrorValidation:
		return "error.no_file"
	case ErrorTransport:
		return "error.analyze_failed"
	default:
		return ""
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ErrorValidation:
		return "validation"
	case ErrorTransport:
		return "transport"
	default:
		return "none"
	}
}

// State is a snapshot of a View. Result is shared and must not be modified.
type State struct {
	File    files.SelectedFile
	Loading bool
	Result  *analysis.Result
	Error   ErrorKind
}

// HasFile reports whether a file is currently selected.
func (s State) HasFile() bool {
	return s.File != nil
}

// CanSubmit mirrors the enabled state of the analyze control.
func (s State) CanSubmit() bool {
	return s.HasFile() && !s.Loading
}

// View is the UploadAnalyzeView. Its fields are guarded by mu, which is never
// held across the backend call: two concurrent submits race and the response
// that resolves last wins.
type View struct {
	analyzer analysis.Analyzer
	logger   *slog.Logger

	mu      sync.Mutex
	file    files.SelectedFile
	loading bool
	result  *analysis.Result
	errKind ErrorKind
}

// New creates an empty view that submits through analyzer.
func New(analyzer analysis.Analyzer, logger *slog.Logger) *View {
	return &View{
		analyzer: analyzer,
		logger:   logger.With("component", "upload_view"),
	}
}

// SelectFile replaces the current selection and clears any error.
// A nil file clears the selection, as a cancelled picker does.
func (v *View) SelectFile(file files.SelectedFile) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.file = file
	v.errKind = ErrorNone
}

// Submit uploads the selected file and stores the outcome.
// On failure the previous result is kept and the returned error carries the
// underlying cause; it is logged here and never shown to the user.
func (v *View) Submit(ctx context.Context) error {
	file, err := v.begin()
	if err != nil {
		return err
	}
	return v.run(ctx, file)
}

// SubmitAsync is Submit with the backend call moved to a goroutine. Loading is
// already set when it returns. The channel yields Submit's error and is closed.
func (v *View) SubmitAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	file, err := v.begin()
	if err != nil {
		done <- err
		close(done)
		return done
	}
	go func() {
		defer close(done)
		done <- v.run(ctx, file)
	}()
	return done
}

// begin validates the selection and enters the loading state.
func (v *View) begin() (files.SelectedFile, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.file == nil {
		// No error is shown while a request is in flight.
		if !v.loading {
			v.errKind = ErrorValidation
		}
		recordSubmit(outcomeValidation)
		return nil, ErrNoFileSelected
	}
	v.loading = true
	v.errKind = ErrorNone
	return v.file, nil
}

// run performs the backend call without holding mu and publishes the outcome.
func (v *View) run(ctx context.Context, file files.SelectedFile) error {
	start := time.Now()
	var (
		result *analysis.Result
		err    error
	)
	defer func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if err == nil && result != nil {
			v.result = result
			v.errKind = ErrorNone
		} else {
			v.errKind = ErrorTransport
		}
		v.loading = false
	}()

	result, err = v.analyzer.Analyze(ctx, file)
	if err == nil && result == nil {
		err = errors.New("analysis backend returned no result")
	}
	if err != nil {
		v.logger.Error("failed to analyze video",
			"error", err,
			"file_name", file.Name(),
			"duration", time.Since(start),
		)
		recordSubmit(outcomeFailure)
		return err
	}

	recordSubmit(outcomeSuccess)
	return nil
}

// State returns a snapshot of the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		File:    v.file,
		Loading: v.loading,
		Result:  v.result,
		Error:   v.errKind,
	}
}

// Loading reports whether a submit is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}
