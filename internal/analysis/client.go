package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/runixer/rhetoric/internal/files"
	"github.com/runixer/rhetoric/internal/origin"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 10 << 20

// Analyzer sends one video to the backend and returns the parsed result.
// There are no retries: every failure is final for that call.
type Analyzer interface {
	Analyze(ctx context.Context, file files.SelectedFile) (*Result, error)
}

// truncateForLog truncates a string to maxLen characters for logging.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}

// Client is the HTTP implementation of Analyzer.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewClient creates a client posting to endpoint (the full analyze URL).
// A zero timeout leaves the request without a deadline of its own.
func NewClient(logger *slog.Logger, endpoint string, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		endpoint: endpoint,
		logger:   logger.With("component", "analysis_client"),
	}
}

// Endpoint returns the URL uploads are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze uploads file as the "file" part of a multipart POST.
func (c *Client) Analyze(ctx context.Context, file files.SelectedFile) (*Result, error) {
	start := time.Now()
	req := NewRequest(file)
	o := origin.FromContext(ctx)

	c.logger.Info("Sending video to analysis backend",
		"endpoint", c.endpoint,
		"origin", o,
		"file_name", file.Name(),
		"mime_type", file.MIMEType(),
		"size_bytes", file.Size(),
	)

	pr, pw := io.Pipe()
	go func() {
		n, err := req.WriteTo(pw)
		if err == nil {
			RecordUploadBytes(n)
		}
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		pr.CloseWithError(err)
		RecordRequest(o, outcomeNetworkError, time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	defer pr.Close()
	httpReq.Header.Set("Content-Type", req.ContentType())
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "rhetoric/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		pr.CloseWithError(err)
		RecordRequest(o, outcomeNetworkError, time.Since(start).Seconds())
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		RecordRequest(o, outcomeNetworkError, time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to read analysis response: %w", err)
	}

	c.logger.Debug("Analysis response received", "status", resp.Status, "body_length", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Analysis backend returned non-2xx status",
			"status", resp.Status,
			"body", truncateForLog(string(body), 500),
		)
		RecordRequest(o, outcomeHTTPError, time.Since(start).Seconds())
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	result, err := decodeResult(body)
	if err != nil {
		RecordRequest(o, outcomeDecodeError, time.Since(start).Seconds())
		return nil, err
	}

	RecordRequest(o, outcomeSuccess, time.Since(start).Seconds())
	c.logger.Info("Analysis completed",
		"file_name", file.Name(),
		"flagged_frames", len(result.FlaggedFrames),
		"pacing", result.AudioAnalysis.Pacing,
		"duration", time.Since(start),
	)
	return result, nil
}

// decodeResult parses a success body. Anything other than a single JSON object is rejected.
func decodeResult(body []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrDecode)
	}

	var result Result
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrDecode)
	}
	return &result, nil
}
