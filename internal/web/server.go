package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/config"
	"github.com/runixer/rhetoric/internal/files"
	"github.com/runixer/rhetoric/internal/i18n"
	"github.com/runixer/rhetoric/internal/origin"
	"github.com/runixer/rhetoric/internal/ui"
)

const metricsNamespace = "rhetoric"

// multipartMemory is how much of an upload ParseMultipartForm keeps in RAM
// before spilling to temp files.
const multipartMemory = 32 << 20

// getClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers (set by reverse proxies),
// falling back to RemoteAddr if no proxy headers are present.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs: "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

type Server struct {
	cfg        *config.Config
	translator *i18n.Translator
	renderer   *ui.Renderer
	sessions   *sessionStore
	logger     *slog.Logger

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

func NewServer(logger *slog.Logger, cfg *config.Config, analyzer analysis.Analyzer, translator *i18n.Translator) (*Server, error) {
	renderer, err := ui.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	return &Server{
		cfg:        cfg,
		translator: translator,
		renderer:   renderer,
		sessions:   newSessionStore(cfg.GetSessionTTL(), analyzer, logger),
		logger:     logger.With("component", "web_server"),
	}, nil
}

// Handler returns the routed and wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", instrumentHandler("index", s.indexHandler))
	mux.HandleFunc("POST /select", instrumentHandler("select", s.selectHandler))
	mux.HandleFunc("POST /analyze", instrumentHandler("analyze", s.analyzeHandler))
	mux.HandleFunc("/healthz", instrumentHandler("healthz", s.healthzHandler))
	mux.Handle("/metrics", promhttp.Handler())

	return s.loggingMiddleware(mux)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.cfg.Server.ListenPort,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("web server shutdown failed", "error", err)
		}
	}()

	if s.track() {
		go func() {
			defer s.wg.Done()
			s.sessions.run(ctx, sweepInterval(s.cfg.GetSessionTTL()))
		}()
	}

	s.logger.Info("Starting web server",
		"port", s.cfg.Server.ListenPort,
		"backend", s.cfg.Backend.BaseURL,
	)
	err := server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}
	s.drain()
	return nil
}

// track registers one background task unless the server is draining.
// The caller must call s.wg.Done when track returns true.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.wg.Add(1)
	return true
}

// drain stops accepting background tasks and waits for in-flight analyses
// and the session sweeper.
func (s *Server) drain() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.wg.Wait()
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (s *Server) pageOptions(notice string) ui.PageOptions {
	return ui.PageOptions{
		BackendBaseURL: s.cfg.Backend.BaseURL,
		EmbedBaseURL:   s.cfg.Player.EmbedBaseURL,
		Lang:           s.cfg.UI.Language,
		Translator:     s.translator,
		Notice:         notice,
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, sess *session, status int, notice string) {
	page := ui.NewAnalyzePage(sess.view.State(), s.pageOptions(notice))
	funcMap := ui.GetFuncMap(s.translator, s.cfg.UI.Language)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := s.renderer.Render(w, ui.IndexTemplate, page, funcMap); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.fromRequest(w, r)
	s.renderIndex(w, sess, http.StatusOK, "")
}

// selectHandler stores the uploaded file as the session's selection.
// A form without a file clears the selection, like a cancelled picker.
func (s *Server) selectHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.fromRequest(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.GetMaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.logger.Warn("upload rejected: too large", "limit_bytes", maxErr.Limit)
			notice := s.translator.Get(s.cfg.UI.Language, "upload.too_large", s.cfg.Server.MaxUploadMB)
			s.renderIndex(w, sess, http.StatusRequestEntityTooLarge, notice)
			return
		}
		s.logger.Warn("failed to parse upload form", "error", err)
		http.Error(w, "Invalid upload form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	part, header, err := r.FormFile(analysis.FileField)
	if errors.Is(err, http.ErrMissingFile) {
		sess.view.SelectFile(nil)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		s.logger.Warn("failed to read uploaded file", "error", err)
		http.Error(w, "Invalid upload form", http.StatusBadRequest)
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		s.logger.Error("failed to buffer uploaded file", "error", err, "file_name", header.Filename)
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	file := files.FromBytes(header.Filename, header.Header.Get("Content-Type"), data)
	sess.view.SelectFile(file)
	s.logger.Debug("file selected",
		"session_id", sess.id,
		"file_name", file.Name(),
		"mime_type", file.MIMEType(),
		"size", file.Size(),
	)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// analyzeHandler starts the backend call and redirects right away; the page
// shows the spinner until the call resolves. The call is detached from the
// browser request, so closing the tab does not cancel it.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.fromRequest(w, r)

	if !s.track() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	ctx := origin.With(context.WithoutCancel(r.Context()), origin.Web)
	done := sess.view.SubmitAsync(ctx)
	go func() {
		defer s.wg.Done()
		if err := <-done; err != nil {
			s.logger.Debug("analyze submit finished with error", "session_id", sess.id, "error", err)
		}
	}()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Log healthz and metrics at debug level, other requests at info level
		if path == "/healthz" || path == "/metrics" {
			s.logger.Debug("Received HTTP request",
				"method", r.Method,
				"path", path,
				"client_ip", getClientIP(r),
			)
		} else {
			s.logger.Info("Received HTTP request",
				"method", r.Method,
				"path", path,
				"client_ip", getClientIP(r),
				"user_agent", r.UserAgent(),
			)
		}
		next.ServeHTTP(w, r)
	})
}
