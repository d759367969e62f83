package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/view"
)

// SessionCookie names the cookie carrying the browser's session id.
const SessionCookie = "rhetoric_session"

// session is one browser's page state.
type session struct {
	id       string
	view     *view.View
	lastSeen time.Time
}

// sessionStore keeps one view per browser session and evicts idle ones.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time

	analyzer   analysis.Analyzer
	viewLogger *slog.Logger
	logger     *slog.Logger
}

func newSessionStore(ttl time.Duration, analyzer analysis.Analyzer, logger *slog.Logger) *sessionStore {
	return &sessionStore{
		sessions:   make(map[string]*session),
		ttl:        ttl,
		now:        time.Now,
		analyzer:   analyzer,
		viewLogger: logger,
		logger:     logger.With("component", "session_store"),
	}
}

// fromRequest returns the caller's session, creating one and setting the
// cookie when the request carries no known id.
func (st *sessionStore) fromRequest(w http.ResponseWriter, r *http.Request) *session {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := st.touch(c.Value); ok {
				return sess
			}
		}
	}

	sess := st.create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (st *sessionStore) touch(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if ok {
		sess.lastSeen = st.now()
	}
	return sess, ok
}

func (st *sessionStore) create() *session {
	sess := &session{
		id:   uuid.NewString(),
		view: view.New(st.analyzer, st.viewLogger),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	sess.lastSeen = st.now()
	st.sessions[sess.id] = sess
	activeSessions.Set(float64(len(st.sessions)))
	return sess
}

// sweep drops sessions idle for longer than the TTL. Sessions with an
// analysis in flight are kept until it resolves.
func (st *sessionStore) sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.ttl)
	expired := lo.Filter(lo.Values(st.sessions), func(sess *session, _ int) bool {
		return sess.lastSeen.Before(cutoff) && !sess.view.Loading()
	})
	for _, sess := range expired {
		delete(st.sessions, sess.id)
	}
	activeSessions.Set(float64(len(st.sessions)))

	if len(expired) > 0 {
		st.logger.Debug("evicted idle sessions", "count", len(expired), "remaining", len(st.sessions))
	}
	return len(expired)
}

func (st *sessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// run sweeps on every tick until ctx is done.
func (st *sessionStore) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.sweep()
		}
	}
}
