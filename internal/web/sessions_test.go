package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runixer/rhetoric/internal/analysis"
	"github.com/runixer/rhetoric/internal/files"
	"github.com/runixer/rhetoric/internal/testutil"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(ttl time.Duration, analyzer analysis.Analyzer) (*sessionStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	st := newSessionStore(ttl, analyzer, testutil.TestLogger())
	st.now = clock.Now
	return st, clock
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: value})
	}
	return req
}

func TestSessionStore_FromRequest(t *testing.T) {
	st, _ := newTestStore(time.Hour, new(testutil.MockAnalyzer))

	rr := httptest.NewRecorder()
	first := st.fromRequest(rr, requestWithCookie(""))
	require.Len(t, rr.Result().Cookies(), 1)

	t.Run("known id reuses session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		again := st.fromRequest(rr, requestWithCookie(first.id))
		assert.Same(t, first, again)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("malformed id gets a new session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		other := st.fromRequest(rr, requestWithCookie("not-a-uuid"))
		assert.NotEqual(t, first.id, other.id)
		assert.Len(t, rr.Result().Cookies(), 1)
	})

	t.Run("unknown id gets a new session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		other := st.fromRequest(rr, requestWithCookie("6f1c1e9e-3f6a-4c43-9a0e-6a3b4f2d9c11"))
		assert.NotEqual(t, "6f1c1e9e-3f6a-4c43-9a0e-6a3b4f2d9c11", other.id)
	})
}

func TestSessionStore_Sweep(t *testing.T) {
	st, clock := newTestStore(time.Hour, new(testutil.MockAnalyzer))

	idle := st.create()
	clock.now = clock.now.Add(40 * time.Minute)
	fresh := st.create()
	require.Equal(t, 2, st.count())

	clock.now = clock.now.Add(30 * time.Minute)
	assert.Equal(t, 1, st.sweep())
	assert.Equal(t, 1, st.count())

	_, ok := st.touch(idle.id)
	assert.False(t, ok)
	_, ok = st.touch(fresh.id)
	assert.True(t, ok)
}

func TestSessionStore_SweepKeepsLoadingSessions(t *testing.T) {
	release := make(chan struct{})
	analyzer := testutil.AnalyzerFunc(func(ctx context.Context, f files.SelectedFile) (*analysis.Result, error) {
		<-release
		return testutil.SampleResult(), nil
	})
	st, clock := newTestStore(time.Minute, analyzer)

	sess := st.create()
	sess.view.SelectFile(testutil.VideoFile("speech.mp4"))
	done := sess.view.SubmitAsync(context.Background())

	clock.now = clock.now.Add(time.Hour)
	assert.Equal(t, 0, st.sweep())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, st.sweep())
	assert.Equal(t, 0, st.count())
}

func TestSessionStore_RunStopsOnCancel(t *testing.T) {
	st, _ := newTestStore(time.Hour, new(testutil.MockAnalyzer))
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		st.run(ctx, time.Millisecond)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 15*time.Minute, sweepInterval(time.Hour))
	assert.Equal(t, time.Second, sweepInterval(time.Second))
}
