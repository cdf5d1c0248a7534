// Package clitest builds command contexts over a temporary ledger and an
// in-process judge for command tests.
package clitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/potd/internal/cli"
	"github.com/julianstephens/potd/internal/config"
	"github.com/julianstephens/potd/internal/judge"
	"github.com/julianstephens/potd/internal/leaderboard"
	"github.com/julianstephens/potd/internal/models"
)

// Judge answers the judge API methods from memory.
type Judge struct {
	mu          sync.Mutex
	problems    []models.Problem
	ratings     map[string]int
	submissions map[string][]models.Submission
	down        bool
	calls       map[string]int
}

func NewJudge(problems []models.Problem) *Judge {
	return &Judge{
		problems:    problems,
		ratings:     make(map[string]int),
		submissions: make(map[string][]models.Submission),
		calls:       make(map[string]int),
	}
}

func (j *Judge) SetRating(handle string, rating int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ratings[handle] = rating
}

// Accept records an accepted submission for p, newest first.
func (j *Judge) Accept(handle string, p models.Problem) {
	j.mu.Lock()
	defer j.mu.Unlock()
	sub := models.Submission{
		ID:        int64(len(j.submissions[handle]) + 1),
		ContestID: p.ContestID,
		Problem:   p,
		Verdict:   "OK",
	}
	j.submissions[handle] = append([]models.Submission{sub}, j.submissions[handle]...)
}

// SetDown makes every call fail with a FAILED envelope.
func (j *Judge) SetDown(down bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.down = down
}

// Calls reports how often method was requested.
func (j *Judge) Calls(method string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls[method]
}

func (j *Judge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	j.mu.Lock()
	defer j.mu.Unlock()

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	j.calls[method]++

	w.Header().Set("Content-Type", "application/json")
	if j.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "FAILED", "comment": "judge is down"})
		return
	}

	var result any
	switch method {
	case judge.MethodProblems:
		result = map[string]any{"problems": j.problems}
	case judge.MethodUserInfo:
		handle := r.URL.Query().Get("handles")
		result = []models.UserInfo{{Handle: handle, Rating: j.ratings[handle]}}
	case judge.MethodUserStatus:
		subs := j.submissions[r.URL.Query().Get("handle")]
		if subs == nil {
			subs = []models.Submission{}
		}
		result = subs
	case judge.MethodRecentStatus:
		result = []models.Submission{}
	default:
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "FAILED", "comment": "unknown method " + method})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "result": result})
}

// Options tune NewContext.
type Options struct {
	Handle   string
	Timezone string
	// Now is the fixed clock; zero means 2025-03-10 12:00 UTC.
	Now time.Time
	// Remote backs the leaderboard; nil disables it.
	Remote leaderboard.Remote
	// Ledger overrides the ledger file name inside the temp dir.
	Ledger string
}

// DefaultNow is the clock used when Options.Now is zero.
var DefaultNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// Config returns a configuration pointing at the given judge URL with a
// ledger under dir and the leaderboard disabled.
func Config(dir, judgeURL, ledgerName string) *config.Config {
	if ledgerName == "" {
		ledgerName = "potd.db"
	}
	cfg := config.Default()
	cfg.Ledger = filepath.Join(dir, ledgerName)
	cfg.Judge.BaseURL = judgeURL
	cfg.Judge.Timeout = 2 * time.Second
	cfg.Judge.RateEvery = time.Millisecond
	cfg.Judge.Burst = 100
	cfg.Leaderboard.Disabled = true
	return cfg
}

// Serve starts j on a test server and returns its API root.
func Serve(t *testing.T, j *Judge) string {
	t.Helper()
	srv := httptest.NewServer(j)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// NewContext returns an opened context over a fresh ledger.
func NewContext(t *testing.T, j *Judge, opts Options) *cli.Context {
	t.Helper()

	cfg := Config(t.TempDir(), Serve(t, j), opts.Ledger)
	c := cli.NewContext(cfg)
	now := opts.Now
	if now.IsZero() {
		now = DefaultNow
	}
	c.Now = func() time.Time { return now }

	if err := c.Ledger.Provider().Init(); err != nil {
		t.Fatalf("failed to initialize ledger: %v", err)
	}
	tz := opts.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if err := c.Ledger.SaveSettings(models.Settings{Handle: opts.Handle, Timezone: tz}); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("failed to open context: %v", err)
	}
	if opts.Remote != nil {
		c.Wire(opts.Remote)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// Catalog is a small catalog spanning the global and beginner windows.
func Catalog() []models.Problem {
	return []models.Problem{
		{ContestID: 4, Index: "A", Name: "Watermelon", Rating: models.Rating(800), Tags: []string{"math"}},
		{ContestID: 71, Index: "A", Name: "Way Too Long Words", Rating: models.Rating(800)},
		{ContestID: 158, Index: "A", Name: "Next Round", Rating: models.Rating(900)},
		{ContestID: 231, Index: "A", Name: "Team", Rating: models.Rating(1000)},
		{ContestID: 282, Index: "A", Name: "Bit++", Rating: models.Rating(1100)},
		{ContestID: 1, Index: "A", Name: "Theatre Square", Rating: models.Rating(1200)},
		{ContestID: 50, Index: "A", Name: "Domino piling", Rating: models.Rating(1500)},
		{ContestID: 580, Index: "C", Name: "Kefa and Park", Rating: models.Rating(1800)},
		{ContestID: 1850, Index: "G", Name: "The Morning Star", Rating: models.Rating(1500)},
		{ContestID: 1900, Index: "Z", Name: "Unrated Puzzle"},
	}
}
