// Package judge talks to a Codeforces-compatible public API.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/errors"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/metrics"
	"github.com/julianstephens/potd/internal/models"
)

// API method names, used in URLs, errors and metric labels.
const (
	MethodProblems     = "problemset.problems"
	MethodUserInfo     = "user.info"
	MethodUserStatus   = "user.status"
	MethodRecentStatus = "problemset.recentStatus"
)

// APIError is a failed judge call. Kind is one of the taxonomy sentinels so
// callers can test with errors.Is.
type APIError struct {
	Method     string
	HTTPStatus int
	Status     string
	Comment    string
	Kind       error
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Method)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Comment != "" {
		fmt.Fprintf(&b, ": %s", e.Comment)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else if e.HTTPStatus != 0 && e.HTTPStatus != http.StatusOK {
		fmt.Fprintf(&b, ": HTTP %d", e.HTTPStatus)
	}
	return b.String()
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateEvery time.Duration
	Burst     int
	// HTTPClient defaults to a client with no overall timeout; per-call
	// deadlines come from Timeout.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = constants.DefaultJudgeBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultJudgeTimeout
	}
	if opts.RateEvery <= 0 {
		opts.RateEvery = constants.DefaultJudgeRateEvery
	}
	if opts.Burst <= 0 {
		opts.Burst = constants.DefaultJudgeBurst
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		limiter: rate.NewLimiter(rate.Every(opts.RateEvery), opts.Burst),
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Host returns the site root, used to build problem links.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return "https://codeforces.com"
	}
	return u.Scheme + "://" + u.Host
}

// call performs one GET and decodes the envelope's result into out.
func (c *Client) call(ctx context.Context, method string, params url.Values, kind error, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveJudge(method, err, time.Since(start))
		if err != nil {
			logger.Warn("Judge call failed", "method", method, "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return &APIError{Method: method, Kind: kind, Err: err}
	}

	u := c.baseURL + "/" + method
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Method: method, Kind: kind, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)

	logger.Debug("Judge request", "method", method, "params", params.Encode())

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: method, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return &APIError{Method: method, HTTPStatus: resp.StatusCode, Kind: kind, Err: err}
	}

	// The judge reports failures such as unknown handles as a FAILED
	// envelope with a 400, so the body is decoded before the status code
	// is judged.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Method: method, HTTPStatus: resp.StatusCode, Kind: kind}
		}
		return &APIError{Method: method, HTTPStatus: resp.StatusCode, Kind: kind, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if env.Status != constants.StatusOK {
		return &APIError{Method: method, HTTPStatus: resp.StatusCode, Status: env.Status, Comment: env.Comment, Kind: kind}
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return &APIError{Method: method, HTTPStatus: resp.StatusCode, Status: env.Status, Kind: kind, Err: fmt.Errorf("decode result: %w", err)}
	}
	return nil
}

// Problems fetches the full problem catalog in the judge's order. Entries
// without a usable identity are dropped.
func (c *Client) Problems(ctx context.Context) ([]models.Problem, error) {
	var result struct {
		Problems []models.Problem `json:"problems"`
	}
	if err := c.call(ctx, MethodProblems, nil, errors.ErrCatalogFetch, &result); err != nil {
		return nil, err
	}

	problems := result.Problems[:0]
	dropped := 0
	for _, p := range result.Problems {
		if !validProblem(p) {
			dropped++
			continue
		}
		problems = append(problems, p)
	}
	if dropped > 0 {
		logger.Debug("Dropped catalog entries without identity", "count", dropped)
	}
	return problems, nil
}

func validProblem(p models.Problem) bool {
	if p.ContestID <= 0 || strings.TrimSpace(p.Index) == "" {
		return false
	}
	return p.Rating == nil || *p.Rating > 0
}

// UserInfo fetches a handle's rating. Unrated users report 0.
func (c *Client) UserInfo(ctx context.Context, handle string) (models.UserInfo, error) {
	if handle == "" {
		return models.UserInfo{}, &APIError{Method: MethodUserInfo, Kind: errors.ErrUserInfoUnavailable, Err: fmt.Errorf("empty handle")}
	}

	var users []models.UserInfo
	params := url.Values{"handles": {handle}}
	if err := c.call(ctx, MethodUserInfo, params, errors.ErrUserInfoUnavailable, &users); err != nil {
		return models.UserInfo{}, err
	}
	if len(users) == 0 {
		return models.UserInfo{}, &APIError{Method: MethodUserInfo, Kind: errors.ErrUserInfoUnavailable, Err: fmt.Errorf("no user %q", handle)}
	}
	return users[0], nil
}

// Submissions fetches up to count of the handle's most recent submissions.
func (c *Client) Submissions(ctx context.Context, handle string, count int) ([]models.Submission, error) {
	if handle == "" {
		return nil, &APIError{Method: MethodUserStatus, Kind: errors.ErrSubmissionFetch, Err: fmt.Errorf("empty handle")}
	}
	if count <= 0 {
		count = constants.SolveCheckCount
	}

	var subs []models.Submission
	params := url.Values{
		"handle": {handle},
		"from":   {"1"},
		"count":  {strconv.Itoa(count)},
	}
	if err := c.call(ctx, MethodUserStatus, params, errors.ErrSubmissionFetch, &subs); err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].Problem.ContestID == 0 {
			subs[i].Problem.ContestID = subs[i].ContestID
		}
	}
	return subs, nil
}

// Ping makes the cheapest call the API offers.
func (c *Client) Ping(ctx context.Context) error {
	var out json.RawMessage
	params := url.Values{"count": {"1"}}
	return c.call(ctx, MethodRecentStatus, params, errors.ErrCatalogFetch, &out)
}
