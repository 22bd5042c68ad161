package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/roguepikachu/pasteshare/internal/domain"
	"github.com/roguepikachu/pasteshare/pkg"
	"github.com/roguepikachu/pasteshare/pkg/logger"
)

// Operation names reported to the Observer.
const (
	OpCreatePaste = "create_paste"
	OpGetPaste    = "get_paste"
	OpCheckHealth = "check_health"
)

// Outcomes reported to the Observer.
const (
	OutcomeOK               = "ok"
	OutcomeNetworkError     = "network_error"
	OutcomePasswordRequired = "password_required"
	OutcomeNotFound         = "not_found"
	OutcomeHTTPError        = "http_error"
	OutcomeUnhealthy        = "unhealthy"
	OutcomeError            = "error"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Page identifies the frontend a client works for. Shareable links are built
// from Origin; deployment hints look at Hostname.
type Page struct {
	Origin   string
	Hostname string
}

// Environment is the configuration a Client is built from.
type Environment struct {
	BaseURL    string
	Production bool
	Page       Page
}

// Observer receives one call per API operation.
type Observer func(operation, outcome string, elapsed time.Duration)

// Client calls the paste API. It holds no mutable state and is safe for
// concurrent use.
type Client struct {
	base       string
	production bool
	page       Page
	hints      HintPolicy
	clock      TestClockSource
	httpClient *http.Client
	observe    Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
// The client is copied; redirects are never followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			cp.CheckRedirect = refuseRedirect
			c.httpClient = &cp
		}
	}
}

// refuseRedirect returns 3xx responses as they are, so they count as non-2xx
// instead of being followed into whatever page the redirect names.
func refuseRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// WithTestClock sets where the x-test-now-ms override is read from.
func WithTestClock(src TestClockSource) Option { return func(c *Client) { c.clock = src } }

// WithHintPolicy overrides the default deployment hint policy.
func WithHintPolicy(p HintPolicy) Option { return func(c *Client) { c.hints = p } }

// WithObserver registers a callback invoked after every operation.
func WithObserver(o Observer) Option { return func(c *Client) { c.observe = o } }

// New creates a Client for env.
func New(env Environment, opts ...Option) *Client {
	c := &Client{
		base:       NormalizeBase(env.BaseURL),
		production: env.Production,
		page:       env.Page,
		hints:      DefaultHintPolicy(),
		httpClient: &http.Client{CheckRedirect: refuseRedirect},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForPage returns a copy of c serving a different frontend page.
func (c *Client) ForPage(p Page) *Client {
	cp := *c
	cp.page = p
	return &cp
}

// BaseURL returns the normalized API base URL; "" means same origin.
func (c *Client) BaseURL() string { return c.base }

// Hint returns the deployment hint for this client's configuration.
func (c *Client) Hint() string {
	return c.hints.Hint(c.base != "", c.production, c.page.Hostname)
}

type createPastePayload struct {
	Content    string `json:"content"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
	MaxViews   int    `json:"max_views,omitempty"`
	Title      string `json:"title,omitempty"`
	Language   string `json:"language,omitempty"`
	Password   string `json:"password,omitempty"`
}

type createPasteResult struct {
	ID            string  `json:"id"`
	ExpireAt      *string `json:"expireAt"`
	ExpireAtSnake *string `json:"expire_at"`
}

type viewPasteResult struct {
	Content             string  `json:"content"`
	RemainingViews      *int    `json:"remaining_views"`
	ExpiresAt           *string `json:"expires_at"`
	CreatedAt           string  `json:"created_at"`
	Title               string  `json:"title"`
	Language            string  `json:"language"`
	IsPasswordProtected bool    `json:"is_password_protected"`
}

type errorBody struct {
	Error            json.RawMessage `json:"error"`
	RequiresPassword bool            `json:"requires_password"`
}

// message accepts both {"error":"..."} and {"error":{"message":"..."}}.
func (b errorBody) message() string {
	if len(b.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

// readErrorBody never fails; an unreadable body yields the zero value.
func readErrorBody(r io.Reader) errorBody {
	var b errorBody
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&b); err != nil {
		return errorBody{}
	}
	return b
}

// CreatePaste stores a new paste and returns its shareable frontend link.
func (c *Client) CreatePaste(ctx context.Context, req domain.CreatePasteRequest) (res domain.PasteResponse, err error) {
	start := time.Now()
	defer func() { c.report(ctx, OpCreatePaste, err, start) }()

	body, err := json.Marshal(createPastePayload{
		Content:    req.Content,
		TTLSeconds: req.TTLSeconds,
		MaxViews:   req.MaxViews,
		Title:      req.Title,
		Language:   req.Language,
		Password:   req.Password,
	})
	if err != nil {
		return domain.PasteResponse{}, fmt.Errorf("encode paste: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, pkg.PastesPath, bytes.NewReader(body))
	if err != nil {
		return domain.PasteResponse{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.PasteResponse{}, c.statusError(resp.StatusCode, readErrorBody(resp.Body), MsgCreateFailed)
	}
	var out createPasteResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.PasteResponse{}, fmt.Errorf("decode created paste: %w", err)
	}
	expireAt := out.ExpireAt
	if expireAt == nil {
		expireAt = out.ExpireAtSnake
	}
	return domain.PasteResponse{
		ID:       out.ID,
		URL:      NormalizeBase(c.page.Origin) + pkg.ViewPagePrefix + url.PathEscape(out.ID),
		ExpireAt: expireAt,
	}, nil
}

// GetPaste fetches a paste. A non-empty password is sent as a query parameter.
func (c *Client) GetPaste(ctx context.Context, id, password string) (res domain.ViewPasteResponse, err error) {
	start := time.Now()
	defer func() { c.report(ctx, OpGetPaste, err, start) }()

	path := pkg.PastesPath + "/" + url.PathEscape(id)
	if password != "" {
		path += "?password=" + url.QueryEscape(password)
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.ViewPasteResponse{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.ViewPasteResponse{}, c.fetchError(resp)
	}
	var out viewPasteResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ViewPasteResponse{}, fmt.Errorf("decode paste: %w", err)
	}
	return domain.ViewPasteResponse{
		Content:             out.Content,
		RemainingViews:      out.RemainingViews,
		ExpiresAt:           out.ExpiresAt,
		CreatedAt:           out.CreatedAt,
		Title:               out.Title,
		Language:            out.Language,
		IsPasswordProtected: out.IsPasswordProtected,
	}, nil
}

func (c *Client) fetchError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return &HTTPError{Status: http.StatusNotFound, Message: MsgNotFound}
	}
	body := readErrorBody(resp.Body)
	if resp.StatusCode == http.StatusForbidden && body.RequiresPassword {
		return &PasswordRequiredError{}
	}
	return c.statusError(resp.StatusCode, body, MsgFetchFailed)
}

// CheckHealth reports whether the API answers its health endpoint with a 2xx.
// Transport failures yield false.
func (c *Client) CheckHealth(ctx context.Context) bool {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, pkg.APIHealthPath, nil)
	if err != nil {
		c.emit(OpCheckHealth, OutcomeNetworkError, start)
		logger.WithField(ctx, "error", err.Error()).Debug("api health check failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	healthy := isSuccess(resp.StatusCode)
	outcome := OutcomeOK
	if !healthy {
		outcome = OutcomeUnhealthy
	}
	c.emit(OpCheckHealth, outcome, start)
	return healthy
}

// endpoint resolves path against the base URL, or against the page origin
// when no base is configured.
func (c *Client) endpoint(path string) string {
	if c.base == "" {
		return NormalizeBase(c.page.Origin) + path
	}
	return c.base + path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, c.networkError(err)
	}
	req.Header = BuildHeaders(ctx, c.clock)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, c.networkError(err)
	}
	return resp, nil
}

func (c *Client) networkError(err error) error {
	return &NetworkError{BaseURL: c.base, Hint: c.Hint(), Err: err}
}

func (c *Client) statusError(status int, body errorBody, fallback string) error {
	msg := body.message()
	if msg == "" {
		msg = fallback
	}
	return &HTTPError{Status: status, Message: msg, Hint: c.Hint()}
}

func (c *Client) report(ctx context.Context, op string, err error, start time.Time) {
	outcome := classify(err)
	c.emit(op, outcome, start)
	entry := logger.With(ctx, map[string]any{
		"operation":  op,
		"outcome":    outcome,
		"latency_ms": time.Since(start).Milliseconds(),
	})
	switch outcome {
	case OutcomeOK, OutcomePasswordRequired, OutcomeNotFound:
		entry.Debug("api call completed")
	default:
		entry.WithField("error", err.Error()).Warn("api call failed")
	}
}

func (c *Client) emit(op, outcome string, start time.Time) {
	if c.observe != nil {
		c.observe(op, outcome, time.Since(start))
	}
}

func classify(err error) string {
	var (
		netErr  *NetworkError
		httpErr *HTTPError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case IsPasswordRequired(err):
		return OutcomePasswordRequired
	case errors.As(err, &netErr):
		return OutcomeNetworkError
	case errors.As(err, &httpErr):
		if httpErr.NotFound() {
			return OutcomeNotFound
		}
		return OutcomeHTTPError
	default:
		return OutcomeError
	}
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }
