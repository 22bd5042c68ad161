package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/roguepikachu/pasteshare/internal/domain"
)

var uiPage = Page{Origin: "https://ui.example", Hostname: "ui.example"}

// newAPI starts a fake paste API and a client pointed at it.
func newAPI(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Environment{BaseURL: srv.URL + "/", Production: true, Page: uiPage}, opts...)
	return c, srv
}

// closedURL returns the address of a server that is no longer listening.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

type recordedCall struct {
	op, outcome string
}

type recorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *recorder) observe(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{op, outcome})
}

func (r *recorder) last() recordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return recordedCall{}
	}
	return r.calls[len(r.calls)-1]
}

func TestCreatePaste_Success(t *testing.T) {
	var gotBody map[string]any
	var gotMethod, gotPath, gotTestNow string
	c, srv := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotTestNow = r.Header.Get(HeaderTestNow)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"abc123","expireAt":"2025-01-01T00:00:00Z"}`)
	}, WithTestClock(stubClock{value: "42"}))

	res, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{
		Content: "hello", TTLSeconds: 60, MaxViews: 3, Title: "t", Language: "go", Password: "pw",
	})
	if err != nil {
		t.Fatalf("CreatePaste: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/pastes" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	if gotTestNow != "42" {
		t.Fatalf("test clock header = %q", gotTestNow)
	}
	if res.ID != "abc123" {
		t.Fatalf("ID = %q", res.ID)
	}
	if res.URL != "https://ui.example/p/abc123" {
		t.Fatalf("URL = %q", res.URL)
	}
	if strings.HasPrefix(res.URL, srv.URL) {
		t.Fatalf("URL must not point at the API host: %q", res.URL)
	}
	if res.ExpireAt == nil || *res.ExpireAt != "2025-01-01T00:00:00Z" {
		t.Fatalf("ExpireAt = %v", res.ExpireAt)
	}
	want := map[string]any{
		"content": "hello", "ttl_seconds": float64(60), "max_views": float64(3),
		"title": "t", "language": "go", "password": "pw",
	}
	for k, v := range want {
		if gotBody[k] != v {
			t.Fatalf("payload[%q] = %v, want %v (payload %v)", k, gotBody[k], v, gotBody)
		}
	}
	if _, ok := gotBody["ttlSeconds"]; ok {
		t.Fatalf("client field names must not leak: %v", gotBody)
	}
}

func TestCreatePaste_OmitsAbsentFields(t *testing.T) {
	var raw map[string]json.RawMessage
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = io.WriteString(w, `{"id":"x"}`)
	})
	if _, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "only"}); err != nil {
		t.Fatalf("CreatePaste: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("want only content in payload, got %v", raw)
	}
}

func TestCreatePaste_ExpireAtVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{"camel", `{"id":"a","expireAt":"c"}`, strPtr("c")},
		{"snake", `{"id":"a","expire_at":"s"}`, strPtr("s")},
		{"camel wins", `{"id":"a","expireAt":"c","expire_at":"s"}`, strPtr("c")},
		{"camel null falls back", `{"id":"a","expireAt":null,"expire_at":"s"}`, strPtr("s")},
		{"absent", `{"id":"a"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			res, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
			if err != nil {
				t.Fatalf("CreatePaste: %v", err)
			}
			switch {
			case tt.want == nil && res.ExpireAt != nil:
				t.Fatalf("ExpireAt = %q, want nil", *res.ExpireAt)
			case tt.want != nil && (res.ExpireAt == nil || *res.ExpireAt != *tt.want):
				t.Fatalf("ExpireAt = %v, want %q", res.ExpireAt, *tt.want)
			}
		})
	}
}

func TestCreatePaste_ErrorBodyMessage(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"content too large"}`)
	})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("want *HTTPError, got %T %v", err, err)
	}
	if he.Status != http.StatusBadRequest || err.Error() != "content too large" {
		t.Fatalf("got status %d message %q", he.Status, err.Error())
	}
}

func TestCreatePaste_NestedErrorMessage(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"bad_request","message":"invalid request"}}`)
	})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	if err == nil || err.Error() != "invalid request" {
		t.Fatalf("got %v", err)
	}
}

func TestCreatePaste_UnparsableErrorBodyUsesDefault(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	if err == nil || err.Error() != MsgCreateFailed {
		t.Fatalf("got %v", err)
	}
}

func TestCreatePaste_HintAppended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	// No base configured, not production: requests resolve against the page origin.
	c := New(Environment{Page: Page{Origin: srv.URL, Hostname: "127.0.0.1"}})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	want := MsgCreateFailed + ". " + hintSeparateHost
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestCreatePaste_NetworkError(t *testing.T) {
	base := closedURL(t)
	c := New(Environment{BaseURL: base, Production: true, Page: uiPage})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("want *NetworkError, got %T %v", err, err)
	}
	want := "Unable to reach API. Ensure the backend is running at " + base + "."
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
	if ne.Unwrap() == nil {
		t.Fatalf("network error should wrap the transport error")
	}
}

func TestNetworkError_MessageVariants(t *testing.T) {
	tests := []struct {
		err  NetworkError
		want string
	}{
		{NetworkError{}, "Unable to reach API. Ensure the backend is running."},
		{NetworkError{Hint: "Do X."}, "Unable to reach API. Ensure the backend is running. Do X."},
		{NetworkError{BaseURL: "https://api"}, "Unable to reach API. Ensure the backend is running at https://api."},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Fatalf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestCreatePaste_NetworkErrorWithHint(t *testing.T) {
	origin := closedURL(t)
	c := New(Environment{Production: true, Page: Page{Origin: origin, Hostname: "me.vercel.app"}})
	_, err := c.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	want := "Unable to reach API. Ensure the backend is running. " + hintSetBase
	if err == nil || err.Error() != want {
		t.Fatalf("got %v, want %q", err, want)
	}
}

func TestGetPaste_Success(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.Query().Get("password")
		_, _ = io.WriteString(w, `{
			"content":"hi","remaining_views":2,"expires_at":"2025-01-02T00:00:00Z",
			"created_at":"2025-01-01T00:00:00Z","title":"T","language":"go","is_password_protected":true
		}`)
	})
	got, err := c.GetPaste(context.Background(), "abc", "s3cr et&x")
	if err != nil {
		t.Fatalf("GetPaste: %v", err)
	}
	if gotPath != "/api/pastes/abc" || gotQuery != "s3cr et&x" {
		t.Fatalf("path %q password %q", gotPath, gotQuery)
	}
	if got.Content != "hi" || got.CreatedAt != "2025-01-01T00:00:00Z" || got.Title != "T" ||
		got.Language != "go" || !got.IsPasswordProtected {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.RemainingViews == nil || *got.RemainingViews != 2 {
		t.Fatalf("RemainingViews = %v", got.RemainingViews)
	}
	if got.ExpiresAt == nil || *got.ExpiresAt != "2025-01-02T00:00:00Z" {
		t.Fatalf("ExpiresAt = %v", got.ExpiresAt)
	}
}

func TestGetPaste_NoPasswordNoQuery(t *testing.T) {
	var rawQuery string
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"content":"x","created_at":"c","expires_at":null,"remaining_views":null}`)
	})
	got, err := c.GetPaste(context.Background(), "abc", "")
	if err != nil {
		t.Fatalf("GetPaste: %v", err)
	}
	if rawQuery != "" {
		t.Fatalf("query should be empty, got %q", rawQuery)
	}
	if got.RemainingViews != nil || got.ExpiresAt != nil {
		t.Fatalf("nullable fields should stay nil: %+v", got)
	}
}

func TestGetPaste_PasswordRequired(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"requires_password":true}`)
	})
	_, err := c.GetPaste(context.Background(), "abc", "")
	var pr *PasswordRequiredError
	if !errors.As(err, &pr) {
		t.Fatalf("want *PasswordRequiredError, got %T %v", err, err)
	}
	if !pr.RequiresPassword() || !IsPasswordRequired(err) {
		t.Fatalf("RequiresPassword should be true")
	}
	if err.Error() != MsgPasswordRequired {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestGetPaste_ForbiddenWithoutFlag(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":"view limit reached"}`)
	})
	_, err := c.GetPaste(context.Background(), "abc", "pw")
	if IsPasswordRequired(err) {
		t.Fatalf("must not signal password required")
	}
	var he *HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusForbidden || err.Error() != "view limit reached" {
		t.Fatalf("got %T %v", err, err)
	}
}

func TestGetPaste_NotFound(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"backend says gone"}`)
	})
	_, err := c.GetPaste(context.Background(), "missing", "")
	if err == nil || err.Error() != "Paste not found or expired" {
		t.Fatalf("got %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound should be true")
	}
}

func TestGetPaste_NotFoundHasNoHint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := New(Environment{Page: Page{Origin: srv.URL, Hostname: "localhost"}})
	_, err := c.GetPaste(context.Background(), "missing", "")
	if err == nil || err.Error() != MsgNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestGetPaste_OtherStatusDefaultMessage(t *testing.T) {
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetPaste(context.Background(), "abc", "")
	if err == nil || err.Error() != MsgFetchFailed {
		t.Fatalf("got %v", err)
	}
}

func TestGetPaste_EscapesID(t *testing.T) {
	var rawPath string
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"content":"x"}`)
	})
	if _, err := c.GetPaste(context.Background(), "a/b", ""); err != nil {
		t.Fatalf("GetPaste: %v", err)
	}
	if rawPath != "/api/pastes/a%2Fb" {
		t.Fatalf("path = %q", rawPath)
	}
}

func TestGetPaste_NetworkError(t *testing.T) {
	c := New(Environment{BaseURL: closedURL(t), Page: uiPage})
	_, err := c.GetPaste(context.Background(), "abc", "")
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("want *NetworkError, got %T %v", err, err)
	}
}

func TestGetPaste_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.GetPaste(ctx, "abc", "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %T %v", err, err)
	}
}

func TestCheckHealth(t *testing.T) {
	var gotPath string
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	if !c.CheckHealth(context.Background()) {
		t.Fatalf("want healthy")
	}
	if gotPath != "/api/healthz" {
		t.Fatalf("path = %q", gotPath)
	}

	down, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if down.CheckHealth(context.Background()) {
		t.Fatalf("want unhealthy on 503")
	}
}

func TestCheckHealth_NetworkFailureIsFalse(t *testing.T) {
	c := New(Environment{BaseURL: closedURL(t)})
	if c.CheckHealth(context.Background()) {
		t.Fatalf("want false for unreachable API")
	}
	bad := New(Environment{BaseURL: "://not a url"})
	if bad.CheckHealth(context.Background()) {
		t.Fatalf("want false for malformed base URL")
	}
}

func TestRedirectsAreNotFollowed(t *testing.T) {
	var mu sync.Mutex
	landed := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			mu.Lock()
			landed++
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
	caller := &http.Client{Timeout: 5 * time.Second}

	for name, c := range map[string]func() *Client{
		"default client": func() *Client { c, _ := newAPI(t, handler); return c },
		"custom client":  func() *Client { c, _ := newAPI(t, handler, WithHTTPClient(caller)); return c },
	} {
		t.Run(name, func(t *testing.T) {
			client := c()
			if client.CheckHealth(context.Background()) {
				t.Fatalf("a redirect must not count as healthy")
			}
			_, err := client.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) || httpErr.Status != http.StatusFound {
				t.Fatalf("want HTTPError 302, got %T %v", err, err)
			}
		})
	}

	mu.Lock()
	defer mu.Unlock()
	if landed != 0 {
		t.Fatalf("redirect target was requested %d times", landed)
	}
	if caller.CheckRedirect != nil {
		t.Fatalf("caller's http.Client must not be modified")
	}
}

func TestObserverOutcomes(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusOK, `{"content":"x"}`, OutcomeOK},
		{http.StatusForbidden, `{"requires_password":true}`, OutcomePasswordRequired},
		{http.StatusNotFound, ``, OutcomeNotFound},
		{http.StatusInternalServerError, ``, OutcomeHTTPError},
		{http.StatusOK, `not json`, OutcomeError},
	}
	rec := &recorder{}
	c, _ := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/healthz" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		i, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/pastes/"))
		if err != nil || i >= len(tests) {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(tests[i].status)
		_, _ = io.WriteString(w, tests[i].body)
	}, WithObserver(rec.observe))

	for i, tt := range tests {
		_, _ = c.GetPaste(context.Background(), strconv.Itoa(i), "")
		if got := rec.last(); got.op != OpGetPaste || got.outcome != tt.want {
			t.Fatalf("status %d: got %+v, want outcome %s", tt.status, got, tt.want)
		}
	}

	c.CheckHealth(context.Background())
	if got := rec.last(); got.op != OpCheckHealth || got.outcome != OutcomeUnhealthy {
		t.Fatalf("health: got %+v", got)
	}

	offline := New(Environment{BaseURL: closedURL(t)}, WithObserver(rec.observe))
	_, _ = offline.CreatePaste(context.Background(), domain.CreatePasteRequest{Content: "x"})
	if got := rec.last(); got.op != OpCreatePaste || got.outcome != OutcomeNetworkError {
		t.Fatalf("create offline: got %+v", got)
	}
}

func TestForPage(t *testing.T) {
	base := New(Environment{BaseURL: "https://api.example/", Page: uiPage})
	other := base.ForPage(Page{Origin: "https://other.example", Hostname: "x.vercel.app"})
	if base.page != uiPage {
		t.Fatalf("ForPage must not mutate the receiver")
	}
	if other.BaseURL() != "https://api.example" {
		t.Fatalf("BaseURL = %q", other.BaseURL())
	}
	if other.Hint() != "" {
		t.Fatalf("base configured, want no hint, got %q", other.Hint())
	}
}

func strPtr(s string) *string { return &s }
