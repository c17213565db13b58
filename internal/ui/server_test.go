package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeActions struct {
	mu      sync.Mutex
	opened  []string
	logins  []string
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeActions) OpenExisting(ctx context.Context, raw string) string {
	f.mu.Lock()
	f.opened = append(f.opened, raw)
	f.mu.Unlock()
	return "opened " + raw
}

func (f *fakeActions) AutoLogin(ctx context.Context, raw string) string {
	f.mu.Lock()
	f.logins = append(f.logins, raw)
	f.mu.Unlock()
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	return "logged in " + raw
}

func setupRouter(a Actions, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(a, opts, nil).Router()
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Status
}

var unlimited = Options{Rate: rate.Inf, Burst: 1}

func TestIndex(t *testing.T) {
	r := setupRouter(&fakeActions{}, unlimited)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Open in Same Browser")
	assert.Contains(t, body, "Force Auto-Login (Separate Browser)")
	assert.Contains(t, body, "ASU Workday Job")
	assert.Contains(t, body, "https://www.google.com")
	assert.Contains(t, body, `id="status" readonly`)
}

func TestExamplesAndHealth(t *testing.T) {
	r := setupRouter(&fakeActions{}, unlimited)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/examples", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got []Example
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, Examples, got)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActions(t *testing.T) {
	a := &fakeActions{}
	r := setupRouter(a, unlimited)

	w := post(r, "/api/open", `{"url": "example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "opened example.com", decodeStatus(t, w))

	w = post(r, "/api/autologin", `{"url": "https://foo.taleo.net"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "logged in https://foo.taleo.net", decodeStatus(t, w))

	// empty input is the dispatcher's to report, not a transport error
	w = post(r, "/api/open", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"example.com", ""}, a.opened)
}

func TestActions_BadBody(t *testing.T) {
	r := setupRouter(&fakeActions{}, unlimited)
	w := post(r, "/api/open", `{"url": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeStatus(t, w), "Bad request")
}

func TestRateLimit(t *testing.T) {
	r := setupRouter(&fakeActions{}, Options{Rate: 0, Burst: 1})

	assert.Equal(t, http.StatusOK, post(r, "/api/open", `{"url": "a.com"}`).Code)
	w := post(r, "/api/open", `{"url": "a.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, rateLimitedStatus, decodeStatus(t, w))

	// read-only routes are not limited
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/examples", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAutoLogin_Busy(t *testing.T) {
	a := &fakeActions{block: make(chan struct{}), entered: make(chan struct{})}
	r := setupRouter(a, unlimited)

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- post(r, "/api/autologin", `{"url": "first.com"}`) }()
	<-a.entered

	w := post(r, "/api/autologin", `{"url": "second.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, busyStatus, decodeStatus(t, w))

	// opening a tab is not blocked by a running attempt
	assert.Equal(t, http.StatusOK, post(r, "/api/open", `{"url": "third.com"}`).Code)

	close(a.block)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, []string{"first.com"}, a.logins)
}
