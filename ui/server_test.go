package ui

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cutoffrank/app"
	"cutoffrank/internal/errors"
	"cutoffrank/internal/session"
	"cutoffrank/internal/testkit"
	"cutoffrank/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	svc := app.NewSelectionServiceWithDataset(testkit.Dataset(t), session.NewMemoryStore())
	srv, err := NewServer(svc)
	require.NoError(t, err)
	return &browser{t: t, handler: srv.Handler()}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			b.cookie = c
		}
	}
	return rec
}

func picks(category, college, branch string) url.Values {
	return url.Values{"category": {category}, "college": {college}, "branch": {branch}}
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), Title)
	assert.Contains(t, rec.Body.String(), `data-state="idle"`)
	require.NotNil(t, b.cookie)
	first := b.cookie.Value

	b.do(http.MethodGet, "/", nil)
	assert.Equal(t, first, b.cookie.Value)
}

func TestUnknownCookieGetsFreshSession(t *testing.T) {
	b := newBrowser(t)
	b.cookie = &http.Cookie{Name: middleware.SessionCookie, Value: "forged"}

	rec := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "forged", b.cookie.Value)
}

func TestCollegeDrivesBranchOptions(t *testing.T) {
	b := newBrowser(t)
	b.do(http.MethodPost, "/start", url.Values{})

	rec := b.do(http.MethodGet, "/?college="+url.QueryEscape(testkit.BMS), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="Mechanical">`)
	assert.NotContains(t, body, `<option value="Electronics">`)
}

func TestSelectionFlow(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodPost, "/start", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = b.do(http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `data-state="selecting"`)
	assert.Contains(t, rec.Body.String(), "Select Category")

	rec = b.do(http.MethodPost, "/add", picks("GM", testkit.RVCE, testkit.ECE))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cutoff Rank: 900")

	rec = b.do(http.MethodPost, "/add", picks("GM", testkit.PES, testkit.CSE))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cutoff Rank: 600")

	rec = b.do(http.MethodGet, "/show", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Selected Colleges and Cutoffs:")
	assert.Less(t, strings.Index(body, "<td>"+testkit.PES), strings.Index(body, "<td>"+testkit.RVCE))
	assert.Contains(t, body, "<td>"+testkit.PES)
	assert.Contains(t, body, `href="/download"`)

	rec = b.do(http.MethodGet, "/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="selected_colleges_\d{4}-\d{2}-\d{2}\.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"College,Branch,Cutoff\nPES University,Computer Science,600\nRV College of Engineering,Electronics,900\n",
		rec.Body.String())

	rec = b.do(http.MethodPost, "/end", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session ended successfully!")
	assert.Contains(t, rec.Body.String(), `data-state="idle"`)

	rec = b.do(http.MethodGet, "/show", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAddRejectionsLeaveListUnchanged(t *testing.T) {
	b := newBrowser(t)
	b.do(http.MethodPost, "/start", url.Values{})

	rec := b.do(http.MethodPost, "/add", picks("", testkit.RVCE, testkit.CSE))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please make valid selections for Category, College, and Branch.")
	assert.Contains(t, rec.Body.String(), "flash-warning")

	rec = b.do(http.MethodPost, "/add", picks("SCG", testkit.BMS, testkit.CSE))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data available for BMS College of Engineering in Computer Science under SCG.")
	assert.Contains(t, rec.Body.String(), "flash-error")

	rec = b.do(http.MethodGet, "/show", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No selections made yet.")

	rec = b.do(http.MethodGet, "/download", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "flash-info")
}

func TestAddBeforeStart(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodPost, "/add", picks("GM", testkit.RVCE, testkit.CSE))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose Start")
}

func TestJSONAPIIsMounted(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
	assert.Nil(t, b.cookie)
}

func TestUnavailableServer(t *testing.T) {
	loadErr := errors.LoadError("https://example.invalid/cutoffs.xlsx", stderrors.New("no such host"))
	srv, err := NewUnavailableServer(loadErr)
	require.NoError(t, err)

	for _, path := range []string{"/", "/show", "/download", "/anything"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Unable to load the Excel file", path)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "LOAD_ERROR", gjson.Get(rec.Body.String(), "code").String())
}
