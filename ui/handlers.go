package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"cutoffrank/app"
	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"
	"cutoffrank/internal"
	"cutoffrank/internal/errors"
	"cutoffrank/ui/middleware"

	"github.com/gin-gonic/gin"
)

type flash struct {
	Kind string
	Text string
}

type pageData struct {
	Title      string
	Session    app.SessionView
	Selecting  bool
	Categories []string
	Colleges   []string
	Branches   []string
	Picks      selection.Picks
	Flash      *flash
	Entries    []selection.Entry
}

func (s *Server) page(c *gin.Context, picks selection.Picks) *pageData {
	view, _ := middleware.Session(c)
	if fresh, err := s.svc.Status(c.Request.Context(), view.ID); err == nil {
		view = fresh
	}

	data := &pageData{
		Title:      Title,
		Session:    view,
		Selecting:  view.State == selection.StateSelecting,
		Categories: s.svc.Categories(),
		Colleges:   s.svc.Colleges(),
		Picks:      picks,
	}
	if picks.College != "" {
		data.Branches = s.svc.Branches(picks.College)
	}
	return data
}

func queryPicks(c *gin.Context) selection.Picks {
	return selection.Picks{
		Category: c.Query("category"),
		College:  c.Query("college"),
		Branch:   c.Query("branch"),
	}
}

func formPicks(c *gin.Context) selection.Picks {
	return selection.Picks{
		Category: c.PostForm("category"),
		College:  c.PostForm("college"),
		Branch:   c.PostForm("branch"),
	}
}

func sessionID(c *gin.Context) core.SessionID {
	view, _ := middleware.Session(c)
	return view.ID
}

// handleIndex renders the page; ?college= refreshes the branch options
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.page(c, queryPicks(c)))
}

func (s *Server) handleStart(c *gin.Context) {
	if _, err := s.svc.Start(c.Request.Context(), sessionID(c)); err != nil {
		s.renderError(c, selection.Picks{}, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleEnd(c *gin.Context) {
	if _, err := s.svc.End(c.Request.Context(), sessionID(c)); err != nil {
		s.renderError(c, selection.Picks{}, err)
		return
	}
	data := s.page(c, selection.Picks{})
	data.Flash = &flash{Kind: "success", Text: "Session ended successfully!"}
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

func (s *Server) handleAdd(c *gin.Context) {
	picks := formPicks(c)
	entry, err := s.svc.Add(c.Request.Context(), sessionID(c), picks)
	if err != nil {
		s.renderError(c, picks, err)
		return
	}
	data := s.page(c, picks)
	data.Flash = &flash{Kind: "success", Text: "Cutoff Rank: " + entry.Cutoff.String()}
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

func (s *Server) handleShow(c *gin.Context) {
	picks := queryPicks(c)
	entries, err := s.svc.Show(c.Request.Context(), sessionID(c))
	if core.IsEmptyListError(err) {
		data := s.page(c, picks)
		data.Flash = &flash{Kind: "info", Text: "No selections made yet."}
		s.renderTemplate(c, http.StatusOK, "index.html", data)
		return
	}
	if err != nil {
		s.renderError(c, picks, err)
		return
	}
	data := s.page(c, picks)
	data.Entries = entries
	s.renderTemplate(c, http.StatusOK, "index.html", data)
}

func (s *Server) handleDownload(c *gin.Context) {
	export, err := s.svc.Export(c.Request.Context(), sessionID(c))
	if err != nil {
		s.renderError(c, selection.Picks{}, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Content)
}

// renderError re-renders the page with the error as a flash message. Nothing
// about the session changes.
func (s *Server) renderError(c *gin.Context, picks selection.Picks, err error) {
	code := errors.Classify(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[UI] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	data := s.page(c, picks)
	data.Flash = &flash{Kind: flashKind(code), Text: userMessage(err, picks)}
	s.renderTemplate(c, status, "index.html", data)
}

func flashKind(code string) string {
	switch code {
	case errors.CodeValidationError:
		return "warning"
	case errors.CodeEmptyList:
		return "info"
	default:
		return "error"
	}
}

func userMessage(err error, picks selection.Picks) string {
	switch {
	case stderrors.Is(err, core.ErrIncompletePicks):
		return "Please make valid selections for Category, College, and Branch."
	case stderrors.Is(err, core.ErrNotSelecting):
		return "Choose Start to begin selecting colleges."
	case stderrors.Is(err, core.ErrUnknownCategory):
		return fmt.Sprintf("Unknown category %q.", picks.Category)
	case stderrors.Is(err, core.ErrRowNotFound), stderrors.Is(err, core.ErrCutoffMissing):
		return fmt.Sprintf("No data available for %s in %s under %s.", picks.College, picks.Branch, picks.Category)
	case core.IsEmptyListError(err):
		return "No selections made yet."
	default:
		return err.Error()
	}
}
