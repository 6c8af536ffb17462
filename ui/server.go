package ui

import (
	"html/template"
	"net/http"

	"cutoffrank/adapters/api"
	"cutoffrank/app"

	"github.com/gin-gonic/gin"
)

// Title heads every page
const Title = "KCET College Cutoff Viewer"

// Server represents the web server for the cutoff viewer
type Server struct {
	router    *gin.Engine
	svc       *app.SelectionService
	templates *template.Template
	loadErr   error
}

// NewServer creates the web server over a loaded dataset. The JSON API is
// served from the same router under /api/v1.
func NewServer(svc *app.SelectionService) (*Server, error) {
	s, err := newServer()
	if err != nil {
		return nil, err
	}
	s.svc = svc
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// NewUnavailableServer creates a server that reports loadErr on every route
func NewUnavailableServer(loadErr error) (*Server, error) {
	s, err := newServer()
	if err != nil {
		return nil, err
	}
	s.loadErr = loadErr
	s.setupMiddleware()
	return s, nil
}

func newServer() (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{router: gin.New(), templates: tmpl}, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/start", s.handleStart)
	s.router.POST("/end", s.handleEnd)
	s.router.POST("/add", s.handleAdd)
	s.router.GET("/show", s.handleShow)
	s.router.GET("/download", s.handleDownload)

	s.router.Any(api.Prefix+"/*path", gin.WrapH(api.NewRouter(s.svc)))
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

