package ui

import (
	"net/http"
	"strings"
	"time"

	"cutoffrank/adapters/api"
	"cutoffrank/internal"
	"cutoffrank/internal/errors"
	"cutoffrank/ui/middleware"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger())

	if s.loadErr != nil {
		s.router.Use(s.unavailable)
		return
	}
	ensure := middleware.EnsureSession(s.svc)
	s.router.Use(func(c *gin.Context) {
		// The JSON API carries its session in the path, not a cookie
		if strings.HasPrefix(c.Request.URL.Path, api.Prefix) {
			c.Next()
			return
		}
		ensure(c)
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		internal.DefaultLogger.WithField("status", c.Writer.Status()).
			WithField("duration", time.Since(start)).
			Debugf("[HTTP] %s %s", c.Request.Method, c.Request.URL.Path)
	}
}

// unavailable answers every request while the dataset could not be loaded
func (s *Server) unavailable(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, api.Prefix) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Code:    errors.CodeLoadError,
			Message: s.loadErr.Error(),
		})
		return
	}
	s.renderTemplate(c, http.StatusServiceUnavailable, "unavailable.html", gin.H{
		"Title": Title,
		"Error": s.loadErr.Error(),
	})
	c.Abort()
}
