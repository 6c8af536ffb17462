package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"cutoffrank/domain/cutoff"
	"cutoffrank/internal"
	"cutoffrank/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html templates/partials/*.html
var embeddedFiles embed.FS

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"rank": func(r cutoff.Rank) string { return r.String() },
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	tmpl := template.New("").Funcs(funcMap)
	for _, name := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	internal.DefaultLogger.Debug("[TemplateInit] Parsed %d templates", len(fragments.GetAllTemplatePaths()))
	return tmpl, nil
}

// renderTemplate executes a page template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	if fragments.IsPartial(name) {
		internal.DefaultLogger.Warn("[Template] %s is a partial and cannot be rendered on its own", name)
	}

	// Render to a buffer first so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		internal.DefaultLogger.Error("[Template] Error rendering %s: %v", name, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		internal.DefaultLogger.Warn("[Template] Error writing response: %v", err)
	}
}
