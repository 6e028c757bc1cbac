package web

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-entrees/internal/config"
)

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	return TemplateData{
		Title:       title,
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		Port:        s.GetPort(),
		AppVersion:  config.AppVersion,
	}
}

// renderError renders an error page. The message is shown to the client, errstring only goes to the log.
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[ERROR]:internal/web: Error %d: %s - %s", statusCode, message, errstring)

	var buf bytes.Buffer
	tmpl := s.templates["error.html"]
	if tmpl == nil {
		c.String(statusCode, "Error %d: %s", statusCode, message)
		return
	}
	if err := tmpl.ExecuteTemplate(&buf, "base.html", errorData); err != nil {
		log.Printf("[ERROR]:internal/web: rendering error template: %v", err)
		c.String(statusCode, "Error %d: %s", statusCode, message)
		return
	}
	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
}

// renderTemplate renders a page template inside base.html
func (s *WebServer) renderTemplate(c *gin.Context, statusCode int, templateName string, data interface{}) {
	tmpl := s.templates[templateName]
	if tmpl == nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", "unknown template "+templateName)
		return
	}
	// Execute into a buffer so a failing template still yields a clean error page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
}

// Templates holds one parsed template set per page, each combined with base.html
type Templates map[string]*template.Template
