package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// renderTemplate executes a template with the given data and status
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data any) {
	// Render to a buffer first so a template error never leaves half a page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template rendering failed",
			zap.String("template", templateName),
			zap.String("data_type", fmt.Sprintf("%T", data)),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
