package ui

import (
	"net/http"

	"exportlens/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// statusFor maps an error code to the HTTP status returned to the browser
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeLoadError, errors.CodeInvalidColumn, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"}. This is the only place
// typed errors become display strings.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Warn("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// markdownToHTML renders insight text for display. Raw HTML in the model
// output is dropped and only http, https, mailto and relative links stay live.
func markdownToHTML(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.NofollowLinks | html.NoreferrerLinks})
	return string(markdown.ToHTML([]byte(text), p, renderer))
}
