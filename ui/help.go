package ui

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// handleHelp renders the embedded help document.
func (s *Server) handleHelp(c *gin.Context) {
	source, err := embeddedFiles.ReadFile("templates/help.md")
	if err != nil {
		log.Printf("[handleHelp] Help document not found: %v", err)
		c.String(http.StatusInternalServerError, "Help document not found")
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML(source, p, renderer)

	s.renderTemplate(c, "help.html", gin.H{
		"Title":   "Freight Dashboard – Help",
		"Content": template.HTML(rendered),
	})
}
