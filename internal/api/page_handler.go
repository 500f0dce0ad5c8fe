package api

import (
	"html/template"
	"net/http"
	"strings"

	"trainerhub/app/internal/edgeguard"
	"trainerhub/app/internal/service"

	"github.com/gin-gonic/gin"
)

// Pages are a bare HTML shell; the front-end renders the content. The
// server's job for these routes is to run the edge guard first.
var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | TrainerHub</title>
</head>
<body data-page="{{.Page}}"{{if .Role}} data-role="{{.Role}}"{{end}}>
<div id="root"></div>
</body>
</html>
`))

type pageData struct {
	Title string
	Page  string
	Role  string
}

// PageHandler serves the guarded page routes.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) render(c *gin.Context, status int, title, page string) {
	data := pageData{Title: title, Page: page}
	if raw, ok := c.Get(edgeguard.IdentityKey); ok {
		if identity, ok := raw.(*service.Identity); ok {
			data.Role = string(identity.Role)
		}
	}
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	if err := pageShell.Execute(c.Writer, data); err != nil {
		_ = c.Error(err)
	}
}

// Serve returns a handler for one named page.
func (h *PageHandler) Serve(title string) gin.HandlerFunc {
	page := strings.ToLower(strings.ReplaceAll(title, " ", "_"))
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, title, page)
	}
}

// NotFound answers unmatched routes: JSON under /api, a page otherwise.
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		abortWithError(c, http.StatusNotFound, "not_found", "Route not found")
		return
	}
	h.render(c, http.StatusNotFound, "Not Found", "not_found")
}
