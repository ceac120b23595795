package admin

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/entries"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"rating": func(r *float64) string {
		if r == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f", *r)
	},
	"date": func(t time.Time) string {
		return t.Local().Format(time.DateOnly)
	},
}).ParseFS(templateFS, "templates/*.html"))

var loginErrors = map[string]string{
	"invalid": "비밀번호가 올바르지 않습니다.",
	"missing": "비밀번호를 입력해 주세요.",
}

func renderPage(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: pages, Name: name, Data: data})
}

// LoginPage renders the admin login form
func (h *Handler) LoginPage(c *gin.Context) {
	var msg string
	if code := c.Query("error"); code != "" {
		if msg = loginErrors[code]; msg == "" {
			msg = loginErrors["invalid"]
		}
	}
	renderPage(c, http.StatusOK, "login.html", gin.H{"Error": msg})
}

// Dashboard renders the entry management page
func (h *Handler) Dashboard(c *gin.Context) {
	list, err := h.entries.ListEntries(c.Request.Context(), entries.ListFilter{})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load dashboard entries")
		apierror.Respond(c, err)
		return
	}
	stats, err := h.Stats(c.Request.Context())
	if err != nil {
		apierror.Respond(c, err)
		return
	}

	renderPage(c, http.StatusOK, "dashboard.html", gin.H{
		"Entries": list,
		"Stats":   stats,
	})
}

// RegisterPageRoutes registers the HTML pages on the gated /admin group
func (h *Handler) RegisterPageRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Dashboard)
	rg.GET("/login", h.LoginPage)
}
