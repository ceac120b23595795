package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/admin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/auth"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/categories"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/entries"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/importexport"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/media"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/metrics"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/ratelimit"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/sitemap"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/tags"
	"gorm.io/gorm"
)

// Options holds everything the router needs
type Options struct {
	DB         *gorm.DB
	Credential auth.Credential
	Sessions   *auth.SessionManager
	// LoginLimiter throttles login attempts per client IP. Nil disables it.
	LoginLimiter   *ratelimit.KeyedRateLimiter
	Media          media.Store
	MaxUploadBytes int64
	// UploadsDir is served at /uploads when set.
	UploadsDir string
	// BaseURL is the public site origin used by the sitemap.
	BaseURL string
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// notFound answers unmatched routes. Unknown paths under /admin still go
// through the admin gate first so they redirect to the login page.
func notFound(sessions *auth.SessionManager) gin.HandlerFunc {
	gate := auth.AdminGate(sessions)
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/admin/") {
			gate(c)
			if c.IsAborted() {
				return
			}
		}
		apierror.Respond(c, apierror.NotFound("route not found"))
	}
}

// New assembles the router
func New(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(), metrics.GinMiddleware())

	r.GET("/health", health)
	r.GET("/metrics", metrics.Handler())

	if opts.UploadsDir != "" {
		r.Static(media.UploadsPath, opts.UploadsDir)
	}

	var limit gin.HandlerFunc
	if opts.LoginLimiter != nil {
		limit = ratelimit.Middleware(opts.LoginLimiter)
	}
	authHandler := auth.NewHandler(opts.Credential, opts.Sessions, limit)
	entriesHandler := entries.NewHandler(opts.DB)
	categoriesHandler := categories.NewHandler(opts.DB)
	adminHandler := admin.NewHandler(opts.DB)

	api := r.Group("/api")
	{
		api.GET("/health", health)

		// Public reads
		entriesHandler.RegisterPublicRoutes(api)
		categoriesHandler.RegisterPublicRoutes(api)
		tags.NewHandler(opts.DB).RegisterRoutes(api)

		// Login endpoints for API clients
		authHandler.RegisterRoutes(api.Group("/admin"))

		// Everything that writes needs a session
		protected := api.Group("", auth.RequireSession(opts.Sessions))
		entriesHandler.RegisterAdminRoutes(protected)
		categoriesHandler.RegisterAdminRoutes(protected)
		media.NewHandler(opts.Media, opts.MaxUploadBytes).RegisterRoutes(protected)
		importexport.NewHandler(opts.DB).RegisterRoutes(protected)
		adminHandler.RegisterRoutes(protected.Group("/admin"))
	}

	// Admin pages, redirected to the login page without a session
	pages := r.Group("/admin", auth.AdminGate(opts.Sessions))
	adminHandler.RegisterPageRoutes(pages)
	authHandler.RegisterPageRoutes(pages)

	sitemap.NewHandler(opts.DB, opts.BaseURL).RegisterRoutes(r)

	r.NoRoute(notFound(opts.Sessions))

	return r
}
