package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/metrics"
)

// Handler handles admin login and logout
type Handler struct {
	credential Credential
	sessions   *SessionManager
	limit      gin.HandlerFunc
}

// NewHandler creates a new auth handler. limit, when not nil, runs in
// front of the login endpoint.
func NewHandler(credential Credential, sessions *SessionManager, limit gin.HandlerFunc) *Handler {
	return &Handler{credential: credential, sessions: sessions, limit: limit}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is returned after a successful JSON login
type LoginResponse struct {
	Success   bool   `json:"success"`
	ExpiresAt string `json:"expires_at"`
}

func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == binding.MIMEPOSTForm || ct == binding.MIMEMultipartPOSTForm
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessions.cookieName, token, maxAge, "/", "", h.sessions.secure, true)
}

// Login exchanges the admin password for a session cookie
// @Summary Admin login
// @Description Check the admin password and set the session cookie. Form posts are redirected to the dashboard.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Admin password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid password"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /admin/login [post]
func (h *Handler) Login(c *gin.Context) {
	form := isFormPost(c)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		if form {
			c.Redirect(http.StatusSeeOther, LoginPath+"?error=missing")
			return
		}
		apierror.Respond(c, apierror.FromBinding(err, &req))
		return
	}

	if !h.credential.Check(req.Password) {
		metrics.RecordLogin(false)
		logging.Warn().Str("ip", c.ClientIP()).Msg("admin login failed")
		if form {
			c.Redirect(http.StatusSeeOther, LoginPath+"?error=invalid")
			return
		}
		apierror.Respond(c, apierror.Auth("invalid password"))
		return
	}

	token, expires, err := h.sessions.Issue()
	if err != nil {
		apierror.Respond(c, apierror.Internal("failed to create session").WithCause(err))
		return
	}
	h.setSessionCookie(c, token, int(h.sessions.ttl/time.Second))
	metrics.RecordLogin(true)
	logging.Info().Str("ip", c.ClientIP()).Time("expires_at", expires).Msg("admin logged in")

	if form {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

// Logout clears the session cookie
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /admin/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)

	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, LoginPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session reports whether the caller is logged in
// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /admin/session [get]
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": h.sessions.Authenticated(c)})
}

func (h *Handler) loginChain() []gin.HandlerFunc {
	if h.limit == nil {
		return []gin.HandlerFunc{h.Login}
	}
	return []gin.HandlerFunc{h.limit, h.Login}
}

// RegisterRoutes registers the API login endpoints, mounted at /api/admin
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.loginChain()...)
	rg.POST("/logout", h.Logout)
	rg.GET("/session", h.Session)
}

// RegisterPageRoutes registers the form targets of the admin pages on the
// gated /admin group
func (h *Handler) RegisterPageRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.loginChain()...)
	rg.POST("/logout", h.Logout)
}
