package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
)

const (
	// ContextKeyAuthenticated is set to true in the gin context once a
	// request carries a valid session
	ContextKeyAuthenticated = "admin_authenticated"

	// LoginPath is the only admin page reachable without a session.
	LoginPath = "/admin/login"
)

// sessionToken returns the session token from the cookie or, for API
// clients, from a Bearer Authorization header.
func (m *SessionManager) sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticated reports whether the request carries a valid session.
func (m *SessionManager) Authenticated(c *gin.Context) bool {
	_, err := m.Validate(m.sessionToken(c))
	return err == nil
}

// AdminGate protects the admin pages: any path other than the login page
// is redirected to the login page when the session is absent, invalid or
// expired.
func AdminGate(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == LoginPath {
			c.Next()
			return
		}

		if !m.Authenticated(c) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(ContextKeyAuthenticated, true)
		c.Next()
	}
}

// RequireSession protects API routes, answering 401 instead of redirecting.
func RequireSession(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := m.Validate(m.sessionToken(c))
		if err != nil {
			msg := "authentication required"
			if err == ErrExpiredSession {
				msg = "session has expired"
			}
			apierror.Respond(c, apierror.Auth(msg))
			return
		}

		c.Set(ContextKeyAuthenticated, true)
		c.Next()
	}
}

// IsAuthenticated reports whether a gate already accepted this request.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextKeyAuthenticated)
}
