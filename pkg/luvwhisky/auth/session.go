package auth

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session has expired")
)

const (
	sessionSubject = "admin"
	sessionIssuer  = "luvwhisky"

	// DefaultSessionTTL is how long a login stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour
	// DefaultCookieName names the session cookie.
	DefaultCookieName = "admin-session"
)

// SessionManager issues and verifies the signed session marker. There is
// no server-side session state; the token is the only proof of login.
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// SessionOptions configures a SessionManager. Zero values fall back to the
// defaults above.
type SessionOptions struct {
	Secret       []byte
	TTL          time.Duration
	CookieName   string
	SecureCookie bool
}

// NewSessionManager creates a session manager. An empty secret is replaced
// with random bytes, so sessions then only last for the process lifetime.
func NewSessionManager(opts SessionOptions) (*SessionManager, error) {
	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	m := &SessionManager{
		secret:     secret,
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.SecureCookie,
		now:        time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultSessionTTL
	}
	if m.cookieName == "" {
		m.cookieName = DefaultCookieName
	}
	return m, nil
}

// TTL returns the session validity window.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// CookieName returns the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Issue creates a new signed session token and returns it with its expiry.
func (m *SessionManager) Issue() (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   sessionSubject,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Validate verifies a session token's signature, issuer, subject and expiry.
func (m *SessionManager) Validate(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
