package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fundflow/internal/domain"
)

// SessionCookieName is the cookie carrying the signed admin session.
const SessionCookieName = "admin-session"

// SessionTTL bounds how long an issued admin session stays valid.
const SessionTTL = 24 * time.Hour

// LoginPath is where unauthenticated admin traffic gets redirected.
const LoginPath = "/admin/login"

type sessionContextKey struct{}

// SessionClaims is the JWT payload of the admin-session cookie. The session
// is signed so a client cannot forge the admin flag; an unsigned JSON cookie
// would trust whatever the browser sends back.
type SessionClaims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// IssueSessionCookie signs the session and wraps it in a cookie scoped to the
// admin path: HttpOnly, SameSite=Strict, Secure when requested, 24h lifetime.
func IssueSessionCookie(secret string, session domain.AdminSession, secure bool) (*http.Cookie, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: session.Email,
		Admin: session.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
		MaxAge:   int(SessionTTL / time.Second),
	}, nil
}

// ClearSessionCookie returns an expired cookie that removes the session.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	}
}

// ParseSession verifies the cookie value and returns the session it carries.
// Anything not signed with the secret, expired, or lacking admin=true is
// rejected.
func ParseSession(secret, token string) (*domain.AdminSession, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	if !claims.Admin {
		return nil, domain.ErrUnauthorized
	}
	return &domain.AdminSession{ID: claims.Subject, Email: claims.Email, Admin: true}, nil
}

// AdminSession gates admin routes. Requests without a valid session get the
// cookie cleared and are redirected to the login page; API clients asking for
// JSON get a 401 instead.
func AdminSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				rejectSession(w, r)
				return
			}
			session, err := ParseSession(secret, cookie.Value)
			if err != nil {
				rejectSession(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated admin session, or nil.
func SessionFromContext(ctx context.Context) *domain.AdminSession {
	if v, ok := ctx.Value(sessionContextKey{}).(*domain.AdminSession); ok {
		return v
	}
	return nil
}

func rejectSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, ClearSessionCookie())
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
