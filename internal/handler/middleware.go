package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// Session cookies, one per back-office area.
const (
	AdminCookie = "urbanhand_admin_session"
	OwnerCookie = "urbanhand_owner_session"
)

// Login routes of the external UI that protected routes redirect to.
const (
	AdminLoginPath = "/admin/login"
	OwnerLoginPath = "/owner/login"
)

// area describes one protected back-office surface.
type area struct {
	role      domain.Role
	cookie    string
	loginPath string
}

var (
	adminArea = area{role: domain.RoleAdmin, cookie: AdminCookie, loginPath: AdminLoginPath}
	ownerArea = area{role: domain.RoleOwner, cookie: OwnerCookie, loginPath: OwnerLoginPath}
)

// sessionMiddleware accepts a Bearer token or the area's session cookie and
// injects the session into the context. Browsers without a valid session are
// redirected to the login route; API clients get 401 with a Location header.
func sessionMiddleware(authSvc *service.AuthService, a area, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, a.cookie)
			if token == "" {
				logger.Warn("auth: missing session",
					zap.String("path", r.URL.Path),
					zap.String("role", string(a.role)),
				)
				denySession(w, r, a, "session required")
				return
			}

			sess, err := authSvc.ValidateSession(token, a.role)
			if err != nil {
				logger.Warn("auth: invalid or expired session",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				denySession(w, r, a, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookie string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(cookie); err == nil {
		return c.Value
	}
	return ""
}

func denySession(w http.ResponseWriter, r *http.Request, a area, msg string) {
	w.Header().Set("Location", a.loginPath)
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	writeError(w, http.StatusUnauthorized, msg)
}

// SessionFromContext extracts the authenticated session from context.
func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey).(*domain.Session)
	return s
}
