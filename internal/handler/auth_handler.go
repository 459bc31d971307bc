package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Sessions: /v1/admin/login, /v1/owner/login
// ============================================================

type loginFunc func(context.Context, *domain.LoginRequest) (*domain.LoginResponse, error)

// cookieJar issues and clears the HttpOnly session cookies.
type cookieJar struct {
	secure bool
	ttl    time.Duration
}

func (c cookieJar) set(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c cookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func loginHandler(login loginFunc, a area, cookies cookieJar, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/"+string(a.role)+"/login")
		defer span.End()

		var req domain.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp, err := login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cookies.set(w, a.cookie, resp.AccessToken)
		writeJSON(w, http.StatusOK, resp)
	}
}

func logoutHandler(a area, cookies cookieJar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookies.clear(w, a.cookie)
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "logged out"})
	}
}
