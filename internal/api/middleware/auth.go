package middleware

import (
	"car_rental/internal/api/flash"
	"car_rental/internal/app/service"
	"car_rental/internal/common"
	"car_rental/internal/common/security"
	"car_rental/internal/domain/model"
	"car_rental/internal/platform/logger"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserCtxKey   contextKey = "user"
	ClaimsCtxKey contextKey = "claims"
)

// Identify resolves the verified session token into the current user.
// Requests whose token is missing or unusable continue anonymously.
func Identify(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				next.ServeHTTP(w, r)
				return
			}

			sc, err := security.ClaimsFromMap(claims)
			if err != nil {
				logger.Debugf("ignoring session token: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.CurrentUser(r.Context(), sc)
			if err != nil {
				if !errors.Is(err, common.ErrUnauthorized) {
					logger.Warnf("could not resolve session: %v", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			ctx = context.WithValue(ctx, ClaimsCtxKey, sc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous callers to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.NoStore(w)
		if _, ok := GetUserFromContext(r.Context()); !ok {
			flash.Info(w, "flash.login_required")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets only users holding role through. Anonymous callers go to
// the login page, everyone else back to the index.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			common.NoStore(w)
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				flash.Info(w, "flash.login_required")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if user.Role != role {
				logger.L.Warn("role check failed", "user_id", user.ID, "path", r.URL.Path, "required", role)
				flash.Error(w, "flash.admin_required")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGuest keeps logged-in users away from the login and register pages.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.NoStore(w)
		if _, ok := GetUserFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok && user != nil
}

func GetClaimsFromContext(ctx context.Context) (*security.SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*security.SessionClaims)
	return claims, ok && claims != nil
}
