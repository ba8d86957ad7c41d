package handler

import (
	"car_rental/internal/api/flash"
	"car_rental/internal/api/middleware"
	"car_rental/internal/api/render"
	"car_rental/internal/app/service"
	"car_rental/internal/common"
	"car_rental/internal/common/security"
	"car_rental/internal/platform/logger"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService   *service.AuthService
	view          *render.Renderer
	secureCookies bool
}

func NewAuthHandler(authService *service.AuthService, view *render.Renderer, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, view: view, secureCookies: secureCookies}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.index)

	r.Group(func(guest chi.Router) {
		guest.Use(middleware.RequireGuest)
		guest.Get("/login", h.loginPage)
		guest.Post("/login", h.login)
		guest.Get("/register", h.registerPage)
		guest.Post("/register", h.register)
	})

	r.With(middleware.RequireAuth).Get("/logout", h.logout)
}

func (h *AuthHandler) index(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		http.Redirect(w, r, homeFor(user.IsAdmin()), http.StatusSeeOther)
		return
	}
	h.view.HTML(w, r, http.StatusOK, "index.html", &render.PageData{})
}

func (h *AuthHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.view.HTML(w, r, http.StatusOK, "login.html", &render.PageData{Title: "login.heading"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.HTML(w, r, http.StatusBadRequest, "login.html", &render.PageData{Title: "login.heading"})
		return
	}
	req := service.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			h.view.HTML(w, r, http.StatusUnauthorized, "login.html", &render.PageData{
				Title: "login.heading",
				Flash: &flash.Message{Kind: flash.KindError, ID: "flash.login_failed"},
				Form:  map[string]string{"username": req.Username},
			})
			return
		}
		h.view.ServerError(w, r, err)
		return
	}

	setSessionCookie(w, resp.Token, resp.Claims.ExpiresAt, h.secureCookies)
	flash.Success(w, "flash.login_ok")
	http.Redirect(w, r, homeFor(resp.User.IsAdmin()), http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	// The cookie is cleared even when revocation fails.
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		if err := h.authService.Logout(r.Context(), claims); err != nil {
			logger.Errorf("logout of user %d: %v", claims.UserID, err)
		}
	}
	clearSessionCookie(w, h.secureCookies)
	flash.Info(w, "flash.logged_out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.view.HTML(w, r, http.StatusOK, "register.html", &render.PageData{Title: "register.heading"})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.HTML(w, r, http.StatusBadRequest, "register.html", &render.PageData{Title: "register.heading"})
		return
	}
	req := service.RegisterRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}

	_, err := h.authService.Register(r.Context(), req)
	if err != nil {
		data := &render.PageData{
			Title: "register.heading",
			Form:  map[string]string{"username": req.Username},
		}
		var fields common.FieldErrors
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			data.Flash = &flash.Message{Kind: flash.KindError, ID: "flash.username_taken"}
		case errors.As(err, &fields):
			data.Flash = &flash.Message{Kind: flash.KindError, ID: "flash.invalid_form"}
			data.Errors = fields
		default:
			h.view.ServerError(w, r, err)
			return
		}
		h.view.HTML(w, r, common.HTTPStatusFromError(err), "register.html", data)
		return
	}

	flash.Success(w, "flash.registered")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func homeFor(admin bool) string {
	if admin {
		return "/admin"
	}
	return "/user"
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
