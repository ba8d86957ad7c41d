package api

import (
	"car_rental/internal/api/handler"
	"car_rental/internal/api/middleware"
	"car_rental/internal/api/render"
	"car_rental/internal/app/service"
	"car_rental/internal/common/security"
	"car_rental/internal/domain/model"
	"car_rental/internal/platform/logger"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Options struct {
	SecureCookies bool
	HealthChecks  map[string]handler.HealthCheck
}

func NewRouter(
	authService *service.AuthService,
	carService *service.CarService,
	rentalService *service.RentalService,
	userService *service.UserService,
	view *render.Renderer,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  logger.L.StandardLog(),
		NoColor: true,
	}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.NotFound(view.NotFound)

	handler.NewHealthHandler(opts.HealthChecks).RegisterRoutes(r)
	r.Handle("/static/*", http.StripPrefix("/static/", render.Static()))

	r.Group(func(web chi.Router) {
		// The session lives in the "jwt" cookie; Identify turns a verified
		// token into the current user.
		web.Use(middleware.Language)
		web.Use(jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromCookie))
		web.Use(middleware.Identify(authService))

		handler.NewAuthHandler(authService, view, opts.SecureCookies).RegisterRoutes(web)

		web.Group(func(user chi.Router) {
			user.Use(middleware.RequireAuth)
			handler.NewUserHandler(carService, rentalService, view).RegisterRoutes(user)
		})

		web.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			handler.NewAdminHandler(carService, userService, view).RegisterRoutes(admin)
		})
	})

	return r
}
