package handler

import (
	"car_rental/internal/api/flash"
	"car_rental/internal/api/middleware"
	"car_rental/internal/api/render"
	"car_rental/internal/app/service"
	"car_rental/internal/common"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UserHandler serves the user panel and the rent/return actions.
type UserHandler struct {
	carService    *service.CarService
	rentalService *service.RentalService
	view          *render.Renderer
}

func NewUserHandler(carService *service.CarService, rentalService *service.RentalService, view *render.Renderer) *UserHandler {
	return &UserHandler{carService: carService, rentalService: rentalService, view: view}
}

// RegisterRoutes expects the router to be mounted behind RequireAuth.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/user", h.panel)
	r.Get("/rent/{carID:[0-9]+}", h.rent)
	r.Get("/return_car/{carID:[0-9]+}", h.returnCar)
}

func (h *UserHandler) panel(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())
	ctx := r.Context()

	available, err := h.carService.ListAvailable(ctx)
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	rented, err := h.carService.ListRentedBy(ctx, user.ID)
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	history, err := h.rentalService.History(ctx, user.ID)
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}

	h.view.HTML(w, r, http.StatusOK, "user.html", &render.PageData{
		Title:     "nav.panel",
		Available: available,
		Rented:    rented,
		Rentals:   history,
	})
}

func (h *UserHandler) rent(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())
	carID, ok := pathID(r, "carID")
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	_, err := h.rentalService.Rent(r.Context(), carID, user.ID)
	switch {
	case err == nil:
		flash.Success(w, "flash.car_rented")
	case errors.Is(err, common.ErrNotFound):
		flash.Error(w, "flash.car_not_found")
	case errors.Is(err, common.ErrCarUnavailable):
		flash.Error(w, "flash.car_unavailable")
	default:
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

func (h *UserHandler) returnCar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUserFromContext(r.Context())
	carID, ok := pathID(r, "carID")
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	err := h.rentalService.Return(r.Context(), carID, user.ID)
	switch {
	case err == nil:
		flash.Success(w, "flash.car_returned")
	case errors.Is(err, common.ErrNotFound):
		flash.Error(w, "flash.car_not_found")
	case errors.Is(err, common.ErrNotRenter):
		flash.Error(w, "flash.not_renter")
	default:
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}
