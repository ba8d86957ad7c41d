package handler

import (
	"car_rental/internal/api/flash"
	"car_rental/internal/api/render"
	"car_rental/internal/app/service"
	"car_rental/internal/common"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// AdminHandler serves the car inventory and user pages.
type AdminHandler struct {
	carService  *service.CarService
	userService *service.UserService
	view        *render.Renderer
}

func NewAdminHandler(carService *service.CarService, userService *service.UserService, view *render.Renderer) *AdminHandler {
	return &AdminHandler{carService: carService, userService: userService, view: view}
}

// RegisterRoutes expects the router to be mounted behind the admin guard.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.panel)
	r.Post("/", h.createCar)
	r.Get("/delete_car/{carID:[0-9]+}", h.deleteCar)
	r.Post("/edit_car/{carID:[0-9]+}", h.editCar)
	r.Get("/users", h.listUsers)
	r.Get("/users/{userID:[0-9]+}", h.userDetail)
}

func (h *AdminHandler) panel(w http.ResponseWriter, r *http.Request) {
	h.renderPanel(w, r, http.StatusOK, &render.PageData{})
}

func (h *AdminHandler) renderPanel(w http.ResponseWriter, r *http.Request, status int, data *render.PageData) {
	cars, err := h.carService.ListAll(r.Context())
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	data.Title = "admin.heading"
	data.Cars = cars
	h.view.HTML(w, r, status, "admin.html", data)
}

func (h *AdminHandler) createCar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPanel(w, r, http.StatusBadRequest, &render.PageData{})
		return
	}
	req := service.CarRequest{
		Brand: r.PostFormValue("brand"),
		Model: r.PostFormValue("model"),
	}

	if _, err := h.carService.Create(r.Context(), req); err != nil {
		var fields common.FieldErrors
		if !errors.As(err, &fields) {
			h.view.ServerError(w, r, err)
			return
		}
		h.renderPanel(w, r, http.StatusBadRequest, &render.PageData{
			Flash:  &flash.Message{Kind: flash.KindError, ID: "flash.invalid_form"},
			Form:   map[string]string{"brand": req.Brand, "model": req.Model},
			Errors: fields,
		})
		return
	}

	flash.Success(w, "flash.car_added")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) editCar(w http.ResponseWriter, r *http.Request) {
	carID, ok := pathID(r, "carID")
	if !ok {
		h.view.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		flash.Error(w, "flash.invalid_form")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	req := service.CarRequest{
		Brand: r.PostFormValue("brand"),
		Model: r.PostFormValue("model"),
	}

	_, err := h.carService.Edit(r.Context(), carID, req)
	switch {
	case err == nil:
		flash.Success(w, "flash.car_updated")
	case errors.Is(err, common.ErrNotFound):
		flash.Error(w, "flash.car_not_found")
	case errors.Is(err, common.ErrValidation):
		flash.Error(w, "flash.invalid_form")
	default:
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) deleteCar(w http.ResponseWriter, r *http.Request) {
	carID, ok := pathID(r, "carID")
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	err := h.carService.Delete(r.Context(), carID)
	switch {
	case err == nil:
		flash.Success(w, "flash.car_deleted")
	case errors.Is(err, common.ErrNotFound):
		flash.Error(w, "flash.car_not_found")
	default:
		h.view.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.view.ServerError(w, r, err)
		return
	}
	h.view.HTML(w, r, http.StatusOK, "admin_users.html", &render.PageData{Title: "users.heading", Users: users})
}

func (h *AdminHandler) userDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		h.view.NotFound(w, r)
		return
	}

	detail, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.view.NotFound(w, r)
			return
		}
		h.view.ServerError(w, r, err)
		return
	}
	h.view.HTML(w, r, http.StatusOK, "admin_user.html", &render.PageData{
		Title:   "users.heading",
		User:    detail.User,
		Rentals: detail.Rentals,
	})
}

// pathID parses a numeric route parameter. Values that overflow int64 are
// rejected like any other non-numeric id.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
