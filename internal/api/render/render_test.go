package render

import (
	"car_rental/internal/api/middleware"
	"car_rental/internal/domain/model"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	rr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, page := range []string{"index.html", "login.html", "register.html", "admin.html", "admin_users.html", "admin_user.html", "user.html", "error.html"} {
		if _, ok := rr.pages[page]; !ok {
			t.Errorf("page %s not loaded", page)
		}
	}
	if _, ok := rr.pages["rentals.partial.html"]; ok {
		t.Errorf("partial registered as a page")
	}
}

func TestHTML_TranslatesAndEscapes(t *testing.T) {
	rr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	renter := int64(7)
	data := &PageData{
		Title: "admin.heading",
		Cars: []model.Car{
			{ID: 1, Brand: "<b>Toyota</b>", Model: "Corolla"},
			{ID: 2, Brand: "VW", Model: "Golf", IsRented: true, RentedBy: &renter},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept-Language", "de")
	rec := httptest.NewRecorder()
	middleware.Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rr.HTML(w, r, http.StatusOK, "admin.html", data)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`<html lang="de">`, "Fahrzeuge verwalten", "&lt;b&gt;Toyota&lt;/b&gt;", "Gemietet von Benutzer #7", `/admin/edit_car/2`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "<b>Toyota</b>") {
		t.Errorf("car brand not escaped")
	}
}

func TestHTML_RentalHistory(t *testing.T) {
	rr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	returned := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	data := &PageData{
		CurrentUser: &model.User{ID: 1, Username: "alice", Role: model.RoleUser},
		Rentals: []model.Rental{
			{ID: 2, CarID: 3, RentalDate: time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC), Car: &model.Car{Brand: "VW", Model: "Golf"}},
			{ID: 1, CarID: 4, RentalDate: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), ReturnDate: &returned},
		},
	}
	rec := httptest.NewRecorder()
	rr.HTML(rec, httptest.NewRequest(http.MethodGet, "/user", nil), http.StatusOK, "user.html", data)

	body := rec.Body.String()
	for _, want := range []string{"Welcome, alice", "VW Golf", "2024-05-03 09:30", "Not returned yet", "#4", "2024-05-02 10:00"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestNotFound(t *testing.T) {
	rr, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	rr.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "does not exist") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
