// Package render executes the embedded HTML templates.
package render

import (
	"bytes"
	"car_rental/internal/api/flash"
	"car_rental/internal/api/middleware"
	"car_rental/internal/common"
	"car_rental/internal/domain/model"
	"car_rental/internal/platform/i18n"
	"car_rental/internal/platform/logger"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is the root value of every template.
type PageData struct {
	Title       string
	Lang        string
	CurrentUser *model.User
	Flash       *flash.Message

	Form   map[string]string
	Errors common.FieldErrors

	Cars      []model.Car
	Available []model.Car
	Rented    []model.Car
	Rentals   []model.Rental
	Users     []model.User
	User      *model.User

	Status       int
	ErrorMessage string
}

var functions = template.FuncMap{
	// replaced per request by the caller's translator
	"t": func(id string, kv ...any) string { return id },
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses the layout and the shared partials together with every page
// template.
func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, page := range pages {
		name := path.Base(page)
		if name == "layout.html" || strings.HasSuffix(name, ".partial.html") {
			continue
		}
		ts, err := template.New("layout.html").Funcs(functions).
			ParseFS(templateFS, "templates/layout.html", "templates/*.partial.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = ts
	}
	return r, nil
}

// Static serves the embedded stylesheet and assets.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// HTML renders page with status. The current user, pending flash message and
// language are filled in from the request.
func (rr *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	tr := middleware.GetTranslator(r.Context())
	data.Lang = tr.Lang()
	if data.CurrentUser == nil {
		data.CurrentUser, _ = middleware.GetUserFromContext(r.Context())
	}
	if data.Flash == nil {
		data.Flash = flash.Pop(w, r)
	}

	base, ok := rr.pages[page]
	if !ok {
		rr.fail(w, fmt.Errorf("unknown page %q", page))
		return
	}
	ts, err := base.Clone()
	if err != nil {
		rr.fail(w, err)
		return
	}
	ts.Funcs(template.FuncMap{"t": translate(tr)})

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "layout.html", data); err != nil {
		rr.fail(w, fmt.Errorf("render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (rr *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rr.HTML(w, r, http.StatusNotFound, "error.html", &PageData{
		Title:        "error.heading",
		Status:       http.StatusNotFound,
		ErrorMessage: "error.not_found",
	})
}

// ServerError logs err and renders the 500 page.
func (rr *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logger.L.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	rr.HTML(w, r, http.StatusInternalServerError, "error.html", &PageData{
		Title:        "error.heading",
		Status:       http.StatusInternalServerError,
		ErrorMessage: "error.internal",
	})
}

func (rr *Renderer) fail(w http.ResponseWriter, err error) {
	logger.L.Error("template failed", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// translate adapts a translator to the template calling convention
// {{t "id" "Key" value ...}}.
func translate(tr *i18n.Translator) func(string, ...any) string {
	return func(id string, kv ...any) string {
		if len(kv) == 0 {
			return tr.T(id)
		}
		data := make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if key, ok := kv[i].(string); ok {
				data[key] = kv[i+1]
			}
		}
		return tr.T(id, data)
	}
}
