package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"movie-comments/internal/dto/response"
)

//go:embed templates
var templateFS embed.FS

// View names, relative to templates/ without the extension
const (
	CommentNew  = "comments/new"
	CommentEdit = "comments/edit"
	MovieShow   = "movies/show"
	Login       = "auth/login"
	Error       = "errors/error"
)

const layout = "templates/application.html"

// CurrentUser is the signed-in user as seen by templates
type CurrentUser struct {
	ID       int64
	Username string
}

// Locals is the data every view receives
type Locals struct {
	User      *CurrentUser
	MovieID   int64
	Errors    map[string][]string
	Comment   *response.CommentForm
	CSRFToken string
	CSRFField template.HTML

	Movie    *response.MoviePage
	Username string
	ReturnTo string
	Status   int
	Message  string
}

// FieldErrors returns the messages for one form field
func (l Locals) FieldErrors(field string) []string {
	return l.Errors[field]
}

// Renderer writes a named view with the given status
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, locals Locals) error
}

type templateRenderer struct {
	views map[string]*template.Template
}

var funcs = template.FuncMap{
	"stars": func(n int) string {
		if n < 0 {
			n = 0
		}
		return strings.Repeat("★", n) + strings.Repeat("☆", max(0, 5-n))
	},
	"rating": func(avg float64) string {
		return fmt.Sprintf("%.1f", avg)
	},
}

// NewRenderer parses the layout once per view so each view can define its
// own "yield" block
func NewRenderer() (Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*templateRenderer, error) {
	base, err := template.New("application").Funcs(funcs).ParseFS(fsys, layout)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	views := make(map[string]*template.Template)
	for _, name := range []string{CommentNew, CommentEdit, MovieShow, Login, Error} {
		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := tmpl.ParseFS(fsys, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		views[name] = tmpl
	}

	return &templateRenderer{views: views}, nil
}

func (r *templateRenderer) Render(w http.ResponseWriter, status int, name string, locals Locals) error {
	tmpl, ok := r.views[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}

	if locals.Errors == nil {
		locals.Errors = map[string][]string{}
	}

	// Render into a buffer so a template error can still become a 500
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "application", locals); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
