package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/jrsteele09/squadhub/apierrors"
	"github.com/jrsteele09/squadhub/users"
)

const contentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFiles embed.FS

// pageSet holds one template per page, each joined with the shared layout.
type pageSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"deref": func(v any) any {
		switch p := v.(type) {
		case *string:
			if p != nil {
				return *p
			}
		case *int:
			if p != nil {
				return *p
			}
		case *int64:
			if p != nil {
				return *p
			}
		case *users.Position:
			if p != nil {
				return string(*p)
			}
		default:
			if v != nil {
				return v
			}
		}
		return "-"
	},
	"json": func(v any) (string, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	},
	"join": strings.Join,
}

func parsePages() (*pageSet, error) {
	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	set := &pageSet{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}
		set.pages[strings.TrimSuffix(base, ".html")] = t
	}
	return set, nil
}

// pageData is what every template receives.
type pageData struct {
	AppName string
	Title   string
	User    *users.User
	Nav     []navLink
	Errors  apierrors.Errors
	Flash   string
	Data    any
}

type navLink struct {
	Label string
	Href  string
}

func (s *Server) newPage(r *http.Request, title string, data any) *pageData {
	user := s.Store.User()
	return &pageData{
		AppName: s.appName,
		Title:   title,
		User:    user,
		Nav:     navFor(user),
		Errors:  apierrors.Errors{},
		Flash:   r.URL.Query().Get("flash"),
		Data:    data,
	}
}

// render writes the page into a buffer first so a template error still
// produces a clean error response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	t, ok := s.pages.pages[page]
	if !ok {
		panic("unknown page template " + page)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		logError(r.Method, r.URL.Path, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
