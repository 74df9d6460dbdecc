// Package web renders the console's HTML pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rogerio-castellano/storefront-console/internal/models"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages that can be rendered, one template file each.
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageContact  = "contact"
	PageBlog     = "blog"
	PageProducts = "products"
	PageSignIn   = "signin"
	PageSignUp   = "signup"
	PageProfile  = "profile"
	PageAdmin    = "admin"
)

var pageNames = []string{
	PageHome, PageAbout, PageContact, PageBlog, PageProducts,
	PageSignIn, PageSignUp, PageProfile, PageAdmin,
}

// View is the data every page is rendered with.
type View struct {
	Title   string
	Viewer  session.Viewer
	InAdmin bool
	Error   string
	Data    any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": Money,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"join": func(items []string, empty string) string {
		if len(items) == 0 {
			return empty
		}
		return strings.Join(items, ", ")
	},
	"title": func(v any) string {
		s := fmt.Sprint(v)
		if s == "" {
			return ""
		}
		r, size := utf8.DecodeRuneInString(s)
		return string(unicode.ToUpper(r)) + s[size:]
	},
	"pathEscape": url.PathEscape,
	"statuses": func() []models.OrderStatus { return models.OrderStatuses },
	"row": func(name, id string) struct{ Name, ID string } {
		return struct{ Name, ID string }{name, id}
	},
}

// NewRenderer parses the layout together with each page.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes page into w. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w io.Writer, page string, view View) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
