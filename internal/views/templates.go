package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/MKhiriev/go-duct-tape/internal/urls"
)

//go:embed templates
var templateFS embed.FS

// Templates is the template set rendered by the default views. Templates
// are addressed by the name of their {{define}} block, e.g.
// "duct_tape/base_list.html".
//
// Besides the html/template builtins, templates may call
//
//	url NAME [KEY VALUE]...   reverse a route name of the serving table
//	value ROW COLUMN          a cell of a row by column
type Templates struct {
	set *template.Template
}

// NewTemplates parses the embedded default templates.
func NewTemplates() (*Templates, error) {
	set, err := template.New("duct_tape").
		Funcs(funcs(context.Background())).
		ParseFS(templateFS, "templates/duct_tape/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: parsing default templates: %w", ErrTemplate, err)
	}
	return &Templates{set: set}, nil
}

// ParseFS adds the templates of fsys matching patterns. A {{define}} with
// the name of a default template replaces it.
//
// ParseFS must not be called once the views serve requests.
func (t *Templates) ParseFS(fsys fs.FS, patterns ...string) error {
	if _, err := t.set.ParseFS(fsys, patterns...); err != nil {
		return fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return nil
}

// Render executes the template called name with data and writes it with
// status. Nothing is written when execution fails.
func (t *Templates) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	set, err := t.set.Clone()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplate, err)
	}

	var buf bytes.Buffer
	if err = set.Funcs(funcs(r.Context())).ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%w: rendering %s: %w", ErrTemplate, name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

func funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"url": func(name string, params ...any) (string, error) {
			return urls.Reverse(ctx, name, stringify(params)...)
		},
		"value": func(row Row, column string) any {
			return row.Value(column)
		},
	}
}

func stringify(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
