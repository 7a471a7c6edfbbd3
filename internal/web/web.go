package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/linemk/topup-store/internal/storefront"
)

//go:embed templates/*.html
var templatesFS embed.FS

// id фрагментов, которые сервер перерисовывает через SSE
const (
	FragmentSelector = "selector"
	FragmentChecker  = "checker"
	FragmentCheckout = "checkout"
	FragmentNotices  = "notices"
)

// Meta - оформление витрины из конфига
type Meta struct {
	StoreName string
	HeroName  string
	ModelPath string
}

type pageData struct {
	Meta Meta
	View storefront.View
}

// Renderer отрисовывает страницу и её фрагменты
type Renderer struct {
	meta Meta
	tmpl *template.Template
}

func NewRenderer(meta Meta) (*Renderer, error) {
	const op = "web.NewRenderer"

	tmpl, err := template.New("storefront").
		Funcs(template.FuncMap{"query": url.QueryEscape}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Renderer{meta: meta, tmpl: tmpl}, nil
}

// Page пишет полную страницу
func (r *Renderer) Page(w io.Writer, v storefront.View) error {
	return r.tmpl.ExecuteTemplate(w, "page", pageData{Meta: r.meta, View: v})
}

// Fragment возвращает html одного фрагмента. Корневой элемент фрагмента
// имеет id, равный его имени, так что клиент заменяет его по id.
func (r *Renderer) Fragment(name string, v storefront.View) (string, error) {
	const op = "web.Renderer.Fragment"

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, pageData{Meta: r.meta, View: v}); err != nil {
		return "", fmt.Errorf("%s: %s: %w", op, name, err)
	}
	return buf.String(), nil
}
