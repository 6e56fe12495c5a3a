package views

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/models"
)

// ViewFactory builds the handler of one generated view.
type ViewFactory[T any] func(svc service.ModelService[T], data ViewData) http.Handler

// Engine generates the CRUD routes of model type T. Each factory may be
// replaced independently; the detail route is served by UpdateView.
type Engine[T any] struct {
	ListView   ViewFactory[T]
	CreateView ViewFactory[T]
	UpdateView ViewFactory[T]
	DeleteView ViewFactory[T]

	// PaginateBy is the default list page size.
	PaginateBy int
}

// NewEngine returns an engine with the default views rendering templates.
func NewEngine[T any, PT models.Pointer[T]](templates *Templates, paginateBy int) *Engine[T] {
	return &Engine[T]{
		ListView:   ListView[T, PT](templates),
		CreateView: CreateView[T, PT](templates),
		UpdateView: UpdateView[T, PT](templates),
		DeleteView: DeleteView[T, PT](templates),
		PaginateBy: paginateBy,
	}
}

// Patterns returns the list, create, detail, update and delete routes of
// the model served by svc, under one include "/<prefix>" namespaced
// <prefix>.
//
// appPath is the namespace the include is mounted under ("" for none); it
// only affects the route names stored in the view data. prefix defaults to
// the lower-cased model name. extra is applied to every view, then each
// override to its action only.
func (e *Engine[T]) Patterns(svc service.ModelService[T], appPath string, overrides Overrides, prefix string, extra ViewData) ([]urls.Entry, error) {
	if e.ListView == nil || e.CreateView == nil || e.UpdateView == nil || e.DeleteView == nil {
		return nil, ErrNoViewFactory
	}

	meta := svc.Meta()
	if prefix == "" {
		prefix = strings.ToLower(meta.Name)
	}

	name := prefix
	autocomplete := "api:" + prefix + "ac:list"
	if appPath != "" {
		name = appPath + urls.NamespaceSeparator + prefix
		autocomplete = "api:" + appPath + urls.NamespaceSeparator + prefix + "ac:list"
	}

	shared, err := ViewData{
		Model:                  meta,
		ContextObjectName:      "obj",
		URLListPath:            name + ":list",
		URLDetailPath:          name + ":detail",
		URLUpdatePath:          name + ":update",
		URLDeletePath:          name + ":delete",
		URLCreatePath:          name + ":create",
		URLAPIAutocompletePath: autocomplete,
	}.with(extra)
	if err != nil {
		return nil, err
	}

	paginateBy := e.PaginateBy
	if paginateBy <= 0 {
		paginateBy = DefaultPaginateBy
	}

	defaults := map[Action]ViewData{
		ActionList:   {TemplateName: TemplateList, PaginateBy: paginateBy},
		ActionCreate: {TemplateName: TemplateForm},
		ActionDetail: {TemplateName: TemplateDetail},
		ActionUpdate: {TemplateName: TemplateForm},
		ActionDelete: {TemplateName: TemplateConfirmDelete, SuccessURL: name + ":list"},
	}

	data := make(map[Action]ViewData, len(defaults))
	for action, d := range defaults {
		if d, err = d.with(shared); err != nil {
			return nil, err
		}
		if d, err = d.with(overrides[action]); err != nil {
			return nil, fmt.Errorf("%s view: %w", action, err)
		}
		data[action] = d
	}

	return []urls.Entry{
		urls.NewInclude("/"+prefix, prefix,
			urls.NewRoute("/", e.ListView(svc, data[ActionList]), string(ActionList)),
			urls.NewRoute("/new/", e.CreateView(svc, data[ActionCreate]), string(ActionCreate)),
			urls.NewRoute("/{pk:[0-9]+}/", e.UpdateView(svc, data[ActionDetail]), string(ActionDetail)),
			urls.NewRoute("/{pk:[0-9]+}/update/", e.UpdateView(svc, data[ActionUpdate]), string(ActionUpdate)),
			urls.NewRoute("/{pk:[0-9]+}/delete/", e.DeleteView(svc, data[ActionDelete]), string(ActionDelete)),
		),
	}, nil
}
