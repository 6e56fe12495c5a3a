package views

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/models"
)

// PKParam is the URL parameter holding the primary key of the object.
const PKParam = "pk"

// view carries what every default view needs.
type view[T any, PT models.Pointer[T]] struct {
	svc       service.ModelService[T]
	data      ViewData
	templates *Templates
}

// ListView returns the default list view: one page of objects ordered by
// primary key, the page number read from the "page" parameter.
func ListView[T any, PT models.Pointer[T]](templates *Templates) ViewFactory[T] {
	return func(svc service.ModelService[T], data ViewData) http.Handler {
		return &listView[T, PT]{view[T, PT]{svc: svc, data: data, templates: templates}}
	}
}

// CreateView returns the default create view: GET renders an empty form,
// POST creates the object and redirects.
func CreateView[T any, PT models.Pointer[T]](templates *Templates) ViewFactory[T] {
	return func(svc service.ModelService[T], data ViewData) http.Handler {
		return &createView[T, PT]{view[T, PT]{svc: svc, data: data, templates: templates}}
	}
}

// UpdateView returns the default update view, also used for the detail
// page so that the template has the form at hand: GET renders the object,
// POST updates it and redirects.
func UpdateView[T any, PT models.Pointer[T]](templates *Templates) ViewFactory[T] {
	return func(svc service.ModelService[T], data ViewData) http.Handler {
		return &updateView[T, PT]{view[T, PT]{svc: svc, data: data, templates: templates}}
	}
}

// DeleteView returns the default delete view: GET asks for confirmation,
// POST deletes the object and redirects.
func DeleteView[T any, PT models.Pointer[T]](templates *Templates) ViewFactory[T] {
	return func(svc service.ModelService[T], data ViewData) http.Handler {
		return &deleteView[T, PT]{view[T, PT]{svc: svc, data: data, templates: templates}}
	}
}

type listView[T any, PT models.Pointer[T]] struct {
	view[T, PT]
}

func (v *listView[T, PT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	page := urls.PageFromRequest(r)
	perPage := v.data.PaginateBy

	meta := v.svc.Meta()
	params := query.Params{}
	refiner := query.Chain{
		query.RefinerFunc(func(qs query.Queryset, _ query.Params) (query.Queryset, error) {
			return qs.OrderBy(meta.Table + "." + meta.PrimaryKey), nil
		}),
	}
	if perPage > 0 {
		params = query.Params{
			query.ParamLimit: {strconv.Itoa(perPage)},
			query.ParamPage:  {strconv.Itoa(page)},
			query.ParamStart: {strconv.Itoa((page - 1) * perPage)},
		}
		refiner = append(refiner, query.Paging{})
	}

	total, items, err := v.svc.List(r.Context(), params, refiner)
	if errors.Is(err, store.ErrNotFound) && page == 1 {
		// an empty first page is still a page
		err = nil
	}
	if err != nil {
		v.fail(w, r, err)
		return
	}

	pagination := newPagination(page, perPage, total)
	data := v.context()
	data["object_list"] = rowsOf[T, PT](items)
	data["page_obj"] = pagination
	data["is_paginated"] = perPage > 0 && pagination.NumPages > 1
	v.render(w, r, http.StatusOK, data)
}

type createView[T any, PT models.Pointer[T]] struct {
	view[T, PT]
}

func (v *createView[T, PT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method != http.MethodPost {
		data := v.context()
		data["form"] = newForm(v.data.Model, nil, nil)
		v.render(w, r, http.StatusOK, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	obj, err := v.svc.Create(r.Context(), formAttrs(v.data.Model, r.PostForm))
	if err != nil {
		v.invalid(w, r, nil, err)
		return
	}

	v.redirect(w, r, PT(&obj).PK())
}

type updateView[T any, PT models.Pointer[T]] struct {
	view[T, PT]
}

func (v *updateView[T, PT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	pk := chi.URLParam(r, PKParam)
	obj, err := v.svc.Get(r.Context(), pk)
	if err != nil {
		v.fail(w, r, err)
		return
	}
	row := rowOf[T, PT](&obj)

	if r.Method != http.MethodPost {
		data := v.context()
		data[v.data.ContextObjectName] = row
		data["object"] = row
		data["form"] = newForm(v.data.Model, &row, nil)
		v.render(w, r, http.StatusOK, data)
		return
	}

	if err = r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	obj, err = v.svc.Update(r.Context(), pk, formAttrs(v.data.Model, r.PostForm))
	if err != nil {
		v.invalid(w, r, &row, err)
		return
	}

	v.redirect(w, r, PT(&obj).PK())
}

type deleteView[T any, PT models.Pointer[T]] struct {
	view[T, PT]
}

func (v *deleteView[T, PT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	pk := chi.URLParam(r, PKParam)
	if r.Method == http.MethodPost {
		if err := v.svc.Delete(r.Context(), pk); err != nil {
			v.fail(w, r, err)
			return
		}
		v.redirect(w, r, nil)
		return
	}

	obj, err := v.svc.Get(r.Context(), pk)
	if err != nil {
		v.fail(w, r, err)
		return
	}
	row := rowOf[T, PT](&obj)

	data := v.context()
	data[v.data.ContextObjectName] = row
	data["object"] = row
	v.render(w, r, http.StatusOK, data)
}

// context returns the template context shared by every view.
func (v *view[T, PT]) context() map[string]any {
	data := map[string]any{
		"view":  v.data,
		"model": v.data.Model,
	}
	maps.Copy(data, v.data.Extra)
	return data
}

func (v *view[T, PT]) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := v.templates.Render(w, r, status, v.data.TemplateName, data); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "views.render").Str("template", v.data.TemplateName).Msg("error rendering template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// invalid renders the form again with the error of the submission when the
// error is the client's, and fails otherwise.
func (v *view[T, PT]) invalid(w http.ResponseWriter, r *http.Request, row *Row, err error) {
	status := statusFromError(err)
	if status != http.StatusBadRequest && status != http.StatusConflict {
		v.fail(w, r, err)
		return
	}

	form := newForm(v.data.Model, row, r.PostForm)
	form.Errors = strings.Split(err.Error(), "\n")

	data := v.context()
	data["form"] = form
	if row != nil {
		data[v.data.ContextObjectName] = *row
		data["object"] = *row
	}
	v.render(w, r, status, data)
}

func (v *view[T, PT]) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", "views.fail").Str("model", v.data.Model.Name).Msg("view failed")
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

// redirect answers 303 to SuccessURL, or to the detail page of pk when
// SuccessURL is unset.
func (v *view[T, PT]) redirect(w http.ResponseWriter, r *http.Request, pk any) {
	target := v.data.SuccessURL
	if target == "" {
		target = v.data.URLDetailPath
	}

	if !strings.HasPrefix(target, "/") {
		var params []string
		if pk != nil {
			params = []string{PKParam, fmt.Sprint(pk)}
		}
		path, err := urls.Reverse(r.Context(), target, params...)
		if err != nil {
			logger.FromRequest(r).Err(err).Str("func", "views.redirect").Str("target", target).Msg("error reversing success url")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		target = path
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// allow answers 405 with an Allow header unless the request method is one
// of methods. HEAD is accepted wherever GET is.
func allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m || (m == http.MethodGet && r.Method == http.MethodHead) {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}
