package views

import (
	"fmt"
	"maps"

	"dario.cat/mergo"

	"github.com/MKhiriev/go-duct-tape/models"
)

// Action names one of the generated routes.
type Action string

const (
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionDetail Action = "detail"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists the generated actions in route order.
var Actions = []Action{ActionList, ActionCreate, ActionDetail, ActionUpdate, ActionDelete}

// Default templates of the generated views.
const (
	TemplateList          = "duct_tape/base_list.html"
	TemplateForm          = "duct_tape/base_form.html"
	TemplateDetail        = "duct_tape/base_detail.html"
	TemplateConfirmDelete = "duct_tape/base_confirm_delete.html"
)

// DefaultPaginateBy is the list page size used when the engine has none.
const DefaultPaginateBy = 50

// ViewData configures one generated view.
//
// The URL fields hold namespaced route names ("library:book:detail"), not
// paths; they are reversed against the serving [urls.Table] at render time.
type ViewData struct {
	Model models.Meta

	// ContextObjectName is the template key of the current object.
	ContextObjectName string

	TemplateName string

	// PaginateBy is the list page size; zero disables paging.
	PaginateBy int

	// SuccessURL is where a successful form or delete redirects: a route
	// name or, when it starts with "/", a path.
	SuccessURL string

	URLListPath            string
	URLDetailPath          string
	URLUpdatePath          string
	URLDeletePath          string
	URLCreatePath          string
	URLAPIAutocompletePath string

	// Extra is copied into the template context.
	Extra map[string]any
}

// Overrides holds per-action view data. Non-zero fields of an override
// replace the defaults of that action only.
type Overrides map[Action]ViewData

// with returns d updated with the non-zero fields of override.
func (d ViewData) with(override ViewData) (ViewData, error) {
	d.Extra = maps.Clone(d.Extra)
	if err := mergo.Merge(&d, override, mergo.WithOverride); err != nil {
		return d, fmt.Errorf("error merging view data: %w", err)
	}
	return d, nil
}
