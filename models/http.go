package models

// ListResponse is the body of a list request: the number of rows matching
// the refined query before paging, and the requested page of rows.
type ListResponse[T any] struct {
	TotalCount int64 `json:"totalCount"`
	Data       []T   `json:"data"`
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// SortSpec is one element of the "sort" request parameter.
type SortSpec struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// Sort directions understood by the "sort" request parameter. Any value
// other than SortDesc sorts ascending.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)
