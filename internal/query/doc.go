// Package query narrows a model collection according to request parameters.
//
// A [Queryset] is an immutable description of a SELECT over one model table,
// rendered through squirrel. It is refined by an ordered [Chain] of
// [Refiner] steps:
//
//	SearchTerm  ?term=...                      OR of per-field matches
//	Filter      ?filter={"status":"lost"}      AND of lookups
//	Sort        ?sort=[{"property":"year","direction":"DESC"}]
//	Paging      ?limit=25&page=2&start=0       slice [start:limit*page]
//
// Paging is always the last step, so the total count of a refined queryset
// ([Queryset.CountBuilder]) ignores ordering and slicing.
package query
