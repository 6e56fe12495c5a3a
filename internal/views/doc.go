// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package views generates the five conventional server-rendered CRUD pages
// of a model and the URL entries routing to them.
//
// An [Engine] holds one factory per view kind. [Engine.Patterns] builds the
// shared [ViewData] of a model, derives the per-action defaults, applies the
// caller's per-action overrides and returns a single [urls.Include]:
//
//	/<prefix>/                   list
//	/<prefix>/new/               create
//	/<prefix>/{pk}/              detail
//	/<prefix>/{pk}/update/       update
//	/<prefix>/{pk}/delete/       delete
//
// The default views render the embedded html/template set ([Templates]);
// replace any factory of the engine to plug in another implementation.
package views
