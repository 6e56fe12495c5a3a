// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the HTTP client of the duct-tape JSON API.
//
// [AuthAdapter] obtains and holds the bearer token; [ResourceAdapter] drives
// one generic model resource (list, read, create, update, delete and
// autocomplete). Non-2xx answers are mapped by mapHTTPError to the sentinel
// errors of errors.go so that callers can use [errors.Is] (e.g. [ErrConflict]
// for 409, [ErrGone] for 410).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-duct-tape/models"
)

// AuthAdapter authenticates against /api/auth and keeps the token attached to
// every later request.
type AuthAdapter interface {
	// SetToken replaces the bearer token.
	SetToken(token string)

	// Token returns the current bearer token, "" before Register or Login.
	Token() string

	// Register creates the account and stores the issued token.
	Register(ctx context.Context, user models.User) (models.Token, error)

	// Login authenticates and stores the issued token.
	Login(ctx context.Context, user models.User) (models.Token, error)
}

// ResourceAdapter drives the resource of model type T.
type ResourceAdapter[T any] interface {
	List(ctx context.Context, opts ListOptions) (models.ListResponse[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, attrs map[string]any) (T, error)
	Update(ctx context.Context, id int64, attrs map[string]any) (T, error)
	Delete(ctx context.Context, id int64) error

	// Autocomplete returns the choices matching term. It fails with
	// [ErrNoAutocomplete] when the resource has no autocomplete endpoint.
	Autocomplete(ctx context.Context, term string) ([]models.Choice, error)
}
