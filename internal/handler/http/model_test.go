package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-duct-tape/internal/mock"
	"github.com/MKhiriev/go-duct-tape/internal/query"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/store"
	"github.com/MKhiriev/go-duct-tape/internal/urls"
	"github.com/MKhiriev/go-duct-tape/models"
)

func TestCreateAttrs(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        map[string]any
		wantErr     error
	}{
		{
			name:        "json body",
			contentType: "application/json; charset=utf-8",
			body:        `{"name":"Lem","country":"PL"}`,
			want:        map[string]any{"name": "Lem", "country": "PL"},
		},
		{
			name:        "form takes first value",
			contentType: formType,
			body:        "name=Lem&name=Dick&country=PL",
			want:        map[string]any{"name": "Lem", "country": "PL"},
		},
		{
			name:        "data field replaces form",
			contentType: formType,
			body:        `name=ignored&data={"name":"Lem"}`,
			want:        map[string]any{"name": "Lem"},
		},
		{
			name:        "data field is not an object",
			contentType: formType,
			body:        `data="Lem"`,
			wantErr:     ErrInvalidJSON,
		},
		{
			name:        "malformed json body",
			contentType: jsonType,
			body:        `{"name":`,
			wantErr:     ErrInvalidJSON,
		},
		{
			name: "empty form",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/library/authors/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			got, err := createAttrs(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModelHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "not found", err: fmt.Errorf("get: %w", store.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "multiple found", err: store.ErrMultipleFound, wantStatus: http.StatusConflict},
		{name: "gone", err: service.ErrGone, wantStatus: http.StatusGone},
		{name: "not implemented", err: service.ErrNotImplemented, wantStatus: http.StatusNotImplemented},
		{name: "bad lookup", err: query.ErrUnknownLookup, wantStatus: http.StatusBadRequest, wantBody: query.ErrUnknownLookup.Error()},
		{name: "storage failure is not echoed", err: fmt.Errorf("%w: connection reset", store.ErrExecutingQuery), wantStatus: http.StatusInternalServerError, wantBody: "Internal Server Error"},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mock.NewMockModelService[models.Author](ctrl)
			svc.EXPECT().Get(gomock.Any(), "7").Return(models.Author{}, tt.err)

			table := urls.NewTable(NewModelHandler[models.Author](svc, nil).Routes("/authors", "authors"))

			rr := httptest.NewRecorder()
			table.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/authors/7/", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody+"\n", rr.Body.String())
			}
		})
	}
}

func TestModelHandler_PassesRefinerAndParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockModelService[models.Author](ctrl)
	refiner := query.DefaultChain("name")

	svc.EXPECT().List(gomock.Any(), gomock.Any(), refiner).DoAndReturn(
		func(_ any, params query.Params, _ query.Refiner) (int64, []models.Author, error) {
			assert.Equal(t, "lem", params.Get(query.ParamTerm))
			assert.Equal(t, "10", params.Get(query.ParamLimit))
			return 12, []models.Author{{ID: 1, Name: "Stanislaw Lem"}}, nil
		})

	h := NewModelHandler[models.Author](svc, refiner)
	rr := httptest.NewRecorder()
	h.Collection(rr, httptest.NewRequest(http.MethodGet, "/?term=lem&limit=10", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"totalCount":12,"data":[{"id":1,"name":"Stanislaw Lem","country":""}]}`, rr.Body.String())
}

func TestModelHandler_UpdateUsesURLParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockModelService[models.Author](ctrl)
	svc.EXPECT().Update(gomock.Any(), "3", map[string]any{"country": "PL"}).
		Return(models.Author{ID: 3, Name: "Lem", Country: "PL"}, nil)

	h := NewModelHandler[models.Author](svc, nil)
	router := chi.NewRouter()
	router.Put("/authors/{id}/", h.Member)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/authors/3/", strings.NewReader(`{"country":"PL"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":3,"name":"Lem","country":"PL"}`, rr.Body.String())
}

func TestAutocompleteHandler_SearchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockModelService[models.Book](ctrl)
	svc.EXPECT().Search(gomock.Any(), gomock.Any(), query.SearchTerm{Fields: []string{"^title"}}).
		Return(nil, query.ErrParse)

	h := NewAutocompleteHandler[models.Book](svc, "^title")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?term=x", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
