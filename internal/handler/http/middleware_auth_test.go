package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/mock"
	"github.com/MKhiriev/go-duct-tape/internal/service"
	"github.com/MKhiriev/go-duct-tape/internal/utils"
	"github.com/MKhiriev/go-duct-tape/models"
)

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "valid Bearer token",
			header:    "Bearer my-jwt-token",
			wantToken: "my-jwt-token",
		},
		{
			name:      "scheme is case-insensitive",
			header:    "bearer my-jwt-token",
			wantToken: "my-jwt-token",
		},
		{
			name:    "missing token part",
			header:  "Bearer",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:    "non-Bearer scheme",
			header:  "Basic dXNlcjpwYXNz",
			wantErr: ErrInvalidAuthorizationHeader,
		},
		{
			name:    "blank token",
			header:  "Bearer   ",
			wantErr: ErrEmptyToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestLoginRequired(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		cookie     string
		setup      func(auth *mock.MockAuthService)
		wantStatus int
		wantUserID int64
	}{
		{
			name:   "valid header token",
			header: "Bearer good",
			setup: func(auth *mock.MockAuthService) {
				auth.EXPECT().ParseToken(gomock.Any(), "good").Return(models.Token{UserID: 42}, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name:   "valid cookie token",
			cookie: "from-cookie",
			setup: func(auth *mock.MockAuthService) {
				auth.EXPECT().ParseToken(gomock.Any(), "from-cookie").Return(models.Token{UserID: 7}, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: 7,
		},
		{
			name:   "header wins over cookie",
			header: "Bearer header-token",
			cookie: "cookie-token",
			setup: func(auth *mock.MockAuthService) {
				auth.EXPECT().ParseToken(gomock.Any(), "header-token").Return(models.Token{UserID: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: 1,
		},
		{
			name:       "no credentials",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setup: func(auth *mock.MockAuthService) {
				auth.EXPECT().ParseToken(gomock.Any(), "expired").Return(models.Token{}, service.ErrTokenIsExpiredOrInvalid)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := mock.NewMockAuthService(ctrl)
			if tt.setup != nil {
				tt.setup(auth)
			}
			h := &Handler{logger: logger.Nop(), services: &service.Services{AuthService: auth}}

			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/library/books/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: authCookie, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			h.loginRequired(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantUserID, gotUserID)
		})
	}
}

func TestLoginRequired_ErrorBodyDoesNotLeakCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockAuthService(ctrl)
	auth.EXPECT().ParseToken(gomock.Any(), "bad").Return(models.Token{}, errors.New("signature is invalid: secret detail"))
	h := &Handler{logger: logger.Nop(), services: &service.Services{AuthService: auth}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	h.loginRequired(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret detail")
}

func TestWithUserLogger(t *testing.T) {
	var buf bytes.Buffer
	h := newBufferedHandler(&buf, "")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("hello")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := utils.WithUserID(h.logger.WithContext(req.Context()), 42)
	h.withUserLogger(next).ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	assert.Contains(t, buf.String(), `"user_id":42`)
}
