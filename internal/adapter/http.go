package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-duct-tape/internal/config"
	"github.com/MKhiriev/go-duct-tape/internal/logger"
	"github.com/MKhiriev/go-duct-tape/internal/utils"
	"github.com/MKhiriev/go-duct-tape/models"
)

// HTTPAdapter is the [AuthAdapter] shared by the resources built with
// [NewResource].
type HTTPAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPAdapter returns an adapter for the server at cfg.BaseURL. A base
// URL without scheme gets "http://".
func NewHTTPAdapter(cfg config.ClientConfig, logger *logger.Logger) (*HTTPAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	return &HTTPAdapter{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *HTTPAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *HTTPAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [AuthAdapter] with POST /api/auth/register/.
func (h *HTTPAdapter) Register(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/auth/register/", user)
}

// Login implements [AuthAdapter] with POST /api/auth/login/.
func (h *HTTPAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/auth/login/", user)
}

// authenticate posts the credentials and keeps the token of the
// "Authorization" response header. The user id is read from the unverified
// "sub" claim; the server is the one verifying tokens.
func (h *HTTPAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		return models.Token{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	signed, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}

	token := &models.Token{}
	if _, _, err = jwt.NewParser().ParseUnverified(signed, token); err != nil {
		return models.Token{}, fmt.Errorf("%s parse token claims: %w", path, err)
	}
	if token.UserID, err = token.GetUserID(); err != nil {
		return models.Token{}, err
	}
	token.SignedString = signed

	h.SetToken(signed)
	h.logger.Debug().Int64("user_id", token.UserID).Str("path", path).Msg("authenticated")
	return *token, nil
}

func (h *HTTPAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// ListOptions are the refinement parameters of a list request. Zero values
// are not sent.
type ListOptions struct {
	Term   string
	Filter map[string]any
	Sort   []models.SortSpec
	Limit  int
	Page   int
	Start  int
}

func (o ListOptions) values() (url.Values, error) {
	values := url.Values{}
	if o.Term != "" {
		values.Set("term", o.Term)
	}
	if len(o.Filter) > 0 {
		filter, err := json.Marshal(o.Filter)
		if err != nil {
			return nil, fmt.Errorf("encode filter: %w", err)
		}
		values.Set("filter", string(filter))
	}
	if len(o.Sort) > 0 {
		sort, err := json.Marshal(o.Sort)
		if err != nil {
			return nil, fmt.Errorf("encode sort: %w", err)
		}
		values.Set("sort", string(sort))
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.Start > 0 {
		values.Set("start", strconv.Itoa(o.Start))
	}
	return values, nil
}

type httpResource[T any] struct {
	adapter          *HTTPAdapter
	path             string
	autocompletePath string
}

// NewResource returns the resource mounted at path, e.g.
// "/api/library/books/". autocompletePath may be empty.
func NewResource[T any](adapter *HTTPAdapter, path, autocompletePath string) ResourceAdapter[T] {
	return &httpResource[T]{
		adapter:          adapter,
		path:             withSlash(path),
		autocompletePath: autocompletePath,
	}
}

func withSlash(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

func (r *httpResource[T]) member(id int64) string {
	return r.path + strconv.FormatInt(id, 10) + "/"
}

func (r *httpResource[T]) List(ctx context.Context, opts ListOptions) (models.ListResponse[T], error) {
	var list models.ListResponse[T]

	values, err := opts.values()
	if err != nil {
		return list, err
	}

	resp, err := r.adapter.authedRequest(ctx).
		SetQueryParamsFromValues(values).
		SetResult(&list).
		Get(r.path)
	if err != nil {
		return list, fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return list, err
	}

	return list, nil
}

func (r *httpResource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T

	resp, err := r.adapter.authedRequest(ctx).SetResult(&item).Get(r.member(id))
	if err != nil {
		return item, fmt.Errorf("get request: %w", err)
	}
	return item, mapHTTPError(resp)
}

func (r *httpResource[T]) Create(ctx context.Context, attrs map[string]any) (T, error) {
	var item T

	resp, err := r.adapter.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(attrs).
		SetResult(&item).
		Post(r.path)
	if err != nil {
		return item, fmt.Errorf("create request: %w", err)
	}
	return item, mapHTTPError(resp)
}

func (r *httpResource[T]) Update(ctx context.Context, id int64, attrs map[string]any) (T, error) {
	var item T

	resp, err := r.adapter.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(attrs).
		SetResult(&item).
		Put(r.member(id))
	if err != nil {
		return item, fmt.Errorf("update request: %w", err)
	}
	return item, mapHTTPError(resp)
}

func (r *httpResource[T]) Delete(ctx context.Context, id int64) error {
	resp, err := r.adapter.authedRequest(ctx).Delete(r.member(id))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return mapHTTPError(resp)
}

func (r *httpResource[T]) Autocomplete(ctx context.Context, term string) ([]models.Choice, error) {
	if r.autocompletePath == "" {
		return nil, ErrNoAutocomplete
	}

	var choices []models.Choice
	resp, err := r.adapter.authedRequest(ctx).
		SetQueryParam("term", term).
		SetResult(&choices).
		Get(withSlash(r.autocompletePath))
	if err != nil {
		return nil, fmt.Errorf("autocomplete request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return choices, nil
}
