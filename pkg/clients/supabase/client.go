package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/albaehandicraft/umkmpos/internal/config"
)

// CodeNoRows is returned by PostgREST when a single-object request matched nothing.
const CodeNoRows = "PGRST116"

const singleObjectMediaType = "application/vnd.pgrst.object+json"

// Client exposes the hosted database and auth operations used by the application.
type Client interface {
	Select(ctx context.Context, table string, query url.Values, out any) error
	SelectSingle(ctx context.Context, table string, query url.Values, out any) error
	Insert(ctx context.Context, table string, body any, out any) error
	InsertSingle(ctx context.Context, table string, body any, out any) error
	UpdateSingle(ctx context.Context, table string, query url.Values, body any, out any) error
	Delete(ctx context.Context, table string, query url.Values) error
	RPC(ctx context.Context, function string, args any, out any) error

	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*AuthUser, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	rest *resty.Client
	auth *resty.Client
}

// NewClient builds a backend client using the provided configuration values.
// Data requests authenticate with the service key; auth requests use the anon key.
func NewClient(cfg config.BackendConfig) *APIClient {
	base := strings.TrimSuffix(cfg.URL, "/")

	rest := resty.New().
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.ServiceKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	auth := resty.New().
		SetBaseURL(base+"/auth/v1").
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &APIClient{rest: rest, auth: auth}
}

// APIError represents a PostgREST or auth error payload.
type APIError struct {
	Status  int       `json:"-"`
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details"`
	Hint    string    `json:"hint"`

	// Auth endpoints report failures with these fields instead.
	ErrorCode        string `json:"error_code"`
	LegacyError      string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

// errorCode accepts the string codes of PostgREST and the numeric codes of the auth service.
type errorCode string

func (c *errorCode) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = errorCode(s)
		return nil
	}
	*c = errorCode(strings.TrimSpace(string(b)))
	return nil
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = e.ErrorDescription
	}
	if message == "" {
		message = e.Msg
	}
	code := e.ErrorCode
	if code == "" {
		code = e.LegacyError
	}
	if code == "" {
		code = string(e.Code)
	}
	return fmt.Sprintf("backend api error: status=%d, code=%s, message=%s", e.Status, code, message)
}

// IsNoRows reports whether err is the PostgREST "no rows" error for single-object requests.
func IsNoRows(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNoRows || apiErr.Status == http.StatusNotAcceptable
}

// Select fetches rows from a table. Filters are PostgREST query parameters (id=eq.1).
func (c *APIClient) Select(ctx context.Context, table string, query url.Values, out any) error {
	req := c.rest.R().SetContext(ctx).SetQueryParamsFromValues(query).SetResult(out)
	return c.do(req, http.MethodGet, table)
}

// SelectSingle fetches exactly one row, failing with a PGRST116 APIError when none match.
func (c *APIClient) SelectSingle(ctx context.Context, table string, query url.Values, out any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", singleObjectMediaType).
		SetQueryParamsFromValues(query).
		SetResult(out)
	return c.do(req, http.MethodGet, table)
}

// Insert creates rows and decodes the created representation into out when non-nil.
func (c *APIClient) Insert(ctx context.Context, table string, body any, out any) error {
	req := c.rest.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req.SetHeader("Prefer", "return=representation").SetResult(out)
	} else {
		req.SetHeader("Prefer", "return=minimal")
	}
	return c.do(req, http.MethodPost, table)
}

// InsertSingle creates one row and decodes it into out.
func (c *APIClient) InsertSingle(ctx context.Context, table string, body any, out any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetHeader("Accept", singleObjectMediaType).
		SetBody(body).
		SetResult(out)
	return c.do(req, http.MethodPost, table)
}

// UpdateSingle patches the row matched by query and decodes the result into out.
func (c *APIClient) UpdateSingle(ctx context.Context, table string, query url.Values, body any, out any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetHeader("Accept", singleObjectMediaType).
		SetQueryParamsFromValues(query).
		SetBody(body).
		SetResult(out)
	return c.do(req, http.MethodPatch, table)
}

// Delete removes the rows matched by query.
func (c *APIClient) Delete(ctx context.Context, table string, query url.Values) error {
	req := c.rest.R().SetContext(ctx).SetQueryParamsFromValues(query)
	return c.do(req, http.MethodDelete, table)
}

// RPC calls a database function exposed under /rpc.
func (c *APIClient) RPC(ctx context.Context, function string, args any, out any) error {
	req := c.rest.R().SetContext(ctx).SetBody(args)
	if out != nil {
		req.SetResult(out)
	}
	return c.do(req, http.MethodPost, "rpc/"+function)
}

func (c *APIClient) do(req *resty.Request, method, path string) error {
	apiErr := new(APIError)
	req.SetError(apiErr)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}

	return nil
}

// Eq builds an equality filter value.
func Eq(value string) string {
	return "eq." + value
}
