// ABOUTME: HTTP client for the Lost & Found backend API
// ABOUTME: Wraps auth, item, and claim request endpoints with typed errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is applied to every call unless overridden with WithTimeout
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept for display
const maxErrorBody = 64 << 10

// Client is the API client for the Lost & Found backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    *time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithHTTPClient uses a copy of hc for every call; hc itself is never
// modified. WithTimeout, in any position, overrides hc's timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		c.httpClient.Timeout = *c.timeout
	}
	c.httpClient.Transport = newLoggingTransport(c.httpClient.Transport)
	return c
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string // "message" or "error" field of a JSON body, if any
	Body       string // raw response body text
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
}

// Detail returns the most specific human-readable text the backend sent
func (e *APIError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Body
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// Signin calls POST /auth/signin and returns the issued token
func (c *Client) Signin(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/signin", "", creds)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return "", c.handleErrorResponse(resp)
	}

	var out SigninResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("invalid response from backend: no token issued")
	}
	return out.Token, nil
}

// Signup calls POST /auth/signup and returns the backend's text message
func (c *Client) Signup(ctx context.Context, input SignupInput) (string, error) {
	if !input.Role.Valid() {
		return "", fmt.Errorf("invalid role %q", input.Role)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/signup", "", input)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return "", c.handleErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// CurrentUser calls GET /api/users/me
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, c.handleErrorResponse(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &user, nil
}

// ItemsByStatus calls GET /api/items/status/{status}. A successful response
// whose body is not a JSON array yields an empty list.
func (c *Client) ItemsByStatus(ctx context.Context, status ItemStatus) ([]Item, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/items/status/"+url.PathEscape(string(status)), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, c.handleErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	if !isJSONArray(body) {
		return []Item{}, nil
	}

	items := []Item{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return items, nil
}

// CreateRequest calls POST /api/requests. The created request is returned
// when the backend echoes it; a nil request with a nil error means the
// backend accepted the claim without a decodable body.
func (c *Client) CreateRequest(ctx context.Context, token string, input CreateRequestInput) (*Request, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/requests", token, input)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, c.handleErrorResponse(resp)
	}

	var created Request
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, nil
	}
	return &created, nil
}

// ListRequests calls GET /api/requests
func (c *Client) ListRequests(ctx context.Context, token string) ([]Request, error) {
	return c.listRequests(ctx, token, "/api/requests")
}

// MyRequests calls GET /api/requests/my
func (c *Client) MyRequests(ctx context.Context, token string) ([]Request, error) {
	return c.listRequests(ctx, token, "/api/requests/my")
}

func (c *Client) listRequests(ctx context.Context, token, path string) ([]Request, error) {
	resp, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return nil, c.handleErrorResponse(resp)
	}

	requests := []Request{}
	if err := json.NewDecoder(resp.Body).Decode(&requests); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return requests, nil
}

// UpdateRequestStatus calls PUT /api/requests/{id}?status={status}
func (c *Client) UpdateRequestStatus(ctx context.Context, token string, id int64, status RequestStatus) error {
	if status != RequestApproved && status != RequestRejected {
		return fmt.Errorf("invalid target status %q", status)
	}

	q := url.Values{}
	q.Set("status", string(status))
	path := "/api/requests/" + strconv.FormatInt(id, 10) + "?" + q.Encode()

	resp, err := c.do(ctx, http.MethodPut, path, token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp) {
		return c.handleErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// do builds and sends a request. body, when non-nil, is sent as JSON.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	return resp, nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse captures the body of a non-2xx response
func (c *Client) handleErrorResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &errResp); err == nil {
		apiErr.Message = errResp.Message
		if apiErr.Message == "" {
			apiErr.Message = errResp.Error
		}
	}
	return apiErr
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}
