package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/javiermolinar/planboard/internal/task"
)

const defaultTimeout = 10 * time.Second

// ErrBadResponse is returned when the backend answers with a body that is not JSON.
var ErrBadResponse = errors.New("unexpected response from planning server")

// ServerError is a failure reported by the backend in a {success:false} body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("planning server refused the request (%d)", e.Status)
	}
	return e.Message
}

// Client talks to the scheduling backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Move places a task at an operator and start slot.
func (c *Client) Move(ctx context.Context, req MoveRequest) (*Result, error) {
	return c.post(ctx, RouteMove, req)
}

// Resize changes a task's duration, moving it too when start and operator are set.
func (c *Client) Resize(ctx context.Context, req ResizeRequest) (*Result, error) {
	return c.post(ctx, RouteResize, req)
}

// KeyboardMove moves a task one step in a direction.
func (c *Client) KeyboardMove(ctx context.Context, req KeyboardMoveRequest) (*Result, error) {
	return c.post(ctx, RouteKeyboardMove, req)
}

// Reload asks the backend to reload its data from the seed source.
func (c *Client) Reload(ctx context.Context) (*Result, error) {
	return c.post(ctx, RouteReload, struct{}{})
}

// Snapshot fetches the authoritative board state.
func (c *Client) Snapshot(ctx context.Context) (*task.Snapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+RouteSnapshot, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	body, status, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, serverError(status, body)
	}

	var snap task.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &snap, nil
}

// post sends a JSON body and decodes a Result. A Result with Success false
// is returned alongside a *ServerError.
func (c *Client) post(ctx context.Context, route string, payload any) (*Result, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		if status != http.StatusOK {
			return nil, serverError(status, body)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if !res.Success {
		return &res, &ServerError{Status: status, Message: res.Error}
	}
	return &res, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func serverError(status int, body []byte) error {
	var res Result
	if err := json.Unmarshal(body, &res); err == nil && res.Error != "" {
		return &ServerError{Status: status, Message: res.Error}
	}
	return &ServerError{Status: status, Message: strings.TrimSpace(string(body))}
}
