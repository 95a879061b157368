package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Message classifications used by the API envelope.
const (
	TypeWarning = "warning"
	TypeError   = "error"
)

// ErrCannotConnect is the user-facing message for any network-level failure.
var ErrCannotConnect = errors.New("cannot connect to server")

// Envelope is the response shape of every API endpoint.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Type    string          `json:"type,omitempty"`
}

// Result carries the envelope metadata of a successful call.
type Result struct {
	StatusCode int
	Message    string
	Type       string
}

// Warning reports whether the server asked the user to correct something
// without failing the request.
func (r Result) Warning() bool { return r.Type == TypeWarning }

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	StatusText string
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusText)
}

func (e *APIError) IsWarning() bool { return e.Type == TypeWarning }

// TransportError wraps failures that happened before a response was received.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string        { return ErrCannotConnect.Error() }
func (e *TransportError) Unwrap() error        { return e.Cause }
func (e *TransportError) Is(target error) bool { return target == ErrCannotConnect }

// Observer receives one call per upstream request. outcome is one of
// "ok", "warning", "error", "transport".
type Observer interface {
	ObserveUpstream(endpoint, outcome string, d time.Duration)
}

type Client struct {
	BaseURL  string
	HTTP     *http.Client
	Observer Observer
}

// New returns a client that keeps cookies between calls so that session
// credentials issued by the API are sent back on every request.
func New(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout, Jar: jar},
	}
}

// GetJSON issues a GET to path and decodes the envelope's data into out.
func (c *Client) GetJSON(ctx context.Context, endpoint, path string, query url.Values, out any) (Result, error) {
	return c.DoJSON(ctx, endpoint, http.MethodGet, path, query, nil, out)
}

// DoJSON performs a single request without retries. endpoint is a stable
// label used for metrics.
func (c *Client) DoJSON(ctx context.Context, endpoint, method, path string, query url.Values, body any, out any) (Result, error) {
	start := time.Now()
	res, outcome, err := c.do(ctx, method, path, query, body, out)
	if c.Observer != nil {
		c.Observer.ObserveUpstream(endpoint, outcome, time.Since(start))
	}
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) (Result, string, error) {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return Result{}, "error", fmt.Errorf("httpx: invalid url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Result{}, "error", fmt.Errorf("httpx: encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return Result{}, "error", fmt.Errorf("httpx: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, "transport", ctxErr
		}
		return Result{}, "transport", &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, "transport", &TransportError{Cause: err}
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Type:       TypeError,
		}
		if decodeErr == nil {
			apiErr.Message = env.Message
			if env.Type == TypeWarning {
				apiErr.Type = TypeWarning
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = apiErr.StatusText
		}
		return Result{}, apiErr.Type, apiErr
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{StatusCode: resp.StatusCode}, "ok", nil
	}
	if decodeErr != nil {
		return Result{}, "error", fmt.Errorf("httpx: decode response: %w", decodeErr)
	}
	res := Result{StatusCode: resp.StatusCode, Message: env.Message, Type: env.Type}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return res, "error", fmt.Errorf("httpx: decode data: %w", err)
		}
	}
	if res.Warning() {
		return res, TypeWarning, nil
	}
	return res, "ok", nil
}
