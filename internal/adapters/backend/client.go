// Package backend is the portal's client for the sports school REST API.
//
// Every non-2xx answer and every transport failure is returned as *Error so
// callers can branch on Forbidden, NotFound or a generic failure.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 10 * time.Second

// Call describes one finished backend request.
type Call struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// Observer is notified after every backend request.
type Observer func(Call)

// Client issues requests to the backend API. A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithObserver registers a callback run after each request.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8081).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates as the holder of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// do sends one request. body is JSON-encoded when non-nil; a 2xx response is
// decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	start := time.Now()
	status := 0
	if c.observer != nil {
		defer func() {
			c.observer(Call{Method: method, Path: path, Status: status, Duration: time.Since(start), Err: err})
		}()
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Code: CodeUnavailable, Message: "The server could not be reached", Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "The server sent an unreadable response", Err: err}
	}
	return nil
}

// decodeError normalizes an error response. Bodies that are not the API's
// error envelope still yield an Error carrying the status.
func decodeError(resp *http.Response) *Error {
	e := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		e.Err = err
		return e
	}
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		e.Err = errors.New(strings.TrimSpace(string(data)))
		return e
	}
	e.Code = env.Error.Code
	if env.Error.Message != "" {
		e.Message = env.Error.Message
	}
	e.Fields = env.Error.Fields
	return e
}

func resourcePath(collection string, id string, suffix ...string) string {
	p := "/api/v1/" + collection + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
