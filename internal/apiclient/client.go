// Package apiclient is the authenticated JSON client for the ResumeAI REST API.
package apiclient

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

	"golang.org/x/oauth2"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// Client talks to the API. Every authenticated call carries the session's
// bearer token; requests are never retried.
type Client struct {
	baseURL string
	session *Session
	authed  *http.Client
	anon    *http.Client

	notifications *NotificationsService
	feedback      *FeedbackService
	users         *UsersService
	ai            *AIService
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
	base    *http.Client
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient sets the underlying client whose transport carries requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.base = c }
}

// New creates a client rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, session *Session, opts ...Option) *Client {
	o := clientOptions{timeout: defaultTimeout, base: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}

	// oauth2.NewClient would cache the first token; the bare Transport asks
	// the session on every request so SetToken and Revoke apply immediately.
	authed := &http.Client{
		Transport: &oauth2.Transport{Source: session.TokenSource(), Base: o.base.Transport},
		Timeout:   o.timeout,
	}

	anon := *o.base
	anon.Timeout = o.timeout

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		authed:  authed,
		anon:    &anon,
	}
	c.notifications = &NotificationsService{c: c}
	c.feedback = &FeedbackService{c: c}
	c.users = &UsersService{c: c}
	c.ai = &AIService{c: c, tools: defaultTools}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session { return c.session }

// Notifications returns the notification endpoints.
func (c *Client) Notifications() *NotificationsService { return c.notifications }

// Feedback returns the feedback endpoints.
func (c *Client) Feedback() *FeedbackService { return c.feedback }

// Users returns the profile endpoints.
func (c *Client) Users() *UsersService { return c.users }

// AI returns the generation endpoints.
func (c *Client) AI() *AIService { return c.ai }

// Meta is the pagination block of a list response.
type Meta struct {
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasNext bool            `json:"has_next"`
	Stats   json.RawMessage `json:"stats,omitempty"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *Meta           `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	anon   bool
}

func (c *Client) do(ctx context.Context, r call) (*Meta, error) {
	if !r.anon && !c.session.Authenticated() {
		return nil, ErrNoToken
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.authed
	if r.anon {
		hc = c.anon
	}
	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	if r.out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, r.out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Meta, nil
}
