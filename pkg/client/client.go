// Package client is the job board API client. Every call goes through Do, which
// attaches the session token, classifies failures and runs the session side
// effects (notification, logout, redirect) before returning the error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// package-level logger for pkg/client; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/client. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Paths with special handling on 401.
const (
	loginEndpoint     = "/account/login"
	myCompanyEndpoint = "/company/my-company"
)

// Deps are the collaborators the client drives on failures. Nil fields get
// in-memory defaults.
type Deps struct {
	Session   *Session
	Notifier  Notifier
	Navigator Navigator
}

type Client struct {
	cfg     Config
	base    *url.URL
	http    *http.Client
	session *Session
	notify  Notifier
	nav     Navigator
	closed  int32
}

// Request describes one API call. Body is JSON-encoded unless Raw is set.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	Raw         io.Reader
	ContentType string
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// NewClient creates a client. A nil httpClient gets a transport with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client, deps Deps) (*Client, error) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 15 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	if deps.Session == nil {
		deps.Session = NewSession(nil)
	}
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{}
	}
	if deps.Navigator == nil {
		deps.Navigator = NewMemoryNavigator("/")
	}

	return &Client{
		cfg:     cfg,
		base:    u,
		http:    httpClient,
		session: deps.Session,
		notify:  deps.Notifier,
		nav:     deps.Navigator,
	}, nil
}

// Session returns the session state the client reads and clears.
func (c *Client) Session() *Session { return c.session }

// Close releases idle connections. It is idempotent.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// Do sends req and returns the 2xx response, or an *APIError after the
// failure has been reported to the notifier and the session updated.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := c.build(ctx, method, target, req)
	if err != nil {
		return nil, c.fail(&APIError{Kind: KindSetup, Method: method, URL: target, Messages: []string{MsgUnexpected}, Err: err})
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.fail(&APIError{Kind: KindNetwork, Method: method, URL: target, Messages: []string{MsgNetwork}, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&APIError{Kind: KindNetwork, Method: method, URL: target, StatusCode: resp.StatusCode, Messages: []string{MsgNetwork}, Err: err})
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	}

	return nil, c.handleStatus(method, target, resp.StatusCode, body)
}

func (c *Client) build(ctx context.Context, method, target string, req Request) (*http.Request, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	u := c.base.ResolveReference(ref)

	var body io.Reader
	contentType := req.ContentType
	switch {
	case req.Raw != nil:
		body = req.Raw
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		if contentType == "" {
			contentType = "application/json"
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// handleStatus classifies a non-2xx reply and runs its side effects.
func (c *Client) handleStatus(method, target string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Method:     method,
		URL:        target,
		Body:       body,
	}
	extracted, matched := Extract(DecodePayload(body))
	extracted = nonEmpty(extracted)
	if !matched || len(extracted) == 0 {
		extracted = nil
	}

	switch {
	case status == http.StatusUnauthorized:
		switch {
		case isLoginURL(target):
			apiErr.Messages = orDefault(extracted, DefaultErrorMessage)
			c.notifyEach(apiErr.Messages)
		case c.session.Token() == "":
			apiErr.Messages = []string{joinOr(extracted, MsgUnauthorized)}
			c.notifyEach(apiErr.Messages)
		case isEnrichmentURL(target):
			apiErr.Messages = orDefault(extracted, DefaultErrorMessage)
			apiErr.Suppressed = true
		default:
			if err := c.session.Clear(); err != nil {
				logger.Error("client: clear session", "err", err)
			}
			apiErr.SessionCleared = true
			if c.nav.Location() != c.cfg.LoginPath {
				c.nav.Redirect(c.cfg.LoginPath)
			}
			apiErr.Messages = []string{MsgSessionExpired}
			c.notifyEach(apiErr.Messages)
		}
	case status == http.StatusForbidden:
		apiErr.Messages = []string{joinOr(extracted, MsgForbidden)}
		c.notifyEach(apiErr.Messages)
	case status == http.StatusNotFound:
		apiErr.Messages = []string{joinOr(extracted, MsgNotFound)}
		c.notifyEach(apiErr.Messages)
	case status >= http.StatusInternalServerError:
		apiErr.Messages = []string{joinOr(extracted, MsgServer)}
		c.notifyEach(apiErr.Messages)
	default:
		// 400 and anything else: the payload's own messages, no status text
		apiErr.Messages = orDefault(extracted, DefaultErrorMessage)
		c.notifyEach(apiErr.Messages)
	}

	logger.Warn("client: request failed",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", status),
		slog.String("kind", apiErr.Kind.String()),
		slog.Bool("suppressed", apiErr.Suppressed),
	)
	return apiErr
}

func (c *Client) fail(apiErr *APIError) *APIError {
	logger.Warn("client: request not completed",
		slog.String("method", apiErr.Method),
		slog.String("url", apiErr.URL),
		slog.String("kind", apiErr.Kind.String()),
		slog.Any("err", apiErr.Err),
	)
	c.notifyEach(apiErr.Messages)
	return apiErr
}

func (c *Client) notifyEach(msgs []string) {
	for _, m := range msgs {
		c.notify.Error(m)
	}
}

func isLoginURL(target string) bool {
	return strings.Contains(target, loginEndpoint)
}

// isEnrichmentURL matches the best-effort profile lookups made right after
// login. Substring matching: any path containing both "/candidate" and "/all"
// qualifies.
func isEnrichmentURL(target string) bool {
	if strings.Contains(target, myCompanyEndpoint) {
		return true
	}
	return strings.Contains(target, "/candidate") && strings.Contains(target, "/all")
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(msgs []string, def string) []string {
	if len(msgs) == 0 {
		return []string{def}
	}
	return msgs
}

func joinOr(msgs []string, def string) string {
	if len(msgs) == 0 {
		return def
	}
	return strings.Join(msgs, ", ")
}
