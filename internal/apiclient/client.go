// Package apiclient is a typed client for the TrainerHub REST API. It keeps
// the session cookie in a jar, attaches a bearer token when one is known,
// and signs the session out once on the first 401 from a data call.
package apiclient

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

	"trainerhub/app/internal/authprobe"
	"trainerhub/app/internal/authstate"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// Client talks to one TrainerHub server. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	session   *authstate.Session
	nav       authprobe.Navigator
	onSignOut func()
	logger    *zap.Logger

	timeout    time.Duration
	timeoutSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client to copy from. The caller's client is
// never modified; the copy gets a cookie jar if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides the request timeout, whatever client is in use.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout, c.timeoutSet = d, true }
}

func WithSession(s *authstate.Session) Option { return func(c *Client) { c.session = s } }

// WithNavigator sets where the client sends the user after a forced sign-out.
func WithNavigator(n authprobe.Navigator) Option { return func(c *Client) { c.nav = n } }

// WithSignOutHook runs fn once when a 401 signs the session out.
func WithSignOutHook(fn func()) Option { return func(c *Client) { c.onSignOut = fn } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// New builds a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
		session: authstate.New(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	if c.timeoutSet {
		hc.Timeout = c.timeout
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	c.http = &hc
	return c, nil
}

// Session returns the session the client signs out on 401.
func (c *Client) Session() *authstate.Session {
	return c.session
}

type callKind int

const (
	// authCall 401s are answers, not session loss.
	authCall callKind = iota
	dataCall
)

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	kind   callKind
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + req.path
	u.RawQuery = req.query.Encode()

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && req.kind == dataCall {
			c.forceSignOut()
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// forceSignOut runs the sign-out hook and navigation for whichever caller
// clears the session first. Everyone else is a no-op.
func (c *Client) forceSignOut() {
	if !c.session.SignOut() {
		return
	}
	c.logger.Info("Session rejected by server, signing out")
	if c.onSignOut != nil {
		c.onSignOut()
	}
	if c.nav != nil {
		c.nav.Navigate("/")
	}
}

// IsNotFound is shorthand for errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
