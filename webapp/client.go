package webapp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultMaxRedirects = 10

// ClientOptions configures a Client created by App.NewClient.
type ClientOptions struct {
	// DisableCookies turns off the client's cookie jar, so no state (such as a
	// session cookie) carries over between requests made through the client.
	DisableCookies bool

	// MaxRedirects caps how many redirects a request made with FollowRedirects
	// will follow before failing. If not set, 10 is used.
	MaxRedirects ldvalue.OptionalInt
}

// Client makes requests against an App in process, without a network listener.
// Unless cookies are disabled it behaves like a browser with a cookie jar, so a
// session established by one request is presented on the next.
type Client struct {
	app          *App
	jar          http.CookieJar
	maxRedirects int
	baseURL      *url.URL

	mu           sync.Mutex
	lastEndpoint string
	lastRequest  *http.Request
	lastResponse *Response
}

// NewClient creates an in-process client for the app.
func (a *App) NewClient(opts ClientOptions) (*Client, error) {
	maxRedirects := defaultMaxRedirects
	if opts.MaxRedirects.IsDefined() {
		maxRedirects = opts.MaxRedirects.IntValue()
		if maxRedirects < 0 {
			return nil, fmt.Errorf("MaxRedirects must not be negative (got %d)", maxRedirects)
		}
	}
	c := &Client{
		app:          a,
		maxRedirects: maxRedirects,
		baseURL:      &url.URL{Scheme: "http", Host: "localhost"},
	}
	if !opts.DisableCookies {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("could not create cookie jar: %w", err)
		}
		c.jar = jar
	}
	return c, nil
}

func (c *Client) App() *App { return c.app }

type requestConfig struct {
	followRedirects bool
	header          http.Header
}

// RequestOption adjusts a single request made through a Client.
type RequestOption func(*requestConfig)

// FollowRedirects makes the request follow redirect responses until a non-redirect
// response arrives, like a browser would.
func FollowRedirects() RequestOption {
	return func(rc *requestConfig) { rc.followRedirects = true }
}

// WithHeader adds a header to the request.
func WithHeader(name, value string) RequestOption {
	return func(rc *requestConfig) { rc.header.Add(name, value) }
}

func (c *Client) Get(path string, opts ...RequestOption) (*Response, error) {
	return c.do(http.MethodGet, path, "", nil, opts)
}

func (c *Client) PostForm(path string, data url.Values, opts ...RequestOption) (*Response, error) {
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", []byte(data.Encode()), opts)
}

func (c *Client) PostJSON(path string, payload interface{}, opts ...RequestOption) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not encode request body: %w", err)
	}
	return c.do(http.MethodPost, path, "application/json", body, opts)
}

// Do makes a request with an arbitrary method and body.
func (c *Client) Do(method, path, contentType string, body []byte, opts ...RequestOption) (*Response, error) {
	return c.do(method, path, contentType, body, opts)
}

func (c *Client) do(method, path, contentType string, body []byte, opts []RequestOption) (*Response, error) {
	rc := requestConfig{header: make(http.Header)}
	for _, opt := range opts {
		opt(&rc)
	}

	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}

	resp, err := c.roundTrip(method, u, contentType, body, rc.header)
	if err != nil {
		return nil, err
	}
	if !rc.followRedirects {
		return resp, nil
	}

	for redirects := 0; isRedirect(resp.StatusCode); redirects++ {
		if redirects == c.maxRedirects {
			return nil, fmt.Errorf("stopped after %d redirects", c.maxRedirects)
		}
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, errors.New("redirect response without a Location header")
		}
		u, err = u.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid redirect target %q: %w", location, err)
		}
		// 307 and 308 preserve the method and body; all other redirects become a GET
		if resp.StatusCode != http.StatusTemporaryRedirect && resp.StatusCode != http.StatusPermanentRedirect {
			method = http.MethodGet
			contentType = ""
			body = nil
		}
		resp, err = c.roundTrip(method, u, contentType, body, rc.header)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func (c *Client) roundTrip(method string, u *url.URL, contentType string, body []byte, extra http.Header) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, u.String(), bodyReader)
	for name, values := range extra {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(u) {
			req.AddCookie(cookie)
		}
	}

	ex := &exchange{}
	req = req.WithContext(withExchange(req.Context(), ex))

	rec := httptest.NewRecorder()
	c.app.Handler().ServeHTTP(rec, req)

	result := rec.Result()
	respBody, err := io.ReadAll(result.Body)
	_ = result.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	resp := &Response{StatusCode: result.StatusCode, Header: result.Header, Body: respBody}

	if c.jar != nil {
		if cookies := result.Cookies(); len(cookies) > 0 {
			c.jar.SetCookies(u, cookies)
		}
	}

	c.mu.Lock()
	c.lastEndpoint = ex.endpoint
	c.lastRequest = req
	c.lastResponse = resp
	c.mu.Unlock()
	return resp, nil
}

// ClientScope exposes what the app observed for the client's most recent request.
// Its accessors are only meaningful while the scope is open.
type ClientScope struct {
	client *Client
	closed bool
}

func (c *Client) OpenScope() (*ClientScope, error) {
	c.app.addScope()
	return &ClientScope{client: c}, nil
}

// Endpoint returns the endpoint name that served the client's most recent request,
// or "" if the client has not made a request yet.
func (s *ClientScope) Endpoint() string {
	if s.closed {
		return ""
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	return s.client.lastEndpoint
}

// Session returns the session the client currently holds in its cookie jar. With
// cookies disabled it is always empty.
func (s *ClientScope) Session() Session {
	if s.closed || s.client.jar == nil {
		return Session{}
	}
	for _, cookie := range s.client.jar.Cookies(s.client.baseURL) {
		if cookie.Name == sessionCookieName {
			var sess Session
			if err := s.client.app.codec.Decode(sessionCookieName, cookie.Value, &sess); err == nil {
				return sess
			}
		}
	}
	return Session{}
}

func (s *ClientScope) LastRequest() *http.Request {
	if s.closed {
		return nil
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	return s.client.lastRequest
}

func (s *ClientScope) LastResponse() *Response {
	if s.closed {
		return nil
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	return s.client.lastResponse
}

func (s *ClientScope) Close() error {
	if s.closed {
		return errors.New("client scope already closed")
	}
	s.closed = true
	s.client.app.releaseScope()
	return nil
}
