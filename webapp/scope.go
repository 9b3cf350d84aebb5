package webapp

import (
	"context"
	"errors"
	"net/http"
)

// exchange collects what the app observed while dispatching one request. The Client
// plants it in the request context; instrumented routes fill it in.
type exchange struct {
	endpoint string
	request  *http.Request
}

type exchangeContextKey struct{}

func withExchange(ctx context.Context, ex *exchange) context.Context {
	return context.WithValue(ctx, exchangeContextKey{}, ex)
}

func exchangeFrom(ctx context.Context) *exchange {
	ex, _ := ctx.Value(exchangeContextKey{}).(*exchange)
	return ex
}

// AppScope is an open application context: a place for values that should be
// ambient while a piece of work runs against the app. Scopes must be closed, and
// the app counts the ones still open.
type AppScope struct {
	app    *App
	values map[string]interface{}
	closed bool
}

func (a *App) OpenScope() (*AppScope, error) {
	a.addScope()
	a.logger.Debug().Msg("app scope opened")
	return &AppScope{app: a, values: make(map[string]interface{})}, nil
}

func (s *AppScope) App() *App { return s.app }

func (s *AppScope) Set(key string, value interface{}) {
	s.values[key] = value
}

func (s *AppScope) Value(key string) interface{} {
	return s.values[key]
}

func (s *AppScope) Close() error {
	if s.closed {
		return errors.New("app scope already closed")
	}
	s.closed = true
	s.app.releaseScope()
	s.app.logger.Debug().Msg("app scope closed")
	return nil
}

// RequestScope is an ambient request context for a URL, resolved against the app's
// routes but never dispatched to a handler. It answers "which endpoint would serve
// this request" the same way the real dispatcher would.
type RequestScope struct {
	app    *App
	route  *Route
	method string
	target string
	closed bool
}

// RequestScope opens a request scope for the given method and target URL. It fails
// if no registered route would serve such a request.
func (a *App) RequestScope(method, target string) (*RequestScope, error) {
	rt, err := a.matchRoute(method, target)
	if err != nil {
		return nil, err
	}
	a.addScope()
	return &RequestScope{app: a, route: rt, method: method, target: target}, nil
}

// Endpoint returns the name of the route that would serve this request.
func (s *RequestScope) Endpoint() string { return s.route.Name }

func (s *RequestScope) Method() string { return s.method }

func (s *RequestScope) Target() string { return s.target }

func (s *RequestScope) Close() error {
	if s.closed {
		return errors.New("request scope already closed")
	}
	s.closed = true
	s.app.releaseScope()
	return nil
}
