package webapp

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"
)

// App is a web application assembled from named routes. It can be exercised
// in-process through a Client, or serve real HTTP traffic through Serve.
type App struct {
	name     string
	settings Settings
	logger   zerolog.Logger
	mux      *http.ServeMux
	codec    *securecookie.SecureCookie

	mu           sync.Mutex
	routes       []*Route
	routesByKey  map[string]*Route
	activeScopes int
	serving      bool
	boundAddr    string
}

// Route describes one registered route of an App.
type Route struct {
	Name    string
	Method  string
	Pattern string
}

func New(name string, settings Settings) *App {
	if settings == nil {
		settings = Settings{}
	}
	return &App{
		name:        name,
		settings:    settings,
		logger:      newLogger(name),
		mux:         http.NewServeMux(),
		codec:       newSessionCodec(settings.String("SECRET_KEY", "dev")),
		routesByKey: make(map[string]*Route),
	}
}

func (a *App) Name() string { return a.name }

func (a *App) Settings() Settings { return a.settings }

// Logger returns the app's structured logger, for application handlers that want
// to log through it.
func (a *App) Logger() zerolog.Logger { return a.logger }

// Route registers a handler under an endpoint name. The pattern uses net/http
// ServeMux syntax, so "/{id}/update" captures a path segment and "/{$}" matches
// only the root path. Registering two routes with the same method and pattern
// panics, as it does on a bare ServeMux.
func (a *App) Route(name, method, pattern string, handler http.Handler) {
	rt := &Route{Name: name, Method: method, Pattern: pattern}
	key := method + " " + pattern
	a.mu.Lock()
	a.routes = append(a.routes, rt)
	a.routesByKey[key] = rt
	a.mu.Unlock()
	a.mux.Handle(key, a.instrument(rt, handler))
}

func (a *App) RouteFunc(name, method, pattern string, handler func(http.ResponseWriter, *http.Request)) {
	a.Route(name, method, pattern, http.HandlerFunc(handler))
}

// Routes returns the registered routes in registration order.
func (a *App) Routes() []Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	ret := make([]Route, 0, len(a.routes))
	for _, rt := range a.routes {
		ret = append(ret, *rt)
	}
	return ret
}

// Handler returns the root http.Handler of the app.
func (a *App) Handler() http.Handler { return a.mux }

func (a *App) instrument(rt *Route, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ex := exchangeFrom(r.Context()); ex != nil {
			ex.endpoint = rt.Name
			ex.request = r
		}
		a.logger.Debug().
			Str("endpoint", rt.Name).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("handling request")
		handler.ServeHTTP(w, r)
	})
}

// matchRoute resolves which route would handle a request, without dispatching it.
func (a *App) matchRoute(method, target string) (*Route, error) {
	req := httptest.NewRequest(method, target, nil)
	_, pattern := a.mux.Handler(req)
	if pattern != "" {
		a.mu.Lock()
		rt := a.routesByKey[pattern]
		a.mu.Unlock()
		if rt != nil {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no route matches %s %s", method, target)
}

func (a *App) addScope() {
	a.mu.Lock()
	a.activeScopes++
	a.mu.Unlock()
}

func (a *App) releaseScope() {
	a.mu.Lock()
	a.activeScopes--
	a.mu.Unlock()
}

// ActiveScopes returns how many scopes of this app are currently open. Test
// harnesses use it to detect scopes leaking past the test that opened them.
func (a *App) ActiveScopes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeScopes
}

// Serve listens on host:port and serves the app until the server fails. A port of 0
// binds an ephemeral port; ServerAddr reports the actual address once the listener
// is up. Serve may only be called once per App.
func (a *App) Serve(host string, port int) error {
	a.mu.Lock()
	if a.serving {
		a.mu.Unlock()
		return errors.New("app is already serving")
	}
	a.serving = true
	a.mu.Unlock()

	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		a.mu.Lock()
		a.serving = false
		a.mu.Unlock()
		return fmt.Errorf("could not listen on %s:%d: %w", host, port, err)
	}
	a.mu.Lock()
	a.boundAddr = ln.Addr().String()
	a.mu.Unlock()
	a.logger.Info().Str("addr", ln.Addr().String()).Msg("serving")

	server := &http.Server{Handler: a.mux}
	return server.Serve(ln)
}

// ServerAddr returns the address Serve is listening on, or "" if the listener is
// not up yet.
func (a *App) ServerAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.boundAddr
}
