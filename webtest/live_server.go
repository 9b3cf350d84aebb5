package webtest

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/TotallyNotChase/flask-unittest/webapp"
)

const (
	defaultStartupTimeoutMS = 5000
	startupProbeInterval    = 20 * time.Millisecond
)

type serverState int

const (
	serverNotStarted serverState = iota
	serverStarting
	serverRunning
	serverFailed
)

// LiveServer supervises one App serving real HTTP traffic. There is at most one
// LiveServer per App in the process; once the server is running it stays up for
// the rest of the process, and once a start has failed it stays failed. The
// serving goroutine is never joined or shut down.
type LiveServer struct {
	app *webapp.App

	mu       sync.Mutex
	state    serverState
	baseURL  string
	startErr error
}

var (
	registryMu sync.Mutex
	registry   = make(map[*webapp.App]*LiveServer)
)

// ServerFor returns the process-wide LiveServer for the app, creating it if
// there is none yet. It never starts the server; see EnsureStarted.
func ServerFor(app *webapp.App) *LiveServer {
	registryMu.Lock()
	defer registryMu.Unlock()
	if s, ok := registry[app]; ok {
		return s
	}
	s := &LiveServer{app: app}
	registry[app] = s
	return s
}

// App returns the application this server serves.
func (s *LiveServer) App() *webapp.App { return s.app }

// URL returns the base URL of the running server, such as "http://127.0.0.1:49213".
// It is only meaningful after EnsureStarted has returned successfully, and never
// changes afterwards.
func (s *LiveServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// EnsureStarted starts the app's server if it is not running yet and waits until
// it accepts TCP connections, or until the timeout elapses. The host and port
// come from the app's HOST and PORT settings (defaults "127.0.0.1" and 5000; a
// PORT of 0 picks a free ephemeral port). A zero timeout waits indefinitely.
//
// Calling EnsureStarted again is cheap: a running server is reused, and a failed
// start keeps returning the same error without retrying.
func (s *LiveServer) EnsureStarted(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case serverRunning:
		return nil
	case serverFailed:
		return s.startErr
	}
	s.state = serverStarting

	host := s.app.Settings().String("HOST", "127.0.0.1")
	port := s.app.Settings().Int("PORT", 5000)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.app.Serve(host, port)
	}()

	if err := awaitListening(s.app, serveErr, timeout); err != nil {
		s.state = serverFailed
		s.startErr = err
		s.app.Logger().Error().Err(err).Msg("live server failed to start")
		return s.startErr
	}

	s.baseURL = "http://" + s.app.ServerAddr()
	s.state = serverRunning
	s.app.Logger().Info().Str("url", s.baseURL).Msg("live server is up")
	return nil
}

// awaitListening polls until the server's listener accepts a TCP connection. If
// the serve goroutine exits first, its error is returned without further retries.
func awaitListening(app *webapp.App, serveErr <-chan error, timeout time.Duration) error {
	attempts := uint(0) // zero means retry until success
	if timeout > 0 {
		attempts = uint(timeout/startupProbeInterval) + 1
	}
	return retry.Do(
		func() error {
			select {
			case err := <-serveErr:
				if err == nil {
					err = errors.New("server exited before accepting connections")
				}
				return retry.Unrecoverable(err)
			default:
			}
			addr := app.ServerAddr()
			if addr == "" {
				return errors.New("listener is not bound yet")
			}
			conn, err := net.DialTimeout("tcp", addr, startupProbeInterval)
			if err != nil {
				return err
			}
			return conn.Close()
		},
		retry.Attempts(attempts),
		retry.Delay(startupProbeInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
