package webtest

import (
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// Case is one test case a Suite can run. AppCase, ClientCase, and AppClientCase
// implement it.
type Case interface {
	runCase(c *harness.Context)
}

// Suite is an ordered collection of test cases that run through the harness.
type Suite struct {
	name  string
	cases []Case
}

func NewSuite(name string) *Suite {
	return &Suite{name: name}
}

// Add appends cases to the suite and returns it, so calls can be chained.
func (s *Suite) Add(cases ...Case) *Suite {
	s.cases = append(s.cases, cases...)
	return s
}

// Run runs every case in order and returns the collected results. Test IDs are
// paths of the form "<suite>/<case>/<test>", which is what the filter matches
// against. A nil filter runs everything; a nil logger discards test events.
func (s *Suite) Run(filter harness.Filter, logger harness.TestLogger) harness.Results {
	return harness.Run(filter, logger, func(c *harness.Context) {
		c.Run(s.name, func(c *harness.Context) {
			for _, cs := range s.cases {
				cs.runCase(c)
			}
		})
	})
}

// LiveSuite is an ordered collection of LiveCases that share one live server for
// the given app. The server is started on the first Run that needs it and is
// then reused, also across other LiveSuites for the same app.
type LiveSuite struct {
	// StartupTimeoutMS caps how long Run waits for the server to accept
	// connections before failing the suite's cases. If not set, 5000 is used.
	// An explicit 0 waits indefinitely.
	StartupTimeoutMS ldvalue.OptionalInt

	name  string
	app   *webapp.App
	cases []LiveCase
}

func NewLiveSuite(name string, app *webapp.App) *LiveSuite {
	return &LiveSuite{name: name, app: app}
}

// Add appends cases to the suite and returns it, so calls can be chained.
func (s *LiveSuite) Add(cases ...LiveCase) *LiveSuite {
	s.cases = append(s.cases, cases...)
	return s
}

// Run makes sure the app's live server is up, then runs every case in order. If
// the server cannot start, each case fails with the start error instead of
// hanging on requests that could never succeed.
func (s *LiveSuite) Run(filter harness.Filter, logger harness.TestLogger) harness.Results {
	return harness.Run(filter, logger, func(c *harness.Context) {
		c.Run(s.name, func(c *harness.Context) {
			server := ServerFor(s.app)
			startErr := server.EnsureStarted(s.startupTimeout())
			for _, cs := range s.cases {
				cs.runCase(c, server, startErr)
			}
		})
	})
}

func (s *LiveSuite) startupTimeout() time.Duration {
	ms := defaultStartupTimeoutMS
	if s.StartupTimeoutMS.IsDefined() {
		ms = s.StartupTimeoutMS.IntValue()
	}
	return time.Duration(ms) * time.Millisecond
}
