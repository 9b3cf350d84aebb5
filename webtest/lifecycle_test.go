package webtest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, entry)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func plainApp() (*webapp.App, error) {
	return webapp.New("scripted", nil), nil
}

func resultFor(t *testing.T, results harness.Results, id string) harness.TestResult {
	t.Helper()
	for _, r := range results.Tests {
		if r.TestID.String() == id {
			return r
		}
	}
	t.Fatalf("no result for %q in %+v", id, results.Tests)
	return harness.TestResult{}
}

func errorsAsText(r harness.TestResult) string {
	out := ""
	for _, err := range r.Errors {
		out += err.Error() + "\n"
	}
	return out
}

func TestAppIdentityIsStableWithinMethod(t *testing.T) {
	var fromSetUp, fromBody, fromTearDown *webapp.App
	suite := NewSuite("s").Add(AppCase{
		Name:     "case",
		NewApp:   plainApp,
		SetUp:    func(t *T, app *webapp.App) { fromSetUp = app },
		TearDown: func(t *T, app *webapp.App) { fromTearDown = app },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { fromBody = app }},
		},
	})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	require.NotNil(t, fromBody)
	assert.Same(t, fromBody, fromSetUp)
	assert.Same(t, fromBody, fromTearDown)
}

func TestEachMethodGetsAFreshApp(t *testing.T) {
	var apps []*webapp.App
	record := func(t *T, app *webapp.App) { apps = append(apps, app) }
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		Tests: []AppTest{
			{Name: "one", Run: record},
			{Name: "two", Run: record},
		},
	})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	require.Len(t, apps, 2)
	assert.NotSame(t, apps[0], apps[1])
}

func TestSetUpFailureSkipsBodyButRunsTearDown(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		SetUp: func(t *T, app *webapp.App) {
			log.add("setUp")
			t.Errorf("setup exploded")
		},
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"setUp", "tearDown"}, log.list())
	r := resultFor(t, results, "s/case/method")
	assert.Contains(t, errorsAsText(r), "setup exploded")
}

func TestSetUpFailNowSkipsBodyButRunsTearDown(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		SetUp: func(t *T, app *webapp.App) {
			log.add("setUp")
			require.Fail(t, "setup exploded")
		},
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"setUp", "tearDown"}, log.list())
}

func TestBodyFailureStillRunsTearDown(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:     "case",
		NewApp:   plainApp,
		SetUp:    func(t *T, app *webapp.App) { log.add("setUp") },
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) {
				log.add("body")
				t.Errorf("assertion failed")
			}},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"setUp", "body", "tearDown"}, log.list())
}

func TestPanicInBodyIsAFailureAndTearDownRuns(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:     "case",
		NewApp:   plainApp,
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { panic("kaboom") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"tearDown"}, log.list())
	r := resultFor(t, results, "s/case/method")
	assert.Contains(t, errorsAsText(r), "unexpected panic in test body")
	assert.Contains(t, errorsAsText(r), "kaboom")
}

func TestBareFailNowStillFailsTheTest(t *testing.T) {
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { t.FailNow() }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	r := resultFor(t, results, "s/case/method")
	assert.Contains(t, errorsAsText(r), "no failure message")
}

func TestSkipInSetUpSkipsBodyAndTearDown(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name: "case",
		AppFixture: func(yield func(*webapp.App)) {
			yield(webapp.New("scripted", nil))
			log.add("fixture cleanup")
		},
		SetUp: func(t *T, app *webapp.App) {
			log.add("setUp")
			t.SkipWithReason("dependency not installed")
		},
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.True(t, results.OK())
	assert.Equal(t, []string{"setUp", "fixture cleanup"}, log.list())
	assert.True(t, resultFor(t, results, "s/case/method").Skipped)
}

func TestSkipInBodyStillRunsTearDown(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:     "case",
		NewApp:   plainApp,
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { t.Skip() }},
		},
	})

	results := suite.Run(nil, nil)

	assert.True(t, results.OK())
	assert.Equal(t, []string{"tearDown"}, log.list())
	assert.True(t, resultFor(t, results, "s/case/method").Skipped)
}

func TestFixtureCleanupRunsOnceWhenBodyFails(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name: "case",
		AppFixture: func(yield func(*webapp.App)) {
			log.add("fixture build")
			yield(webapp.New("scripted", nil))
			log.add("fixture cleanup")
		},
		TearDown: func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) {
				log.add("body")
				t.Errorf("assertion failed")
			}},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Equal(t, []string{"fixture build", "body", "tearDown", "fixture cleanup"}, log.list())
}

func TestFixtureWithoutYieldFailsTheMethod(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppCase{
		Name:       "case",
		AppFixture: func(yield func(*webapp.App)) {},
		SetUp:      func(t *T, app *webapp.App) { log.add("setUp") },
		TearDown:   func(t *T, app *webapp.App) { log.add("tearDown") },
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) { log.add("body") }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.Empty(t, log.list())
	r := resultFor(t, results, "s/case/method")
	assert.Contains(t, errorsAsText(r), "without providing an app")
}

func TestCaseWithTwoProvidersFailsEachMethod(t *testing.T) {
	ran := false
	suite := NewSuite("s").Add(AppCase{
		Name:       "case",
		NewApp:     plainApp,
		AppFixture: func(yield func(*webapp.App)) { yield(webapp.New("scripted", nil)) },
		Tests: []AppTest{
			{Name: "one", Run: func(t *T, app *webapp.App) { ran = true }},
			{Name: "two", Run: func(t *T, app *webapp.App) { ran = true }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.False(t, ran)
	assert.Contains(t, errorsAsText(resultFor(t, results, "s/case/one")), "exactly one is required")
	assert.Contains(t, errorsAsText(resultFor(t, results, "s/case/two")), "exactly one is required")
}

func TestAppClientResourceOrder(t *testing.T) {
	log := &callLog{}
	suite := NewSuite("s").Add(AppClientCase{
		Name: "case",
		AppFixture: func(yield func(*webapp.App)) {
			log.add("fixture build")
			yield(webapp.New("scripted", nil))
			log.add("fixture cleanup")
		},
		SetUp:    func(t *T, app *webapp.App, client *webapp.Client) { log.add("setUp") },
		TearDown: func(t *T, app *webapp.App, client *webapp.Client) { log.add("tearDown") },
		Tests: []AppClientTest{
			{Name: "method", Run: func(t *T, app *webapp.App, client *webapp.Client) {
				log.add("body")
			}},
		},
	})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	assert.Equal(t,
		[]string{"fixture build", "setUp", "body", "tearDown", "fixture cleanup"},
		log.list())
}

func TestAppClientClientBelongsToMethodApp(t *testing.T) {
	suite := NewSuite("s").Add(AppClientCase{
		Name:   "case",
		NewApp: plainApp,
		Tests: []AppClientTest{
			{Name: "method", Run: func(t *T, app *webapp.App, client *webapp.Client) {
				assert.Same(t, app, client.App())
				assert.Equal(t, 2, app.ActiveScopes())
			}},
		},
	})

	results := suite.Run(nil, nil)

	assert.True(t, results.OK())
}

func TestClientCaseGivesFreshClientPerMethod(t *testing.T) {
	app := webapp.New("shared", nil)
	var clients []*webapp.Client
	record := func(t *T, client *webapp.Client) {
		assert.Same(t, app, client.App())
		clients = append(clients, client)
	}
	suite := NewSuite("s").Add(ClientCase{
		Name: "case",
		App:  app,
		Tests: []ClientTest{
			{Name: "one", Run: record},
			{Name: "two", Run: record},
		},
	})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	require.Len(t, clients, 2)
	assert.NotSame(t, clients[0], clients[1])
	assert.Equal(t, 0, app.ActiveScopes())
}

func TestClientCaseRequiresApp(t *testing.T) {
	ran := false
	suite := NewSuite("s").Add(ClientCase{
		Name: "case",
		Tests: []ClientTest{
			{Name: "method", Run: func(t *T, client *webapp.Client) { ran = true }},
		},
	})

	results := suite.Run(nil, nil)

	assert.False(t, results.OK())
	assert.False(t, ran)
	assert.Contains(t, errorsAsText(resultFor(t, results, "s/case")), "does not define an App")
}

func TestScopesAreBalancedAfterEachMethod(t *testing.T) {
	var fromBody *webapp.App
	suite := NewSuite("s").Add(AppCase{
		Name:   "case",
		NewApp: plainApp,
		Tests: []AppTest{
			{Name: "method", Run: func(t *T, app *webapp.App) {
				fromBody = app
				assert.Equal(t, 1, app.ActiveScopes())
			}},
		},
	})

	results := suite.Run(nil, nil)

	require.True(t, results.OK())
	require.NotNil(t, fromBody)
	assert.Equal(t, 0, fromBody.ActiveScopes())
}

func TestLifecycleUnwindsInReverseOrder(t *testing.T) {
	var order []string
	results := harness.Run(nil, nil, func(c *harness.Context) {
		c.Run("m", func(c *harness.Context) {
			lc := newLifecycle(c)
			lc.pushCloser("first", func() error { order = append(order, "first"); return nil })
			lc.pushCloser("second", func() error { order = append(order, "second"); return nil })
			lc.unwind()
		})
	})

	require.True(t, results.OK())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestLifecycleUnwindReportsCloseErrorsAndContinues(t *testing.T) {
	var order []string
	results := harness.Run(nil, nil, func(c *harness.Context) {
		c.Run("m", func(c *harness.Context) {
			lc := newLifecycle(c)
			lc.pushCloser("first", func() error {
				order = append(order, "first")
				return assert.AnError
			})
			lc.pushCloser("second", func() error {
				order = append(order, "second")
				return assert.AnError
			})
			lc.unwind()
		})
	})

	assert.False(t, results.OK())
	assert.Equal(t, []string{"second", "first"}, order)
	text := errorsAsText(resultFor(t, results, "m"))
	assert.Contains(t, text, "cleanup of first failed")
	assert.Contains(t, text, "cleanup of second failed")
}

func TestRunPhaseDistinguishesSkipFromFailure(t *testing.T) {
	_ = harness.Run(nil, nil, func(c *harness.Context) {
		c.Run("skipping", func(c *harness.Context) {
			skipped := runPhase(c, "phase", func() { c.Skip() })
			assert.True(t, skipped)
			assert.False(t, c.Failed())
		})
		c.Run("failing", func(c *harness.Context) {
			skipped := runPhase(c, "phase", func() { c.FailNow() })
			assert.False(t, skipped)
			assert.True(t, c.Failed())
		})
	})
}
