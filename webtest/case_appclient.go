package webtest

import (
	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// AppClientCase exercises a fresh application and a client derived from it. Every
// test method gets its own App (from exactly one of NewApp and AppFixture) and
// its own Client created from that App, with both scopes open. The client scope
// closes before the app scope, and the app is released last.
type AppClientCase struct {
	Name string

	// NewApp builds the app for one test method. Exactly one of NewApp and
	// AppFixture must be set.
	NewApp AppFunc

	// AppFixture builds the app for one test method and runs its own cleanup
	// after the method is torn down.
	AppFixture AppGenerator

	// Options configures every client the case creates.
	Options webapp.ClientOptions

	BeforeAll func(*T)
	AfterAll  func(*T)

	// SetUp and TearDown run around every test method. TearDown runs even when
	// SetUp or the test body failed.
	SetUp    func(*T, *webapp.App, *webapp.Client)
	TearDown func(*T, *webapp.App, *webapp.Client)

	Tests []AppClientTest
}

// AppClientTest is one test method of an AppClientCase.
type AppClientTest struct {
	Name string
	Run  func(*T, *webapp.App, *webapp.Client)
}

func (acc AppClientCase) runCase(c *harness.Context) {
	c.Run(acc.Name, func(c *harness.Context) {
		runWithHooks(c, acc.BeforeAll, acc.AfterAll, func() {
			for _, test := range acc.Tests {
				test := test
				c.Run(test.Name, func(c *harness.Context) {
					acc.runTest(c, test)
				})
			}
		})
	})
}

func (acc AppClientCase) runTest(c *harness.Context, test AppClientTest) {
	t := newT(c)
	lc := newLifecycle(c)
	defer lc.unwind()

	app, release, err := acquireApp(acc.NewApp, acc.AppFixture)
	if err != nil {
		c.Errorf("%s", err)
		return
	}
	lc.pushCloser("app fixture", release)
	lc.advance(stageResourceBuilt)

	appScope, err := app.OpenScope()
	if err != nil {
		c.Errorf("could not open app scope: %s", err)
		return
	}
	lc.pushCloser("app scope", appScope.Close)

	client, err := app.NewClient(acc.Options)
	if err != nil {
		c.Errorf("could not create client: %s", err)
		return
	}
	clientScope, err := client.OpenScope()
	if err != nil {
		c.Errorf("could not open client scope: %s", err)
		return
	}
	lc.pushCloser("client scope", clientScope.Close)
	lc.advance(stageScopeOpen)

	var setUp, tearDown func()
	if acc.SetUp != nil {
		setUp = func() { acc.SetUp(t, app, client) }
	}
	if acc.TearDown != nil {
		tearDown = func() { acc.TearDown(t, app, client) }
	}
	runMethodPhases(c, lc, setUp, func() { test.Run(t, app, client) }, tearDown)

	lc.unwind()
	lc.advance(stageResourceReleased)
}
