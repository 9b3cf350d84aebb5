package webtest

import (
	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// AppCase exercises the application object itself, without a client. Every test
// method receives its own fresh App, built from exactly one of NewApp and
// AppFixture, inside an open application scope.
type AppCase struct {
	Name string

	// NewApp builds the app for one test method. Exactly one of NewApp and
	// AppFixture must be set.
	NewApp AppFunc

	// AppFixture builds the app for one test method and runs its own cleanup
	// after the method is torn down.
	AppFixture AppGenerator

	// BeforeAll and AfterAll run once per case, around all test methods. If
	// BeforeAll fails or skips, the methods do not run; AfterAll runs regardless.
	BeforeAll func(*T)
	AfterAll  func(*T)

	// SetUp and TearDown run around every test method. TearDown runs even when
	// SetUp or the test body failed.
	SetUp    func(*T, *webapp.App)
	TearDown func(*T, *webapp.App)

	Tests []AppTest
}

// AppTest is one test method of an AppCase.
type AppTest struct {
	Name string
	Run  func(*T, *webapp.App)
}

func (ac AppCase) runCase(c *harness.Context) {
	c.Run(ac.Name, func(c *harness.Context) {
		runWithHooks(c, ac.BeforeAll, ac.AfterAll, func() {
			for _, test := range ac.Tests {
				test := test
				c.Run(test.Name, func(c *harness.Context) {
					ac.runTest(c, test)
				})
			}
		})
	})
}

func (ac AppCase) runTest(c *harness.Context, test AppTest) {
	t := newT(c)
	lc := newLifecycle(c)
	defer lc.unwind()

	app, release, err := acquireApp(ac.NewApp, ac.AppFixture)
	if err != nil {
		c.Errorf("%s", err)
		return
	}
	lc.pushCloser("app fixture", release)
	lc.advance(stageResourceBuilt)

	scope, err := app.OpenScope()
	if err != nil {
		c.Errorf("could not open app scope: %s", err)
		return
	}
	lc.pushCloser("app scope", scope.Close)
	lc.advance(stageScopeOpen)

	var setUp, tearDown func()
	if ac.SetUp != nil {
		setUp = func() { ac.SetUp(t, app) }
	}
	if ac.TearDown != nil {
		tearDown = func() { ac.TearDown(t, app) }
	}
	runMethodPhases(c, lc, setUp, func() { test.Run(t, app) }, tearDown)

	lc.unwind()
	lc.advance(stageResourceReleased)
}
