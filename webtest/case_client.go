package webtest

import (
	"github.com/TotallyNotChase/flask-unittest/harness"
	"github.com/TotallyNotChase/flask-unittest/webapp"
)

// ClientCase exercises an application through an in-process Client. The App is
// shared by all test methods of the case (it is built once, by the case author);
// each method gets its own fresh Client, so cookies and captured request state
// never leak between methods.
type ClientCase struct {
	Name string

	// App is the application the clients are derived from. Required.
	App *webapp.App

	// Options configures every client the case creates.
	Options webapp.ClientOptions

	BeforeAll func(*T)
	AfterAll  func(*T)

	// SetUp and TearDown run around every test method. TearDown runs even when
	// SetUp or the test body failed.
	SetUp    func(*T, *webapp.Client)
	TearDown func(*T, *webapp.Client)

	Tests []ClientTest
}

// ClientTest is one test method of a ClientCase.
type ClientTest struct {
	Name string
	Run  func(*T, *webapp.Client)
}

func (cc ClientCase) runCase(c *harness.Context) {
	c.Run(cc.Name, func(c *harness.Context) {
		if cc.App == nil {
			c.Errorf("case does not define an App")
			return
		}
		runWithHooks(c, cc.BeforeAll, cc.AfterAll, func() {
			for _, test := range cc.Tests {
				test := test
				c.Run(test.Name, func(c *harness.Context) {
					cc.runTest(c, test)
				})
			}
		})
	})
}

func (cc ClientCase) runTest(c *harness.Context, test ClientTest) {
	t := newT(c)
	lc := newLifecycle(c)
	defer lc.unwind()

	client, err := cc.App.NewClient(cc.Options)
	if err != nil {
		c.Errorf("could not create client: %s", err)
		return
	}
	lc.advance(stageResourceBuilt)

	scope, err := client.OpenScope()
	if err != nil {
		c.Errorf("could not open client scope: %s", err)
		return
	}
	lc.pushCloser("client scope", scope.Close)
	lc.advance(stageScopeOpen)

	var setUp, tearDown func()
	if cc.SetUp != nil {
		setUp = func() { cc.SetUp(t, client) }
	}
	if cc.TearDown != nil {
		tearDown = func() { cc.TearDown(t, client) }
	}
	runMethodPhases(c, lc, setUp, func() { test.Run(t, client) }, tearDown)

	lc.unwind()
	lc.advance(stageResourceReleased)
}
