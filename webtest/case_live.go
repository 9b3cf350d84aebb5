package webtest

import (
	"github.com/TotallyNotChase/flask-unittest/harness"
)

// LiveCase exercises an application that is serving real HTTP traffic. The server
// belongs to the enclosing LiveSuite: it is started before the first test method
// and shared by all of them, so test methods must not assume exclusive ownership
// of server-side state. Each method receives the LiveServer handle, whose URL
// method gives the base URL to send requests to.
type LiveCase struct {
	Name string

	BeforeAll func(*T)
	AfterAll  func(*T)

	// SetUp and TearDown run around every test method. TearDown runs even when
	// SetUp or the test body failed.
	SetUp    func(*T, *LiveServer)
	TearDown func(*T, *LiveServer)

	Tests []LiveTest
}

// LiveTest is one test method of a LiveCase.
type LiveTest struct {
	Name string
	Run  func(*T, *LiveServer)
}

func (lcse LiveCase) runCase(c *harness.Context, server *LiveServer, startErr error) {
	c.Run(lcse.Name, func(c *harness.Context) {
		if startErr != nil {
			c.Errorf("live server is not available: %s", startErr)
			return
		}
		runWithHooks(c, lcse.BeforeAll, lcse.AfterAll, func() {
			for _, test := range lcse.Tests {
				test := test
				c.Run(test.Name, func(c *harness.Context) {
					lcse.runTest(c, server, test)
				})
			}
		})
	})
}

func (lcse LiveCase) runTest(c *harness.Context, server *LiveServer, test LiveTest) {
	t := newT(c)
	lc := newLifecycle(c)
	defer lc.unwind()

	// the server is the method's resource; it was built once for the whole suite
	lc.advance(stageResourceBuilt)

	var setUp, tearDown func()
	if lcse.SetUp != nil {
		setUp = func() { lcse.SetUp(t, server) }
	}
	if lcse.TearDown != nil {
		tearDown = func() { lcse.TearDown(t, server) }
	}
	runMethodPhases(c, lc, setUp, func() { test.Run(t, server) }, tearDown)

	lc.advance(stageResourceReleased)
}
