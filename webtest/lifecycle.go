package webtest

import (
	"runtime/debug"

	"github.com/TotallyNotChase/flask-unittest/harness"
)

type stage int

const (
	stageIdle stage = iota
	stageResourceBuilt
	stageScopeOpen
	stageSetupDone
	stageBodyDone
	stageTeardownDone
	stageResourceReleased
)

func (s stage) String() string {
	switch s {
	case stageIdle:
		return "idle"
	case stageResourceBuilt:
		return "resource built"
	case stageScopeOpen:
		return "scope open"
	case stageSetupDone:
		return "setup done"
	case stageBodyDone:
		return "body done"
	case stageTeardownDone:
		return "teardown done"
	case stageResourceReleased:
		return "resource released"
	}
	return "unknown"
}

type closer struct {
	name  string
	close func() error
}

// lifecycle tracks the progress of one test method and owns the stack of
// cleanups that must run when the method is over, no matter how it ended.
type lifecycle struct {
	c       *harness.Context
	stage   stage
	closers []closer
}

func newLifecycle(c *harness.Context) *lifecycle {
	return &lifecycle{c: c}
}

func (lc *lifecycle) advance(s stage) {
	lc.stage = s
	lc.c.Debug("lifecycle: %s", s)
}

func (lc *lifecycle) pushCloser(name string, close func() error) {
	lc.closers = append(lc.closers, closer{name: name, close: close})
}

// unwind runs the pending cleanups in reverse order of registration. A cleanup
// failure is recorded as a test error but does not stop the remaining cleanups.
func (lc *lifecycle) unwind() {
	for i := len(lc.closers) - 1; i >= 0; i-- {
		cl := lc.closers[i]
		if err := cl.close(); err != nil {
			lc.c.Errorf("cleanup of %s failed: %s", cl.name, err)
		}
	}
	lc.closers = nil
}

// runPhase runs one phase of a test method. FailNow and Skip exits are absorbed
// here so that the phases that must still run afterwards (such as tearDown) get
// their chance; an unexpected panic is recorded as a failure of the phase.
func runPhase(c *harness.Context, name string, phase func()) (skipped bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*harness.Context); ok {
				if c.Skipped() {
					skipped = true
					return
				}
				if !c.Failed() {
					c.Errorf("%s failed with no failure message", name)
				}
				return
			}
			c.Errorf("unexpected panic in %s: %+v\n%s", name, r, string(debug.Stack()))
		}
	}()
	phase()
	return false
}

// runMethodPhases drives setUp, the test body, and tearDown. A setUp failure
// skips the body but tearDown still runs, since setUp may have acquired state of
// its own before failing. A skip in setUp skips the body and tearDown both.
func runMethodPhases(c *harness.Context, lc *lifecycle, setUp, body, tearDown func()) {
	setupSkipped := false
	if setUp != nil {
		setupSkipped = runPhase(c, "setUp", setUp)
	}
	setupFailed := c.Failed()
	lc.advance(stageSetupDone)

	if !setupSkipped && !setupFailed {
		runPhase(c, "test body", body)
	}
	lc.advance(stageBodyDone)

	if !setupSkipped && tearDown != nil {
		runPhase(c, "tearDown", tearDown)
	}
	lc.advance(stageTeardownDone)
}

// runWithHooks wraps the case's one-shot hooks around its test methods. If
// BeforeAll fails or skips, the methods do not run; AfterAll runs regardless.
func runWithHooks(c *harness.Context, beforeAll, afterAll func(*T), methods func()) {
	t := newT(c)
	hooksOK := true
	if beforeAll != nil {
		skipped := runPhase(c, "BeforeAll", func() { beforeAll(t) })
		hooksOK = !skipped && !c.Failed()
	}
	if hooksOK {
		methods()
	}
	if afterAll != nil {
		runPhase(c, "AfterAll", func() { afterAll(t) })
	}
}
